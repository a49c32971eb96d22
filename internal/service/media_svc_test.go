package service

import (
	"testing"

	"github.com/LaGGgggg/SkyLibrary/internal/repository"
)

func TestDedupe(t *testing.T) {
	tests := []struct {
		name string
		in   []int64
		want []int64
	}{
		{"nil", nil, nil},
		{"no repeats", []int64{1, 2, 3}, []int64{1, 2, 3}},
		{"repeats dropped, order kept", []int64{1, 1, 2, 3, 2}, []int64{1, 2, 3}},
		{"all same", []int64{5, 5, 5}, []int64{5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dedupe(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestSearchCacheKey_TagOrderInsensitive(t *testing.T) {
	a := SearchCacheKey(&repository.MediaFilter{TagIDs: []int64{3, 1, 2}})
	b := SearchCacheKey(&repository.MediaFilter{TagIDs: []int64{1, 2, 3}})
	if a != b {
		t.Error("tag order must not change the cache key")
	}
}

func TestSearchCacheKey_DistinguishesFilters(t *testing.T) {
	base := SearchCacheKey(&repository.MediaFilter{Title: "dune"})

	variants := []*repository.MediaFilter{
		{Title: "dune", Author: "x"},
		{Title: "dune", Direction: repository.DirectionAscending},
		{Title: "dune", HasRating: true, RatingMax: 5},
		{Title: "dune", Limit: 10},
		{Title: "other"},
	}
	for i, f := range variants {
		if SearchCacheKey(f) == base {
			t.Errorf("variant %d produced the same key as the base filter", i)
		}
	}
}

func TestSearchCacheKey_Stable(t *testing.T) {
	f := &repository.MediaFilter{Title: "dune", TagIDs: []int64{2, 1}, Limit: 5}
	if SearchCacheKey(f) != SearchCacheKey(f) {
		t.Error("cache key must be deterministic")
	}
}

func TestSearchCacheKey_DoesNotMutateFilter(t *testing.T) {
	f := &repository.MediaFilter{TagIDs: []int64{3, 1, 2}}
	SearchCacheKey(f)
	if f.TagIDs[0] != 3 || f.TagIDs[1] != 1 || f.TagIDs[2] != 2 {
		t.Errorf("filter tag order mutated: %v", f.TagIDs)
	}
}
