package repository

import (
	"strings"
	"testing"
)

func TestMediaFilter_Build_NoPredicates(t *testing.T) {
	f := &MediaFilter{}
	sql, args := f.Build()

	if !strings.Contains(sql, "WHERE m.active = 1") {
		t.Error("query must always restrict to active media")
	}
	if strings.Contains(sql, "LIKE") {
		t.Error("no LIKE predicate expected without text filters")
	}
	if !strings.Contains(sql, "ORDER BY") || !strings.Contains(sql, "DESC, m.pub_date DESC") {
		t.Errorf("default order must be rating descending with pub_date tiebreak:\n%s", sql)
	}
	if len(args) != 0 {
		t.Errorf("got %d args, want 0", len(args))
	}
}

func TestMediaFilter_Build_TextPredicates(t *testing.T) {
	f := &MediaFilter{Title: "dune", Author: "herbert", Username: "reader"}
	sql, args := f.Build()

	for _, want := range []string{
		`m.title LIKE '%' || $1 || '%' ESCAPE '\'`,
		`m.author LIKE '%' || $2 || '%' ESCAPE '\'`,
		`u.username LIKE '%' || $3 || '%' ESCAPE '\'`,
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("missing predicate %q in:\n%s", want, sql)
		}
	}
	if len(args) != 3 {
		t.Fatalf("got %d args, want 3", len(args))
	}
	if args[0] != "dune" || args[1] != "herbert" || args[2] != "reader" {
		t.Errorf("args = %v, want [dune herbert reader]", args)
	}
}

func TestMediaFilter_Build_EscapesLikeMetachars(t *testing.T) {
	f := &MediaFilter{Title: "100%", Author: "jo_hn", Username: `back\slash`}
	_, args := f.Build()

	want := []any{`100\%`, `jo\_hn`, `back\\slash`}
	if len(args) != len(want) {
		t.Fatalf("got %d args, want %d", len(args), len(want))
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("arg %d = %q, want %q", i, args[i], want[i])
		}
	}
}

func TestMediaFilter_Build_TagIntersection(t *testing.T) {
	f := &MediaFilter{TagIDs: []int64{3, 7}}
	sql, args := f.Build()

	if !strings.Contains(sql, "mt.tag_id = ANY($1)") {
		t.Errorf("missing tag membership predicate in:\n%s", sql)
	}
	if !strings.Contains(sql, "HAVING COUNT(DISTINCT mt.tag_id) = $2") {
		t.Errorf("missing all-tags intersection predicate in:\n%s", sql)
	}
	if len(args) != 2 {
		t.Fatalf("got %d args, want 2", len(args))
	}
	if n, ok := args[1].(int); !ok || n != 2 {
		t.Errorf("tag count arg = %v, want 2", args[1])
	}
}

func TestMediaFilter_Build_RatingRange(t *testing.T) {
	f := &MediaFilter{HasRating: true, RatingMin: 2.5, RatingMax: 4}
	sql, args := f.Build()

	if !strings.Contains(sql, "BETWEEN $1 AND $2") {
		t.Errorf("missing rating range predicate in:\n%s", sql)
	}
	if len(args) != 2 || args[0] != 2.5 || args[1] != 4.0 {
		t.Errorf("args = %v, want [2.5 4]", args)
	}
}

func TestMediaFilter_Build_ZeroRatingRangeApplies(t *testing.T) {
	// HasRating distinguishes "range 0..0" from "no range".
	f := &MediaFilter{HasRating: true}
	sql, _ := f.Build()
	if !strings.Contains(sql, "BETWEEN") {
		t.Error("explicit zero range must still produce a predicate")
	}

	f = &MediaFilter{}
	sql, _ = f.Build()
	if strings.Contains(sql, "BETWEEN") {
		t.Error("no range predicate expected when HasRating is unset")
	}
}

func TestMediaFilter_Build_AscendingDirection(t *testing.T) {
	f := &MediaFilter{Direction: DirectionAscending}
	sql, _ := f.Build()
	if !strings.Contains(sql, "ASC, m.pub_date DESC") {
		t.Errorf("ascending direction not applied:\n%s", sql)
	}
}

func TestMediaFilter_Build_Limit(t *testing.T) {
	f := &MediaFilter{Limit: 25}
	sql, args := f.Build()
	if !strings.Contains(sql, "LIMIT $1") {
		t.Errorf("missing limit clause:\n%s", sql)
	}
	if len(args) != 1 || args[0] != 25 {
		t.Errorf("args = %v, want [25]", args)
	}
}

func TestMediaFilter_Build_CombinedOrdinals(t *testing.T) {
	f := &MediaFilter{
		Title:     "go",
		TagIDs:    []int64{1},
		HasRating: true,
		RatingMin: 1,
		RatingMax: 5,
		Limit:     10,
	}
	sql, args := f.Build()

	// title, tag array, tag count, min, max, limit
	if len(args) != 6 {
		t.Fatalf("got %d args, want 6", len(args))
	}
	if !strings.Contains(sql, "LIMIT $6") {
		t.Errorf("limit must take the last ordinal:\n%s", sql)
	}
}
