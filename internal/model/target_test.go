package model

import "testing"

func TestParseTargetRef(t *testing.T) {
	tests := []struct {
		name    string
		typ     string
		id      int64
		want    TargetRef
		wantErr bool
	}{
		{"media target", "media", 7, MediaRef(7), false},
		{"comment target", "comment", 3, CommentRef(3), false},
		{"zero id", "media", 0, TargetRef{}, true},
		{"negative id", "comment", -1, TargetRef{}, true},
		{"unknown type", "user", 5, TargetRef{}, true},
		{"empty type", "", 5, TargetRef{}, true},
		{"case sensitive", "Media", 5, TargetRef{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTargetRef(tt.typ, tt.id)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}
