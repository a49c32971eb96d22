package middleware

import (
	"strings"
	"testing"
)

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid", "War and Peace", "War and Peace", false},
		{"trims whitespace", "  Dune  ", "Dune", false},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
		{"exactly 60", strings.Repeat("a", 60), strings.Repeat("a", 60), false},
		{"too long", strings.Repeat("a", 61), "", true},
		{"unicode counted as runes", strings.Repeat("я", 60), strings.Repeat("я", 60), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateTitle(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateAuthor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid", "Frank Herbert", "Frank Herbert", false},
		{"empty", "", "", true},
		{"exactly 30", strings.Repeat("b", 30), strings.Repeat("b", 30), false},
		{"too long", strings.Repeat("b", 31), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateAuthor(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid", "reader42", "reader42", false},
		{"trims outer whitespace", " reader ", "reader", false},
		{"empty", "", "", true},
		{"inner space", "bad name", "", true},
		{"tab", "bad\tname", "", true},
		{"too long", strings.Repeat("u", 151), "", true},
		{"exactly 150", strings.Repeat("u", 150), strings.Repeat("u", 150), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateUsername(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	if errMsg := ValidatePassword("1234567"); errMsg == "" {
		t.Error("7-character password should be rejected")
	}
	if errMsg := ValidatePassword("12345678"); errMsg != "" {
		t.Errorf("8-character password rejected: %s", errMsg)
	}
}

func TestValidateRating(t *testing.T) {
	for _, v := range []int16{1, 2, 3, 4, 5} {
		if errMsg := ValidateRating(v); errMsg != "" {
			t.Errorf("rating %d rejected: %s", v, errMsg)
		}
	}
	for _, v := range []int16{0, 6, -1, 100} {
		if errMsg := ValidateRating(v); errMsg == "" {
			t.Errorf("rating %d should be rejected", v)
		}
	}
}

func TestValidateVote(t *testing.T) {
	if errMsg := ValidateVote(1); errMsg != "" {
		t.Errorf("upvote rejected: %s", errMsg)
	}
	if errMsg := ValidateVote(-1); errMsg != "" {
		t.Errorf("downvote rejected: %s", errMsg)
	}
	for _, v := range []int16{0, 2, -2, 5} {
		if errMsg := ValidateVote(v); errMsg == "" {
			t.Errorf("vote %d should be rejected", v)
		}
	}
}

func TestValidateRatingRange(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
		wantErr  bool
	}{
		{"full range", 0, 5, false},
		{"narrow range", 2.5, 3.5, false},
		{"point range", 4, 4, false},
		{"inverted", 4, 2, true},
		{"negative min", -1, 3, true},
		{"max above five", 1, 5.5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errMsg := ValidateRatingRange(tt.min, tt.max)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
		})
	}
}

func TestValidateDirection(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"empty defaults to descending", "", "descending", false},
		{"ascending", "ascending", "ascending", false},
		{"descending", "descending", "descending", false},
		{"uppercase normalized", "ASCENDING", "ascending", false},
		{"trimmed", " descending ", "descending", false},
		{"unknown", "sideways", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateDirection(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
