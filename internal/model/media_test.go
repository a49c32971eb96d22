package model

import "testing"

func TestRoundedAverage(t *testing.T) {
	tests := []struct {
		name  string
		sum   int64
		count int64
		want  float64
	}{
		{"no ratings", 0, 0, 0},
		{"single five", 5, 1, 5},
		{"single one", 1, 1, 1},
		{"exact average", 8, 2, 4},
		{"rounds to two decimals", 10, 3, 3.33},
		{"rounds half up", 7, 2, 3.5},
		{"repeating third", 4, 3, 1.33},
		{"two thirds rounds up", 5, 3, 1.67},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoundedAverage(tt.sum, tt.count); got != tt.want {
				t.Errorf("RoundedAverage(%d, %d) = %v, want %v", tt.sum, tt.count, got, tt.want)
			}
		})
	}
}
