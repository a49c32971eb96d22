package service

import "testing"

func TestParseMediaID(t *testing.T) {
	tests := []struct {
		payload string
		want    int64
		ok      bool
	}{
		{"42", 42, true},
		{"1", 1, true},
		{"9007", 9007, true},
		{"", 0, false},
		{"0", 0, false},
		{"-5", 0, false},
		{"12a", 0, false},
		{" 12", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			got, ok := parseMediaID(tt.payload)
			if ok != tt.ok || got != tt.want {
				t.Errorf("parseMediaID(%q) = (%d, %t), want (%d, %t)", tt.payload, got, ok, tt.want, tt.ok)
			}
		})
	}
}
