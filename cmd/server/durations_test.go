package main

import (
	"testing"
	"time"
)

func TestParseISODuration(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"P1D", 24 * time.Hour},
		{"PT30M", 30 * time.Minute},
		{"PT1H", time.Hour},
		{"PT90S", 90 * time.Second},
		{"P2DT12H", 60 * time.Hour},
		{"P1DT1H1M1S", 24*time.Hour + time.Hour + time.Minute + time.Second},
	}
	for _, tc := range cases {
		got, err := parseISODuration(tc.in)
		if err != nil {
			t.Errorf("parseISODuration(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseISODuration(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseISODurationRejects(t *testing.T) {
	for _, s := range []string{"", "P", "PT", "1D", "P1W", "P1M", "PT1D", "P-1D", "one day"} {
		if _, err := parseISODuration(s); err == nil {
			t.Errorf("parseISODuration(%q) succeeded, want error", s)
		}
	}
}
