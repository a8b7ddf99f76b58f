package core

import (
	"testing"
	"time"
)

func TestWeekStart(t *testing.T) {
	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"monday midnight is its own boundary", monday, monday},
		{"monday afternoon", time.Date(2026, 8, 24, 15, 30, 0, 0, time.UTC), monday},
		{"wednesday", time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC), monday},
		{"sunday late evening", time.Date(2026, 8, 30, 23, 59, 59, 0, time.UTC), monday},
		{"next monday starts a new week", time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)},
		{"year boundary", time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := WeekStart(tc.in)
			if !got.Equal(tc.want) {
				t.Fatalf("WeekStart(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestWeekStartNormalizesZone(t *testing.T) {
	// 01:00 Monday in UTC+3 is still Sunday in UTC; the boundary must be
	// computed in UTC.
	loc := time.FixedZone("UTC+3", 3*60*60)
	in := time.Date(2026, 8, 24, 1, 0, 0, 0, loc)
	want := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)

	if got := WeekStart(in); !got.Equal(want) {
		t.Fatalf("WeekStart(%v) = %v, want %v", in, got, want)
	}
}
