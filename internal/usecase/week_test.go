package usecase

import (
	"testing"
	"time"
)

func TestSeasonYear(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		want int
	}{
		{"september belongs to current year", time.Date(2025, time.September, 7, 0, 0, 0, 0, time.UTC), 2025},
		{"december belongs to current year", time.Date(2025, time.December, 28, 0, 0, 0, 0, time.UTC), 2025},
		{"january belongs to previous year", time.Date(2026, time.January, 4, 0, 0, 0, 0, time.UTC), 2025},
		{"june belongs to previous year", time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC), 2025},
		{"july flips to the new season", time.Date(2026, time.July, 15, 0, 0, 0, 0, time.UTC), 2026},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SeasonYear(tc.now); got != tc.want {
				t.Fatalf("SeasonYear(%s) = %d, want %d", tc.now, got, tc.want)
			}
		})
	}
}

func TestWeekFromDate(t *testing.T) {
	// 2025 season: first Thursday of September is the 4th.
	cases := []struct {
		name string
		now  time.Time
		want int
	}{
		{"before kickoff", time.Date(2025, time.August, 20, 0, 0, 0, 0, time.UTC), 1},
		{"opening sunday", time.Date(2025, time.September, 7, 13, 0, 0, 0, time.UTC), 1},
		{"second week", time.Date(2025, time.September, 14, 13, 0, 0, 0, time.UTC), 2},
		{"late december", time.Date(2025, time.December, 21, 13, 0, 0, 0, time.UTC), 16},
		{"clamped at eighteen", time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), 18},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := WeekFromDate(tc.now); got != tc.want {
				t.Fatalf("WeekFromDate(%s) = %d, want %d", tc.now, got, tc.want)
			}
		})
	}
}

func TestClampWeek(t *testing.T) {
	now := time.Date(2025, time.September, 14, 13, 0, 0, 0, time.UTC)

	if got := ClampWeek(7, now); got != 7 {
		t.Fatalf("valid week altered: %d", got)
	}
	if got := ClampWeek(0, now); got != 2 {
		t.Fatalf("zero week should fall back to date estimate, got %d", got)
	}
	if got := ClampWeek(25, now); got != 18 {
		t.Fatalf("oversized week should clamp to 18, got %d", got)
	}
}
