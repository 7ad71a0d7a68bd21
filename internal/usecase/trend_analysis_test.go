package usecase

import (
	"testing"
	"time"
)

func TestLookbackDays(t *testing.T) {
	cases := []struct {
		period  string
		days    int
		bounded bool
	}{
		{"all", defaultHistoryDays, false},
		{"", defaultHistoryDays, false},
		{"ALL", defaultHistoryDays, false},
		{"1y", 365, true},
		{"5y", 365 * 5, true},
		{"10y", 3650, true},
		{"garbage", 365 * 3, true},
		{"0y", 365 * 3, true},
	}
	for _, tc := range cases {
		days, bounded := lookbackDays(tc.period)
		if days != tc.days || bounded != tc.bounded {
			t.Fatalf("period %q: expected (%d, %v), got (%d, %v)",
				tc.period, tc.days, tc.bounded, days, bounded)
		}
	}
}

func TestPeriodDescription(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	if got := periodDescription("all", defaultHistoryDays, now); got != "full history" {
		t.Fatalf("expected full history, got %q", got)
	}
	got := periodDescription("1y", 365, now)
	want := "2023-06-16 to 2024-06-15"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
