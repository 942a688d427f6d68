package engine

import (
	"testing"
	"time"
)

var dateNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func TestNormalizeDateDefaultsToToday(t *testing.T) {
	for _, input := range []string{"", "not-a-date", "15/06/2025", "2025-6-15"} {
		got, err := NormalizeDate(input, dateNow)
		if err != nil {
			t.Fatalf("NormalizeDate(%q): %v", input, err)
		}
		if got != "2025-06-15" {
			t.Fatalf("NormalizeDate(%q) = %q, want today", input, got)
		}
	}
}

func TestNormalizeDateClampsFuture(t *testing.T) {
	got, err := NormalizeDate("2999-01-01", dateNow)
	if err != nil {
		t.Fatalf("NormalizeDate: %v", err)
	}
	if got != "2025-06-15" {
		t.Fatalf("future date = %q, want clamp to today", got)
	}
}

func TestNormalizeDateRejectsDeepPast(t *testing.T) {
	// 90 days back is past the 60-day backdate bound
	old := dateNow.AddDate(0, 0, -90).Format(DateLayout)
	if _, err := NormalizeDate(old, dateNow); !IsValidation(err) {
		t.Fatalf("NormalizeDate(%q): got %v, want validation error", old, err)
	}
}

func TestNormalizeDateAcceptsRecentPast(t *testing.T) {
	recent := dateNow.AddDate(0, 0, -59).Format(DateLayout)
	got, err := NormalizeDate(recent, dateNow)
	if err != nil {
		t.Fatalf("NormalizeDate(%q): %v", recent, err)
	}
	if got != recent {
		t.Fatalf("NormalizeDate(%q) = %q, want unchanged", recent, got)
	}
}
