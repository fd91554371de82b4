package timeutil

import (
	"testing"
	"time"
)

func TestParseUTCOffset(t *testing.T) {
	t.Parallel()

	got, err := Parse("2024-08-10T15:00:00+00:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Date != "2024-08-10" {
		t.Errorf("date = %q", got.Date)
	}
	if got.Time != "15:00:00" {
		t.Errorf("time = %q", got.Time)
	}
	if got.DateTime != "2024-08-10T15:00:00Z" {
		t.Errorf("datetime = %q", got.DateTime)
	}
}

func TestParseRoundTripsAcrossZones(t *testing.T) {
	t.Parallel()

	// Same instant expressed in three different zone representations.
	inputs := []string{
		"2024-08-10T15:00:00Z",
		"2024-08-10T17:00:00+02:00",
		"2024-08-10T10:00:00-05:00",
	}

	want := time.Date(2024, 8, 10, 15, 0, 0, 0, time.UTC)
	for _, raw := range inputs {
		got, err := Parse(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if !got.At.Equal(want) {
			t.Errorf("parse %q: instant = %v, want %v", raw, got.At, want)
		}
	}
}

func TestParseDateOnly(t *testing.T) {
	t.Parallel()

	got, err := Parse("2025-03-16")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Date != "2025-03-16" || got.Time != "00:00:00" {
		t.Errorf("got date=%q time=%q", got.Date, got.Time)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "   ", "not-a-date", "10/08/2024"} {
		if _, err := Parse(raw); err == nil {
			t.Errorf("expected error for %q", raw)
		}
	}
}
