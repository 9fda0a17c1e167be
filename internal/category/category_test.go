package category

import (
	"testing"
	"time"
)

func TestName_Known(t *testing.T) {
	if got := Name(1); got != "Food" {
		t.Errorf("Name(1) = %q, want Food", got)
	}
	if got := Name(16); got != "Credit Card" {
		t.Errorf("Name(16) = %q, want Credit Card", got)
	}
}

func TestName_UnknownFallsBack(t *testing.T) {
	if got := Name(99); got != FallbackName {
		t.Errorf("Name(99) = %q, want %q", got, FallbackName)
	}
	if got := Name(0); got != FallbackName {
		t.Errorf("Name(0) = %q, want %q", got, FallbackName)
	}
}

func TestIcon_UnknownFallsBack(t *testing.T) {
	if got := Icon(99); got != FallbackIcon {
		t.Errorf("Icon(99) = %q, want %q", got, FallbackIcon)
	}
}

func TestFallback_CoversAllIDs(t *testing.T) {
	cats := Fallback()
	if len(cats) != 16 {
		t.Fatalf("Fallback() returned %d categories, want 16", len(cats))
	}
	for i, c := range cats {
		if c.ID != i+1 {
			t.Errorf("Fallback()[%d].ID = %d, want %d", i, c.ID, i+1)
		}
		if c.Name == "" || c.Icon == "" {
			t.Errorf("category %d missing name or icon", c.ID)
		}
	}
}

func TestNormalizeTime(t *testing.T) {
	now := time.Date(2025, 12, 11, 9, 0, 0, 0, time.UTC)

	got := NormalizeTime("2025-12-10T18:30:00Z", "", now)
	want := time.Date(2025, 12, 10, 18, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("dateTime parse = %v, want %v", got, want)
	}

	// dateTime absent, date-only present
	got = NormalizeTime("", "2025-12-09", now)
	want = time.Date(2025, 12, 9, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("date parse = %v, want %v", got, want)
	}

	// Unparseable dateTime falls through to date
	got = NormalizeTime("not-a-date", "2025-12-09", now)
	if !got.Equal(want) {
		t.Errorf("fallthrough parse = %v, want %v", got, want)
	}

	// Nothing parseable falls back to now
	got = NormalizeTime("garbage", "also garbage", now)
	if !got.Equal(now) {
		t.Errorf("fallback = %v, want now (%v)", got, now)
	}

	got = NormalizeTime("", "", now)
	if !got.Equal(now) {
		t.Errorf("empty = %v, want now (%v)", got, now)
	}
}
