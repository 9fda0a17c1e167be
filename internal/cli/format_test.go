package cli

import (
	"testing"
	"time"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount   float64
		currency string
		want     string
	}{
		{-25.5, "USD", "-$25.50"},
		{60, "USD", "+$60.00"},
		{0, "USD", "+$0.00"},
		{-12, "INR", "-₹12.00"},
		{5, "XYZ", "+XYZ 5.00"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.amount, tt.currency); got != tt.want {
			t.Errorf("FormatMoney(%v, %q) = %q, want %q", tt.amount, tt.currency, got, tt.want)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{2379, "$2,379.00"},
		{484, "$484.00"},
		{1895.5, "$1,895.50"},
		{-50, "$50.00"}, // unsigned rendering
	}
	for _, tt := range tests {
		if got := FormatAmount(tt.amount, "USD"); got != tt.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4500, "-4,500"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.n); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	now := time.Date(2025, 12, 11, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		t    time.Time
		want string
	}{
		{now.Add(-2 * time.Hour), "Today"},
		{now.AddDate(0, 0, -1), "Yesterday"},
		{time.Date(2025, 12, 9, 9, 0, 0, 0, time.UTC), "9 Dec"},
		{time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC), "10 Jun 2024"},
		{time.Time{}, "-"},
	}
	for _, tt := range tests {
		if got := FormatDate(tt.t, now); got != tt.want {
			t.Errorf("FormatDate(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}
}

func TestDefaultAvatarColor(t *testing.T) {
	a := DefaultAvatarColor("alice@example.com")
	if a != DefaultAvatarColor("alice@example.com") {
		t.Fatal("default color should be stable for the same email")
	}
	if _, ok := AvatarColors[a]; !ok {
		t.Fatalf("default color %q not in palette", a)
	}
}
