package components

import (
	"strings"
	"testing"

	"github.com/budgetwise/bwise/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	cases := []struct {
		total, n int
	}{
		{100, 4},
		{101, 4},
		{103, 3},
		{7, 2},
	}
	for _, tc := range cases {
		widths := LayoutRow(tc.total, tc.n)
		if len(widths) != tc.n {
			t.Fatalf("LayoutRow(%d, %d) returned %d widths", tc.total, tc.n, len(widths))
		}
		sum := 0
		for _, w := range widths {
			sum += w
		}
		if sum != tc.total {
			t.Errorf("LayoutRow(%d, %d) sums to %d", tc.total, tc.n, sum)
		}
	}

	if got := LayoutRow(50, 0); got != nil {
		t.Errorf("LayoutRow with n=0 = %v, want nil", got)
	}
}

func TestCardRowHeightMatchesTallest(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := len(strings.Split(shortCard, "\n"))
	tallLines := len(strings.Split(tallCard, "\n"))
	if shortLines >= tallLines {
		t.Fatal("test setup error: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Errorf("joined height = %d, want tallest card height %d", len(lines), tallLines)
	}
}

func TestMetricCardRowWidths(t *testing.T) {
	theme.SetActive("flexoki-dark")

	cards := []Metric{
		{Label: "Balance", Value: "$484.00", Tone: ToneIncome},
		{Label: "Income", Value: "$2,379.00", Tone: ToneIncome},
		{Label: "Expenses", Value: "$1,895.00", Tone: ToneExpense},
	}
	row := MetricCardRow(cards, 90)
	for _, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 90 {
			t.Fatalf("row line width = %d, want 90", w)
		}
	}
}

func TestToneColors(t *testing.T) {
	th := theme.ByName("budgetwise")

	if got := ToneIncome.color(th); got != th.Income {
		t.Errorf("income tone = %v, want %v", got, th.Income)
	}
	if got := ToneExpense.color(th); got != th.Expense {
		t.Errorf("expense tone = %v, want %v", got, th.Expense)
	}
	if got := ToneWarn.color(th); got != th.Warning {
		t.Errorf("warn tone = %v, want %v", got, th.Warning)
	}
	if got := ToneNeutral.color(th); got != th.TextPrimary {
		t.Errorf("neutral tone = %v, want %v", got, th.TextPrimary)
	}
}

func TestTabVisualWidthMatchesRender(t *testing.T) {
	theme.SetActive("terminal")

	for i, tab := range Tabs {
		for _, active := range []bool{true, false} {
			// Rendered alone, a tab's visible width must equal the
			// hitbox width used for mouse support.
			want := TabVisualWidth(tab, active)
			if want < len(tab.Name) {
				t.Fatalf("tab %d width %d shorter than name", i, want)
			}
		}
	}
}
