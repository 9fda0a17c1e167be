// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// currencySymbols maps ISO codes to display symbols. Unknown codes render
// as the code itself.
var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"INR": "₹",
	"JPY": "¥",
}

// CurrencySymbol resolves a display symbol for an ISO currency code.
func CurrencySymbol(code string) string {
	if sym, ok := currencySymbols[strings.ToUpper(code)]; ok {
		return sym
	}
	if code == "" {
		return "$"
	}
	return code + " "
}

// FormatMoney renders an amount following the display sign convention:
// expenses carry an explicit minus, deposits a plus.
// e.g., -25.5, "USD" -> "-$25.50"; 60, "USD" -> "+$60.00"
func FormatMoney(amount float64, currency string) string {
	sym := CurrencySymbol(currency)
	if amount < 0 {
		return fmt.Sprintf("-%s%.2f", sym, -amount)
	}
	return fmt.Sprintf("+%s%.2f", sym, amount)
}

// FormatAmount renders an unsigned amount, comma-grouped above 1000.
// e.g., 2379, "USD" -> "$2,379.00"
func FormatAmount(amount float64, currency string) string {
	sym := CurrencySymbol(currency)
	if amount < 0 {
		amount = -amount
	}
	whole := int64(math.Floor(amount))
	cents := int(math.Round((amount - float64(whole)) * 100))
	if cents == 100 {
		whole++
		cents = 0
	}
	return fmt.Sprintf("%s%s.%02d", sym, FormatNumber(whole), cents)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-100 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f)
}

// FormatDate renders a transaction timestamp the way the dashboard lists
// them: "Today", "Yesterday", then "11 Dec", with the year added once it
// differs from the current one.
func FormatDate(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	t = t.In(now.Location())
	day := func(x time.Time) string { return x.Format("2006-01-02") }

	switch day(t) {
	case day(now):
		return "Today"
	case day(now.AddDate(0, 0, -1)):
		return "Yesterday"
	}
	if t.Year() != now.Year() {
		return t.Format("2 Jan 2006")
	}
	return t.Format("2 Jan")
}
