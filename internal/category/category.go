// Package category maps backend expense category ids to display names and
// icons, and normalizes the heterogeneous date fields the API returns.
package category

import "time"

// Category is one expense category as served by the backend.
type Category struct {
	ID   int
	Name string
	Icon string
}

// FallbackName is returned for category ids the client does not know.
const FallbackName = "Other"

// FallbackIcon is the icon identifier used when no mapping exists.
const FallbackIcon = "help-circle"

// names mirrors the backend's category table. Unknown ids resolve to
// FallbackName rather than failing; this is a display-only concern.
var names = map[int]string{
	1:  "Food",
	2:  "Hospital",
	3:  "Investment",
	4:  "Rent",
	5:  "Bill",
	6:  "Education",
	7:  "Transport",
	8:  "Entertainment",
	9:  "Utilities",
	10: "Grocery",
	11: "Travel",
	12: "Insurance",
	13: "Shopping",
	14: "Loan",
	15: "Miscellaneous",
	16: "Credit Card",
}

var icons = map[int]string{
	1:  "restaurant",
	2:  "medkit",
	3:  "trending-up",
	4:  "home",
	5:  "receipt",
	6:  "school",
	7:  "bus",
	8:  "film",
	9:  "flash",
	10: "cart",
	11: "airplane",
	12: "shield-checkmark",
	13: "bag",
	14: "cash",
	15: "ellipsis-horizontal",
	16: "card",
}

// Name resolves a category id to its display name.
func Name(id int) string {
	if n, ok := names[id]; ok {
		return n
	}
	return FallbackName
}

// Icon resolves a category id to an icon identifier.
func Icon(id int) string {
	if ic, ok := icons[id]; ok {
		return ic
	}
	return FallbackIcon
}

// Fallback returns the built-in category list, used when the categories
// endpoint is unreachable so the add-expense flow still works.
func Fallback() []Category {
	out := make([]Category, 0, len(names))
	for id := 1; id <= len(names); id++ {
		out = append(out, Category{ID: id, Name: names[id], Icon: icons[id]})
	}
	return out
}

// NormalizeTime picks the best timestamp out of the API's dateTime/date
// field pair. Both RFC 3339 and date-only forms are accepted; anything
// unparseable falls back to now, favoring availability over correctness.
func NormalizeTime(dateTime, date string, now time.Time) time.Time {
	for _, s := range []string{dateTime, date} {
		if s == "" {
			continue
		}
		if t, err := parseAny(s); err == nil {
			return t
		}
	}
	return now
}

var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseAny(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
