// Package pipeline computes the dashboard and analytics views from
// transaction lists.
package pipeline

import (
	"sort"
	"strings"
	"time"

	"github.com/budgetwise/bwise/internal/category"
	"github.com/budgetwise/bwise/internal/model"
)

// topCategories caps the breakdown so the chart stays readable.
const topCategories = 8

// CategoryStat is spend aggregated over one category.
type CategoryStat struct {
	CategoryID int
	Name       string
	Icon       string
	Total      float64 // positive spend amount
	Count      int
	Percent    float64 // share of total expense, 0-100
}

// MonthStat is income and expense aggregated over one calendar month.
type MonthStat struct {
	Month   time.Time // first of the month, local
	Income  float64
	Expense float64
}

// Merge combines expense and deposit lists into one view, newest first.
func Merge(lists ...[]model.Transaction) []model.Transaction {
	var out []model.Transaction
	for _, l := range lists {
		out = append(out, l...)
	}
	SortByTime(out)
	return out
}

// SortByTime orders transactions newest first, in place.
func SortByTime(txs []model.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Time.After(txs[j].Time)
	})
}

// CategoryBreakdown aggregates expenses per category, largest spend first,
// capped to the top categories. Percent is each category's share of total
// expense.
func CategoryBreakdown(txs []model.Transaction) []CategoryStat {
	byCat := make(map[int]*CategoryStat)
	var totalExpense float64

	for _, t := range txs {
		if t.Amount >= 0 {
			continue
		}
		spend := -t.Amount
		totalExpense += spend

		cs, ok := byCat[t.CategoryID]
		if !ok {
			cs = &CategoryStat{
				CategoryID: t.CategoryID,
				Name:       category.Name(t.CategoryID),
				Icon:       category.Icon(t.CategoryID),
			}
			byCat[t.CategoryID] = cs
		}
		cs.Total += spend
		cs.Count++
	}

	stats := make([]CategoryStat, 0, len(byCat))
	for _, cs := range byCat {
		if totalExpense > 0 {
			cs.Percent = cs.Total / totalExpense * 100
		}
		stats = append(stats, *cs)
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Total > stats[j].Total
	})

	if len(stats) > topCategories {
		stats = stats[:topCategories]
	}
	return stats
}

// MonthlyTrend aggregates income and expense per calendar month for the
// last `months` months ending at now. Months without activity appear as
// zeros so the chart shows gaps.
func MonthlyTrend(txs []model.Transaction, now time.Time, months int) []MonthStat {
	if months < 1 {
		months = 6
	}

	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	start := first.AddDate(0, -(months - 1), 0)

	byMonth := make(map[string]*MonthStat, months)
	order := make([]string, 0, months)
	for m := start; !m.After(first); m = m.AddDate(0, 1, 0) {
		key := m.Format("2006-01")
		byMonth[key] = &MonthStat{Month: m}
		order = append(order, key)
	}

	for _, t := range txs {
		if t.Time.IsZero() {
			continue
		}
		ms, ok := byMonth[t.Time.Local().Format("2006-01")]
		if !ok {
			continue
		}
		if t.Amount >= 0 {
			ms.Income += t.Amount
		} else {
			ms.Expense += -t.Amount
		}
	}

	out := make([]MonthStat, 0, len(order))
	for _, key := range order {
		out = append(out, *byMonth[key])
	}
	return out
}

// Filter narrows a transaction list.
type Filter struct {
	Kind   model.Kind // empty means both
	Search string     // matches title, description, and category name
	Since  time.Time
	Until  time.Time
}

// Apply returns the transactions matching the filter, preserving order.
func (f Filter) Apply(txs []model.Transaction) []model.Transaction {
	needle := strings.ToLower(strings.TrimSpace(f.Search))

	var out []model.Transaction
	for _, t := range txs {
		if f.Kind != "" && t.Kind != f.Kind {
			continue
		}
		if !f.Since.IsZero() && t.Time.Before(f.Since) {
			continue
		}
		if !f.Until.IsZero() && !t.Time.Before(f.Until) {
			continue
		}
		if needle != "" && !matches(t, needle) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matches(t model.Transaction, needle string) bool {
	if strings.Contains(strings.ToLower(t.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(t.Description), needle) {
		return true
	}
	return strings.Contains(strings.ToLower(category.Name(t.CategoryID)), needle)
}
