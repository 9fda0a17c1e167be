package pipeline

import (
	"testing"
	"time"

	"github.com/budgetwise/bwise/internal/model"
)

func tx(id int64, amount float64, catID int, desc string, when time.Time) model.Transaction {
	kind := model.KindDeposit
	if amount < 0 {
		kind = model.KindExpense
	}
	return model.Transaction{
		ID:          model.SyncedID(id),
		Kind:        kind,
		Amount:      amount,
		Description: desc,
		CategoryID:  catID,
		Time:        when,
	}
}

var base = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func TestMerge_NewestFirst(t *testing.T) {
	expenses := []model.Transaction{
		tx(1, -10, 1, "old", base.AddDate(0, 0, -5)),
		tx(2, -20, 1, "new", base),
	}
	deposits := []model.Transaction{
		tx(3, 100, 0, "middle", base.AddDate(0, 0, -2)),
	}

	got := Merge(expenses, deposits)
	if len(got) != 3 {
		t.Fatalf("got %d transactions", len(got))
	}
	want := []string{"new", "middle", "old"}
	for i, w := range want {
		if got[i].Description != w {
			t.Errorf("position %d = %q, want %q", i, got[i].Description, w)
		}
	}
}

func TestCategoryBreakdown(t *testing.T) {
	txs := []model.Transaction{
		tx(1, -100, 1, "food a", base),
		tx(2, -50, 1, "food b", base),
		tx(3, -50, 7, "bus", base),
		tx(4, 500, 0, "salary", base), // deposits excluded
	}

	stats := CategoryBreakdown(txs)
	if len(stats) != 2 {
		t.Fatalf("got %d categories, want 2", len(stats))
	}
	if stats[0].CategoryID != 1 || stats[0].Total != 150 || stats[0].Count != 2 {
		t.Errorf("stats[0] = %+v", stats[0])
	}
	if stats[0].Name != "Food" {
		t.Errorf("Name = %q", stats[0].Name)
	}
	if stats[0].Percent != 75 || stats[1].Percent != 25 {
		t.Errorf("percents = %v, %v", stats[0].Percent, stats[1].Percent)
	}
}

func TestCategoryBreakdown_UnknownCategory(t *testing.T) {
	stats := CategoryBreakdown([]model.Transaction{tx(1, -10, 99, "mystery", base)})
	if len(stats) != 1 {
		t.Fatal("unknown category dropped")
	}
	if stats[0].Name != "Other" {
		t.Errorf("Name = %q, want Other", stats[0].Name)
	}
}

func TestCategoryBreakdown_CapsTopCategories(t *testing.T) {
	var txs []model.Transaction
	for i := 1; i <= 12; i++ {
		txs = append(txs, tx(int64(i), -float64(i), i, "x", base))
	}
	stats := CategoryBreakdown(txs)
	if len(stats) != topCategories {
		t.Errorf("got %d categories, want %d", len(stats), topCategories)
	}
	// the biggest spenders survive the cap
	if stats[0].Total != 12 {
		t.Errorf("top category total = %v", stats[0].Total)
	}
}

func TestMonthlyTrend(t *testing.T) {
	txs := []model.Transaction{
		tx(1, -100, 1, "rent", base),
		tx(2, 900, 0, "salary", base),
		tx(3, -40, 1, "food", base.AddDate(0, -2, 0)),
		tx(4, -5, 1, "ancient", base.AddDate(0, -12, 0)), // outside window
	}

	months := MonthlyTrend(txs, base, 6)
	if len(months) != 6 {
		t.Fatalf("got %d months, want 6", len(months))
	}

	last := months[5]
	if last.Month.Month() != time.June || last.Income != 900 || last.Expense != 100 {
		t.Errorf("current month = %+v", last)
	}
	apr := months[3]
	if apr.Expense != 40 {
		t.Errorf("april expense = %v, want 40", apr.Expense)
	}
	// gap months are present with zeros
	if months[4].Income != 0 || months[4].Expense != 0 {
		t.Errorf("may should be empty: %+v", months[4])
	}
}

func TestFilter(t *testing.T) {
	txs := []model.Transaction{
		tx(1, -30, 1, "Lunch at cafe", base),
		tx(2, 500, 0, "Salary", base.AddDate(0, 0, -1)),
		tx(3, -12, 7, "Bus ticket", base.AddDate(0, 0, -10)),
	}

	got := Filter{Kind: model.KindExpense}.Apply(txs)
	if len(got) != 2 {
		t.Errorf("kind filter: got %d, want 2", len(got))
	}

	got = Filter{Search: "salary"}.Apply(txs)
	if len(got) != 1 || got[0].Description != "Salary" {
		t.Errorf("search filter: %+v", got)
	}

	// search also matches the category name
	got = Filter{Search: "transport"}.Apply(txs)
	if len(got) != 1 || got[0].CategoryID != 7 {
		t.Errorf("category search: %+v", got)
	}

	got = Filter{Since: base.AddDate(0, 0, -2)}.Apply(txs)
	if len(got) != 2 {
		t.Errorf("since filter: got %d, want 2", len(got))
	}
}

func TestDemoData(t *testing.T) {
	b := DemoBalance()
	if b.Net() != 484.0 {
		t.Errorf("demo net = %v, want 484", b.Net())
	}

	txs := DemoTransactions(base)
	if len(txs) != 5 {
		t.Fatalf("got %d demo transactions", len(txs))
	}
	for i := 1; i < len(txs); i++ {
		if txs[i].Time.After(txs[i-1].Time) {
			t.Errorf("demo list not newest-first at %d", i)
		}
	}
	if txs[0].Time.After(base) {
		t.Error("demo dates must not be in the future")
	}
}
