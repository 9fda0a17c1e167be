package notify

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/budgetwise/bwise/internal/model"
	"github.com/budgetwise/bwise/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "bwise.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return NewService(st)
}

func boolPtr(b bool) *bool      { return &b }
func f64Ptr(f float64) *float64 { return &f }

func TestSettings_Defaults(t *testing.T) {
	s := newTestService(t)

	got := s.Settings()
	want := model.DefaultNotificationSettings()
	if got != want {
		t.Errorf("Settings = %+v, want defaults %+v", got, want)
	}
}

func TestUpdate_PartialWins(t *testing.T) {
	s := newTestService(t)

	merged, err := s.Update(model.NotificationPatch{ExpenseThreshold: f64Ptr(750)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if merged.ExpenseThreshold != 750 {
		t.Errorf("ExpenseThreshold = %v", merged.ExpenseThreshold)
	}
	if !merged.DailyReminders {
		t.Error("untouched default lost in merge")
	}

	// a second partial layers over the first
	merged, err = s.Update(model.NotificationPatch{WeeklyReports: boolPtr(false)})
	if err != nil {
		t.Fatal(err)
	}
	if merged.ExpenseThreshold != 750 {
		t.Error("prior override lost by later patch")
	}
	if merged.WeeklyReports {
		t.Error("patch field did not win")
	}

	// persisted across reads
	if got := s.Settings(); got != merged {
		t.Errorf("Settings = %+v, want %+v", got, merged)
	}
}

func TestReset(t *testing.T) {
	s := newTestService(t)

	if _, err := s.Update(model.NotificationPatch{LowBalanceAlert: boolPtr(false)}); err != nil {
		t.Fatal(err)
	}
	if err := s.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if got := s.Settings(); got != model.DefaultNotificationSettings() {
		t.Errorf("Settings after reset = %+v", got)
	}
}

func TestCheckExpense(t *testing.T) {
	s := newTestService(t)

	if a := s.CheckExpense(499, 1); a != nil {
		t.Errorf("alert below threshold: %+v", a)
	}
	a := s.CheckExpense(500, 1)
	if a == nil {
		t.Fatal("no alert at threshold")
	}
	if !strings.Contains(a.Message, "Food") {
		t.Errorf("category name missing: %q", a.Message)
	}

	// signed expense amounts are handled
	if a := s.CheckExpense(-800, 7); a == nil {
		t.Error("negative amount not normalized")
	}

	// disabled toggle silences the alert
	if _, err := s.Update(model.NotificationPatch{LargeExpenseAlert: boolPtr(false)}); err != nil {
		t.Fatal(err)
	}
	if a := s.CheckExpense(10000, 1); a != nil {
		t.Errorf("alert fired while disabled: %+v", a)
	}
}

func TestCheckBalance(t *testing.T) {
	s := newTestService(t)

	if a := s.CheckBalance(101); a != nil {
		t.Errorf("alert above threshold: %+v", a)
	}
	if a := s.CheckBalance(100); a == nil {
		t.Error("no alert at threshold")
	}
	if a := s.CheckBalance(-5); a == nil {
		t.Error("no alert for negative balance")
	}
}

func TestBudgetAlert(t *testing.T) {
	s := newTestService(t)

	a := s.BudgetAlert(1000, 800)
	if a == nil {
		t.Fatal("no budget alert")
	}
	if !strings.Contains(a.Message, "80.0%") {
		t.Errorf("message = %q", a.Message)
	}
	if a := s.BudgetAlert(0, 800); a != nil {
		t.Error("alert for zero budget")
	}
}

func TestWeeklySummary(t *testing.T) {
	s := newTestService(t)

	txs := []model.Transaction{
		{ID: model.SyncedID(1), Kind: model.KindDeposit, Amount: 300},
		{ID: model.SyncedID(2), Kind: model.KindExpense, Amount: -120},
	}
	a := s.WeeklySummary(txs)
	if a == nil {
		t.Fatal("no weekly summary")
	}
	if !strings.Contains(a.Message, "300.00") || !strings.Contains(a.Message, "120.00") {
		t.Errorf("message = %q", a.Message)
	}

	if _, err := s.Update(model.NotificationPatch{WeeklyReports: boolPtr(false)}); err != nil {
		t.Fatal(err)
	}
	if a := s.WeeklySummary(txs); a != nil {
		t.Error("summary produced while disabled")
	}
}
