// Package notify persists alert settings and evaluates spending alerts.
package notify

import (
	"errors"
	"fmt"

	"github.com/budgetwise/bwise/internal/category"
	"github.com/budgetwise/bwise/internal/model"
	"github.com/budgetwise/bwise/internal/store"
)

const settingsKey = "settings.notifications"

// Alert is one user-facing notification.
type Alert struct {
	Title   string
	Message string
}

// Service reads and writes notification settings and checks transactions
// against them.
type Service struct {
	store *store.Store
}

// NewService wires the service to the local store.
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// Settings returns stored settings merged over the defaults. A missing or
// unreadable blob yields the defaults.
func (s *Service) Settings() model.NotificationSettings {
	settings := model.DefaultNotificationSettings()

	var patch model.NotificationPatch
	if err := s.store.GetJSON(settingsKey, &patch); err != nil {
		return settings
	}
	return patch.Apply(settings)
}

// Update merges the patch over current settings and persists the result.
// Patch fields always win over stored values.
func (s *Service) Update(patch model.NotificationPatch) (model.NotificationSettings, error) {
	merged := patch.Apply(s.Settings())
	if err := s.store.PutJSON(settingsKey, merged); err != nil {
		return merged, fmt.Errorf("saving notification settings: %w", err)
	}
	return merged, nil
}

// Reset restores the defaults.
func (s *Service) Reset() error {
	if err := s.store.Delete(settingsKey); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return nil
}

// CheckExpense returns an alert when the spend crosses the large-expense
// threshold and that alert type is enabled.
func (s *Service) CheckExpense(amount float64, categoryID int) *Alert {
	settings := s.Settings()
	if !settings.LargeExpenseAlert {
		return nil
	}
	if amount < 0 {
		amount = -amount
	}
	if amount < settings.ExpenseThreshold {
		return nil
	}
	return &Alert{
		Title: "Large Expense Alert",
		Message: fmt.Sprintf("You spent %.2f on %s. Keep track of your budget!",
			amount, category.Name(categoryID)),
	}
}

// CheckBalance returns an alert when the balance drops to or below the
// low-balance threshold and that alert type is enabled.
func (s *Service) CheckBalance(balance float64) *Alert {
	settings := s.Settings()
	if !settings.LowBalanceAlert {
		return nil
	}
	if balance > settings.BalanceThreshold {
		return nil
	}
	return &Alert{
		Title:   "Low Balance Alert",
		Message: fmt.Sprintf("Your balance is down to %.2f. Time to review your spending.", balance),
	}
}

// BudgetAlert reports budget consumption when budget alerts are enabled.
func (s *Service) BudgetAlert(budget, spent float64) *Alert {
	settings := s.Settings()
	if !settings.BudgetAlerts || budget <= 0 {
		return nil
	}
	pct := spent / budget * 100
	return &Alert{
		Title:   "Budget Alert",
		Message: fmt.Sprintf("You've spent %.1f%% of your budget (%.2f of %.2f).", pct, spent, budget),
	}
}

// WeeklySummary builds the weekly report when weekly reports are enabled.
func (s *Service) WeeklySummary(txs []model.Transaction) *Alert {
	settings := s.Settings()
	if !settings.WeeklyReports {
		return nil
	}
	b := model.Sum(txs)
	return &Alert{
		Title: "Weekly Summary",
		Message: fmt.Sprintf("This week: %.2f in, %.2f out across %d transactions.",
			b.Income, b.Expense, len(txs)),
	}
}
