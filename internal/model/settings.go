package model

// NotificationSettings controls local alerting behavior. Thresholds are in
// the user's display currency.
type NotificationSettings struct {
	DailyReminders    bool    `json:"daily_reminders"`
	BudgetAlerts      bool    `json:"budget_alerts"`
	LargeExpenseAlert bool    `json:"large_expense_alerts"`
	LowBalanceAlert   bool    `json:"low_balance_alerts"`
	WeeklyReports     bool    `json:"weekly_reports"`
	ExpenseThreshold  float64 `json:"expense_threshold"`
	BalanceThreshold  float64 `json:"balance_threshold"`
}

// DefaultNotificationSettings returns the out-of-the-box alert settings.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		DailyReminders:    true,
		BudgetAlerts:      true,
		LargeExpenseAlert: true,
		LowBalanceAlert:   true,
		WeeklyReports:     true,
		ExpenseThreshold:  500,
		BalanceThreshold:  100,
	}
}

// NotificationPatch is a partial settings update; nil fields are left as-is.
type NotificationPatch struct {
	DailyReminders    *bool    `json:"daily_reminders,omitempty"`
	BudgetAlerts      *bool    `json:"budget_alerts,omitempty"`
	LargeExpenseAlert *bool    `json:"large_expense_alerts,omitempty"`
	LowBalanceAlert   *bool    `json:"low_balance_alerts,omitempty"`
	WeeklyReports     *bool    `json:"weekly_reports,omitempty"`
	ExpenseThreshold  *float64 `json:"expense_threshold,omitempty"`
	BalanceThreshold  *float64 `json:"balance_threshold,omitempty"`
}

// Apply merges the patch over s; patch fields always win.
func (p NotificationPatch) Apply(s NotificationSettings) NotificationSettings {
	if p.DailyReminders != nil {
		s.DailyReminders = *p.DailyReminders
	}
	if p.BudgetAlerts != nil {
		s.BudgetAlerts = *p.BudgetAlerts
	}
	if p.LargeExpenseAlert != nil {
		s.LargeExpenseAlert = *p.LargeExpenseAlert
	}
	if p.LowBalanceAlert != nil {
		s.LowBalanceAlert = *p.LowBalanceAlert
	}
	if p.WeeklyReports != nil {
		s.WeeklyReports = *p.WeeklyReports
	}
	if p.ExpenseThreshold != nil {
		s.ExpenseThreshold = *p.ExpenseThreshold
	}
	if p.BalanceThreshold != nil {
		s.BalanceThreshold = *p.BalanceThreshold
	}
	return s
}

// AppSettings holds general client preferences.
type AppSettings struct {
	Notifications bool   `json:"notifications"`
	Biometric     bool   `json:"biometric"`
	AutoBackup    bool   `json:"auto_backup"`
	DarkMode      bool   `json:"dark_mode"`
	Currency      string `json:"currency"`
}

// DefaultAppSettings returns the default client preferences.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Notifications: true,
		Currency:      "USD",
	}
}
