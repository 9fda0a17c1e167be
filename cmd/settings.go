package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/budgetwise/bwise/internal/cli"
	"github.com/budgetwise/bwise/internal/model"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show notification and app settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a notification setting",
	Long: `Keys:
  daily-reminders, budget-alerts, large-expense-alerts,
  low-balance-alerts, weekly-reports    (true/false)
  expense-threshold, balance-threshold  (number)`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default notification settings",
	RunE:  runSettingsReset,
}

func init() {
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func runSettingsShow(_ *cobra.Command, _ []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	s := e.notify.Settings()
	currency := e.cfg.General.Currency

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Notifications",
		Headers: []string{"Setting", "Value"},
		Rows: [][]string{
			{"daily-reminders", onOff(s.DailyReminders)},
			{"budget-alerts", onOff(s.BudgetAlerts)},
			{"large-expense-alerts", onOff(s.LargeExpenseAlert)},
			{"low-balance-alerts", onOff(s.LowBalanceAlert)},
			{"weekly-reports", onOff(s.WeeklyReports)},
			{"---"},
			{"expense-threshold", cli.FormatAmount(s.ExpenseThreshold, currency)},
			{"balance-threshold", cli.FormatAmount(s.BalanceThreshold, currency)},
		},
	}))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "App",
		Headers: []string{"Setting", "Value"},
		Rows: [][]string{
			{"currency", currency},
			{"theme", e.cfg.Appearance.Theme},
			{"default window", fmt.Sprintf("%dd", e.windowDays())},
		},
	}))
	fmt.Println()
	fmt.Println("  Change with `bwise settings set <key> <value>` or `bwise setup`.")
	return nil
}

func runSettingsSet(_ *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	key, value := args[0], args[1]

	var patch model.NotificationPatch
	switch key {
	case "daily-reminders", "budget-alerts", "large-expense-alerts", "low-balance-alerts", "weekly-reports":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s wants true or false", key)
		}
		switch key {
		case "daily-reminders":
			patch.DailyReminders = &b
		case "budget-alerts":
			patch.BudgetAlerts = &b
		case "large-expense-alerts":
			patch.LargeExpenseAlert = &b
		case "low-balance-alerts":
			patch.LowBalanceAlert = &b
		case "weekly-reports":
			patch.WeeklyReports = &b
		}
	case "expense-threshold", "balance-threshold":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%s wants a non-negative number", key)
		}
		if key == "expense-threshold" {
			patch.ExpenseThreshold = &f
		} else {
			patch.BalanceThreshold = &f
		}
	default:
		return fmt.Errorf("unknown setting %q (see `bwise settings set --help`)", key)
	}

	if _, err := e.notify.Update(patch); err != nil {
		return err
	}
	fmt.Printf("  %s = %s\n", key, value)
	return nil
}

func runSettingsReset(_ *cobra.Command, _ []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.notify.Reset(); err != nil {
		return err
	}
	fmt.Println("  Notification settings restored to defaults.")
	return nil
}
