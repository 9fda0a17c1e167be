package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/budgetwise/bwise/internal/cli"
	"github.com/budgetwise/bwise/internal/config"
	"github.com/budgetwise/bwise/internal/model"
	"github.com/budgetwise/bwise/internal/tui/components"
	"github.com/budgetwise/bwise/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldDailyReminders = iota
	settingsFieldBudgetAlerts
	settingsFieldLargeExpense
	settingsFieldExpenseThreshold
	settingsFieldLowBalance
	settingsFieldBalanceThreshold
	settingsFieldWeeklyReports
	settingsFieldTheme
	settingsFieldCurrency
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message briefly
	saveErr error // non-nil if last save failed
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 40
	return ti
}

// settingsStartEdit toggles boolean fields directly and opens a text input
// for value fields.
func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	ns := a.deps.Notify.Settings()
	a.settings.saved = false
	a.settings.saveErr = nil

	toggle := func(patch model.NotificationPatch) (tea.Model, tea.Cmd) {
		_, err := a.deps.Notify.Update(patch)
		a.settings.saveErr = err
		a.settings.saved = err == nil
		return a, nil
	}

	switch a.settings.cursor {
	case settingsFieldDailyReminders:
		v := !ns.DailyReminders
		return toggle(model.NotificationPatch{DailyReminders: &v})
	case settingsFieldBudgetAlerts:
		v := !ns.BudgetAlerts
		return toggle(model.NotificationPatch{BudgetAlerts: &v})
	case settingsFieldLargeExpense:
		v := !ns.LargeExpenseAlert
		return toggle(model.NotificationPatch{LargeExpenseAlert: &v})
	case settingsFieldLowBalance:
		v := !ns.LowBalanceAlert
		return toggle(model.NotificationPatch{LowBalanceAlert: &v})
	case settingsFieldWeeklyReports:
		v := !ns.WeeklyReports
		return toggle(model.NotificationPatch{WeeklyReports: &v})
	}

	ti := newSettingsInput()
	switch a.settings.cursor {
	case settingsFieldExpenseThreshold:
		ti.Placeholder = "500"
		ti.SetValue(strconv.FormatFloat(ns.ExpenseThreshold, 'f', -1, 64))
	case settingsFieldBalanceThreshold:
		ti.Placeholder = "100"
		ti.SetValue(strconv.FormatFloat(ns.BalanceThreshold, 'f', -1, 64))
	case settingsFieldTheme:
		ti.Placeholder = "flexoki-dark, budgetwise, catppuccin-mocha, tokyo-night, terminal"
		ti.SetValue(a.deps.Config.Appearance.Theme)
	case settingsFieldCurrency:
		ti.Placeholder = "USD"
		ti.SetValue(a.deps.Config.General.Currency)
	}
	ti.Focus()

	a.settings.editing = true
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

// updateSettingsInput handles key events while editing a settings value.
func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settings.editing = false
		return a.settingsApply(strings.TrimSpace(a.settings.input.Value()))
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

func (a App) settingsApply(value string) (tea.Model, tea.Cmd) {
	a.settings.saved = false
	a.settings.saveErr = nil

	switch a.settings.cursor {
	case settingsFieldExpenseThreshold, settingsFieldBalanceThreshold:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			a.settings.saveErr = fmt.Errorf("invalid threshold %q", value)
			return a, nil
		}
		var patch model.NotificationPatch
		if a.settings.cursor == settingsFieldExpenseThreshold {
			patch.ExpenseThreshold = &f
		} else {
			patch.BalanceThreshold = &f
		}
		_, err = a.deps.Notify.Update(patch)
		a.settings.saveErr = err
		a.settings.saved = err == nil
		return a, nil

	case settingsFieldTheme:
		a.deps.Config.Appearance.Theme = value
		theme.SetActive(value)
		err := config.Save(a.deps.Config)
		a.settings.saveErr = err
		a.settings.saved = err == nil
		return a, nil

	case settingsFieldCurrency:
		if len(value) != 3 {
			a.settings.saveErr = fmt.Errorf("currency must be a 3-letter code")
			return a, nil
		}
		a.deps.Config.General.Currency = strings.ToUpper(value)
		err := config.Save(a.deps.Config)
		a.settings.saveErr = err
		a.settings.saved = err == nil
		return a, nil
	}

	return a, nil
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	ns := a.deps.Notify.Settings()
	currency := a.deps.Config.General.Currency

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	selectedStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	onStyle := lipgloss.NewStyle().Foreground(t.Income)
	offStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	onOff := func(v bool) string {
		if v {
			return onStyle.Render("on")
		}
		return offStyle.Render("off")
	}

	fields := []struct {
		label string
		value string
	}{
		{"Daily reminders", onOff(ns.DailyReminders)},
		{"Budget alerts", onOff(ns.BudgetAlerts)},
		{"Large expense alerts", onOff(ns.LargeExpenseAlert)},
		{"Expense threshold", valueStyle.Render(cli.FormatAmount(ns.ExpenseThreshold, currency))},
		{"Low balance alerts", onOff(ns.LowBalanceAlert)},
		{"Balance threshold", valueStyle.Render(cli.FormatAmount(ns.BalanceThreshold, currency))},
		{"Weekly reports", onOff(ns.WeeklyReports)},
		{"Theme", valueStyle.Render(a.deps.Config.Appearance.Theme)},
		{"Currency", valueStyle.Render(currency)},
	}

	var body strings.Builder
	for i, f := range fields {
		marker := "  "
		label := labelStyle.Render(fmt.Sprintf("%-22s", f.label))
		if i == a.settings.cursor {
			marker = selectedStyle.Render("› ")
			label = selectedStyle.Render(fmt.Sprintf("%-22s", f.label))
		}

		if i == a.settings.cursor && a.settings.editing {
			body.WriteString(marker + label + a.settings.input.View())
		} else {
			body.WriteString(marker + label + f.value)
		}
		body.WriteString("\n")
	}

	body.WriteString("\n")
	switch {
	case a.settings.editing:
		body.WriteString(mutedStyle.Render("[enter] save  [esc] cancel"))
	case a.settings.saveErr != nil:
		errStyle := lipgloss.NewStyle().Foreground(t.Expense)
		body.WriteString(errStyle.Render(a.settings.saveErr.Error()))
	case a.settings.saved:
		body.WriteString(onStyle.Render("Saved"))
	default:
		body.WriteString(mutedStyle.Render("[enter] toggle or edit  [j/k] move"))
	}

	return components.ContentCard("Settings", strings.TrimRight(body.String(), "\n"), cw)
}
