package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/budgetwise/bwise/internal/category"
	"github.com/budgetwise/bwise/internal/cli"
	"github.com/budgetwise/bwise/internal/model"
	"github.com/budgetwise/bwise/internal/tui/components"
	"github.com/budgetwise/bwise/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

const overviewRecentCount = 5

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	currency := a.deps.Config.General.Currency
	var b strings.Builder

	if a.demo {
		warnStyle := lipgloss.NewStyle().Foreground(t.Warning).Background(t.Surface).Bold(true)
		b.WriteString(warnStyle.Render(" Unable to reach the server, showing demo data."))
		b.WriteString("\n")
	} else if a.cached {
		mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		b.WriteString(mutedStyle.Render(" Offline: showing cached transactions."))
		b.WriteString("\n")
	}

	// Row 1: Balance metric cards
	balanceTone := components.ToneIncome
	if a.balance.Net() < 0 {
		balanceTone = components.ToneExpense
	}
	cards := []components.Metric{
		{Label: "Balance", Value: cli.FormatAmount(a.balance.Net(), currency), Tone: balanceTone},
		{Label: "Income", Value: cli.FormatAmount(a.balance.Income, currency), Tone: components.ToneIncome},
		{Label: "Expenses", Value: cli.FormatAmount(a.balance.Expense, currency), Tone: components.ToneExpense},
		{Label: "Transactions", Value: fmt.Sprintf("%d", len(a.txs))},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Row 2: Monthly spending chart
	if len(a.trend) > 0 {
		vals := make([]float64, len(a.trend))
		labels := make([]string, len(a.trend))
		for i, ms := range a.trend {
			vals[i] = ms.Expense
			labels[i] = ms.Month.Format("Jan")
		}
		chartH := 8
		if a.isCompactLayout() {
			chartH = 6
		}
		b.WriteString(components.ContentCard(
			fmt.Sprintf("Monthly Spending (%dmo)", trendMonths),
			components.BarChart(vals, labels, t.Chart, components.CardInnerWidth(cw), chartH),
			cw,
		))
		b.WriteString("\n")
	}

	// Row 3: Recent transactions
	b.WriteString(components.ContentCard(
		"Recent Transactions",
		a.renderRecentList(cw),
		cw,
	))

	// Low balance warning mirrors the CLI dashboard alert.
	if !a.demo {
		if alert := a.deps.Notify.CheckBalance(a.balance.Net()); alert != nil {
			warnStyle := lipgloss.NewStyle().Foreground(t.Expense).Background(t.Surface).Bold(true)
			b.WriteString("\n")
			b.WriteString(warnStyle.Render(" ⚠ " + alert.Message))
		}
	}

	return b.String()
}

func (a App) renderRecentList(cw int) string {
	t := theme.Active
	currency := a.deps.Config.General.Currency
	inner := components.CardInnerWidth(cw)
	now := time.Now()

	if len(a.txs) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextMuted).Render("No transactions yet")
	}

	dateStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	titleStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	catStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	incomeStyle := lipgloss.NewStyle().Foreground(t.Income).Bold(true)
	expenseStyle := lipgloss.NewStyle().Foreground(t.Expense).Bold(true)

	limit := overviewRecentCount
	if limit > len(a.txs) {
		limit = len(a.txs)
	}

	var b strings.Builder
	for i := 0; i < limit; i++ {
		tx := a.txs[i]

		amount := cli.FormatMoney(tx.Amount, currency)
		amountStyled := expenseStyle.Render(amount)
		if tx.Kind == model.KindDeposit {
			amountStyled = incomeStyle.Render(amount)
		}

		catName := category.Name(tx.CategoryID)
		if tx.Kind == model.KindDeposit {
			catName = "Income"
		}

		titleW := inner - 12 - 14 - lipgloss.Width(amount)
		if titleW < 10 {
			titleW = 10
		}

		fmt.Fprintf(&b, "%s  %s %s %s\n",
			dateStyle.Render(fmt.Sprintf("%-10s", cli.FormatDate(tx.Time, now))),
			titleStyle.Render(fmt.Sprintf("%-*s", titleW, truncStr(tx.Title, titleW))),
			catStyle.Render(fmt.Sprintf("%-12s", truncStr(catName, 12))),
			amountStyled,
		)
	}

	return strings.TrimRight(b.String(), "\n")
}
