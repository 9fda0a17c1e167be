package tui

import (
	"fmt"
	"strings"

	"github.com/budgetwise/bwise/internal/cli"
	"github.com/budgetwise/bwise/internal/tui/components"
	"github.com/budgetwise/bwise/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderAnalyticsTab(cw int) string {
	t := theme.Active
	currency := a.deps.Config.General.Currency
	var b strings.Builder

	// Row 1: category breakdown with spend bars
	if len(a.breakdown) == 0 {
		b.WriteString(components.ContentCard("Spending by Category",
			lipgloss.NewStyle().Foreground(t.TextMuted).Render("No expenses in this period"), cw))
		b.WriteString("\n")
	} else {
		inner := components.CardInnerWidth(cw)

		labelW := 0
		for _, cs := range a.breakdown {
			if len(cs.Name) > labelW {
				labelW = len(cs.Name)
			}
		}
		if labelW > 18 {
			labelW = 18
		}

		barW := inner - labelW - 24
		if barW < 10 {
			barW = 10
		}
		if barW > 40 {
			barW = 40
		}

		var body strings.Builder
		for _, cs := range a.breakdown {
			amount := fmt.Sprintf("%s (%d)", cli.FormatAmount(cs.Total, currency), cs.Count)
			body.WriteString(components.SpendBar(
				truncStr(cs.Name, labelW), cs.Percent/100, amount, labelW, barW))
			body.WriteString("\n")
		}

		b.WriteString(components.ContentCard("Spending by Category",
			strings.TrimRight(body.String(), "\n"), cw))
		b.WriteString("\n")
	}

	// Row 2: income vs expense trend, side by side when there's room
	if len(a.trend) > 0 {
		vals := func(pick func(i int) float64) []float64 {
			out := make([]float64, len(a.trend))
			for i := range a.trend {
				out[i] = pick(i)
			}
			return out
		}
		labels := make([]string, len(a.trend))
		for i, ms := range a.trend {
			labels[i] = ms.Month.Format("Jan")
		}

		expenseVals := vals(func(i int) float64 { return a.trend[i].Expense })
		incomeVals := vals(func(i int) float64 { return a.trend[i].Income })

		chartH := 8
		if a.isCompactLayout() {
			chartH = 6
			b.WriteString(components.ContentCard("Expenses by Month",
				components.BarChart(expenseVals, labels, t.Expense, components.CardInnerWidth(cw), chartH), cw))
			b.WriteString("\n")
			b.WriteString(components.ContentCard("Income by Month",
				components.BarChart(incomeVals, labels, t.Income, components.CardInnerWidth(cw), chartH), cw))
		} else {
			halves := components.LayoutRow(cw, 2)
			left := components.ContentCard("Expenses by Month",
				components.BarChart(expenseVals, labels, t.Expense, components.CardInnerWidth(halves[0]), chartH), halves[0])
			right := components.ContentCard("Income by Month",
				components.BarChart(incomeVals, labels, t.Income, components.CardInnerWidth(halves[1]), chartH), halves[1])
			b.WriteString(components.CardRow([]string{left, right}))
		}
		b.WriteString("\n")
	}

	// Row 3: net sparkline across the window
	if len(a.trend) > 1 {
		nets := make([]float64, len(a.trend))
		minNet := 0.0
		for i, ms := range a.trend {
			nets[i] = ms.Income - ms.Expense
			if nets[i] < minNet {
				minNet = nets[i]
			}
		}
		// Sparkline needs non-negative values; shift by the floor.
		shifted := make([]float64, len(nets))
		for i, v := range nets {
			shifted[i] = v - minNet
		}

		mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		body := components.Sparkline(shifted, t.Accent) +
			mutedStyle.Render(fmt.Sprintf("  net %s this month", cli.FormatMoney(nets[len(nets)-1], currency)))
		b.WriteString(components.ContentCard("Net Flow", body, cw))
	}

	return b.String()
}
