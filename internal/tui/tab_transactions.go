package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/budgetwise/bwise/internal/category"
	"github.com/budgetwise/bwise/internal/cli"
	"github.com/budgetwise/bwise/internal/model"
	"github.com/budgetwise/bwise/internal/pipeline"
	"github.com/budgetwise/bwise/internal/tui/components"
	"github.com/budgetwise/bwise/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// transactionsState holds the transactions tab state.
type transactionsState struct {
	cursor      int
	offset      int // scroll offset for the list
	searching   bool
	searchInput textinput.Model
	searchQuery string
}

func newSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "title, description, or category"
	ti.CharLimit = 64
	ti.Width = 40
	return ti
}

// updateTransactionsKeys handles list navigation. Returns handled=false for
// keys that should fall through to the global bindings.
func (a App) updateTransactionsKeys(key string) (tea.Model, tea.Cmd, bool) {
	filtered := a.searchFiltered()

	switch key {
	case "/":
		a.txState.searching = true
		a.txState.searchInput = newSearchInput()
		a.txState.searchInput.Focus()
		return a, a.txState.searchInput.Cursor.BlinkCmd(), true
	case "esc":
		if a.txState.searchQuery != "" {
			a.txState.searchQuery = ""
			a.txState.cursor = 0
			a.txState.offset = 0
		}
		return a, nil, true
	case "j", "down":
		if a.txState.cursor < len(filtered)-1 {
			a.txState.cursor++
		}
		return a, nil, true
	case "k", "up":
		if a.txState.cursor > 0 {
			a.txState.cursor--
		}
		return a, nil, true
	case "g":
		a.txState.cursor = 0
		a.txState.offset = 0
		return a, nil, true
	case "G":
		a.txState.cursor = len(filtered) - 1
		if a.txState.cursor < 0 {
			a.txState.cursor = 0
		}
		return a, nil, true
	}
	return a, nil, false
}

// updateTransactionsSearch handles key events while in search mode.
func (a App) updateTransactionsSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.txState.searchQuery = strings.TrimSpace(a.txState.searchInput.Value())
		a.txState.searching = false
		a.txState.cursor = 0
		a.txState.offset = 0
		return a, nil

	case "esc":
		a.txState.searching = false
		return a, nil
	}

	var cmd tea.Cmd
	a.txState.searchInput, cmd = a.txState.searchInput.Update(msg)
	return a, cmd
}

// searchFiltered returns transactions filtered by the current search query.
func (a App) searchFiltered() []model.Transaction {
	if a.txState.searchQuery == "" {
		return a.txs
	}
	return pipeline.Filter{Search: a.txState.searchQuery}.Apply(a.txs)
}

func (a App) renderTransactionsTab(cw, h int) string {
	t := theme.Active
	currency := a.deps.Config.General.Currency
	now := time.Now()
	filtered := a.searchFiltered()

	var b strings.Builder

	if a.txState.searching {
		searchStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
		b.WriteString(searchStyle.Render(" Search: "))
		b.WriteString(a.txState.searchInput.View())
		b.WriteString("\n")
	} else if a.txState.searchQuery != "" {
		filterStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
		b.WriteString(filterStyle.Render(" Filtered: "))
		b.WriteString(accentStyle.Render(a.txState.searchQuery))
		b.WriteString(filterStyle.Render("  (esc to clear)"))
		b.WriteString("\n")
	}

	if len(filtered) == 0 {
		b.WriteString(components.ContentCard("Transactions",
			lipgloss.NewStyle().Foreground(t.TextMuted).Render("No transactions found"), cw))
		return b.String()
	}

	inner := components.CardInnerWidth(cw)

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	incomeStyle := lipgloss.NewStyle().Foreground(t.Income)
	expenseStyle := lipgloss.NewStyle().Foreground(t.Expense)
	pendingStyle := lipgloss.NewStyle().Foreground(t.Caution)

	// Rows that fit: card border (2) + title (1) + header (1) + summary (2)
	visible := h - 6
	if visible < 5 {
		visible = 5
	}

	// Keep the cursor on screen
	offset := a.txState.offset
	if a.txState.cursor < offset {
		offset = a.txState.cursor
	}
	if a.txState.cursor >= offset+visible {
		offset = a.txState.cursor - visible + 1
	}

	amountW := 12
	dateW := 10
	catW := 14
	titleW := inner - dateW - catW - amountW - 8
	if titleW < 12 {
		titleW = 12
	}

	var list strings.Builder
	list.WriteString(headerStyle.Render(fmt.Sprintf("%-*s  %-*s  %-*s  %*s",
		dateW, "DATE", titleW, "TITLE", catW, "CATEGORY", amountW, "AMOUNT")))
	list.WriteString("\n")

	end := offset + visible
	if end > len(filtered) {
		end = len(filtered)
	}
	for i := offset; i < end; i++ {
		tx := filtered[i]

		catName := category.Name(tx.CategoryID)
		if tx.Kind == model.KindDeposit {
			catName = "Income"
		}

		amount := cli.FormatMoney(tx.Amount, currency)
		amountStyled := expenseStyle.Render(fmt.Sprintf("%*s", amountW, amount))
		if tx.Kind == model.KindDeposit {
			amountStyled = incomeStyle.Render(fmt.Sprintf("%*s", amountW, amount))
		}

		title := truncStr(tx.Title, titleW)
		if !tx.Editable() {
			title = truncStr(tx.Title, titleW-10) + " (pending)"
			amountStyled = pendingStyle.Render(fmt.Sprintf("%*s", amountW, amount))
		}

		row := fmt.Sprintf("%-*s  %-*s  %-*s  ",
			dateW, cli.FormatDate(tx.Time, now),
			titleW, title,
			catW, truncStr(catName, catW))

		if i == a.txState.cursor {
			list.WriteString(selectedStyle.Render(row) + amountStyled)
		} else {
			list.WriteString(rowStyle.Render(row) + amountStyled)
		}
		list.WriteString("\n")
	}

	balance := model.Sum(filtered)
	list.WriteString("\n")
	list.WriteString(mutedStyle.Render(fmt.Sprintf("%d transactions · net %s",
		len(filtered), cli.FormatMoney(balance.Net(), currency))))

	title := "Transactions"
	if a.txState.searchQuery != "" {
		title = fmt.Sprintf("Transactions (%d matches)", len(filtered))
	}
	b.WriteString(components.ContentCard(title, strings.TrimRight(list.String(), "\n"), cw))

	return b.String()
}
