package tui

import (
	"fmt"
	"strings"

	"github.com/budgetwise/bwise/internal/tui/components"
	"github.com/budgetwise/bwise/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// groupsState holds the groups tab state.
type groupsState struct {
	cursor    int
	switching bool
	switchErr error
}

// updateGroupsKeys handles group list navigation and context switching.
// Returns handled=false for keys that should fall through.
func (a App) updateGroupsKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		if a.groupState.cursor < len(a.groups)-1 {
			a.groupState.cursor++
		}
		return a, nil, true
	case "k", "up":
		if a.groupState.cursor > 0 {
			a.groupState.cursor--
		}
		return a, nil, true
	case "enter":
		if a.groupState.switching || a.groupState.cursor >= len(a.groups) {
			return a, nil, true
		}
		target := a.groups[a.groupState.cursor]
		if a.deps.Session.Current().GroupID == target.ID {
			return a, nil, true
		}
		a.groupState.switching = true
		a.groupState.switchErr = nil
		return a, switchToGroupCmd(a.deps, target.ID), true
	case "p":
		if a.groupState.switching {
			return a, nil, true
		}
		if !a.deps.Session.Current().GroupActive() {
			return a, nil, true
		}
		a.groupState.switching = true
		a.groupState.switchErr = nil
		return a, switchToPersonalCmd(a.deps), true
	}
	return a, nil, false
}

// switchToGroupCmd exchanges the personal token for a group token. The
// resulting bus event triggers the data refresh; this command only
// reports the switch outcome.
func switchToGroupCmd(deps Deps, groupID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestCtx(deps.Config)
		defer cancel()
		return SwitchDoneMsg{Err: deps.Session.SwitchToGroup(ctx, groupID)}
	}
}

func switchToPersonalCmd(deps Deps) tea.Cmd {
	return func() tea.Msg {
		return SwitchDoneMsg{Err: deps.Session.SwitchToPersonal()}
	}
}

func (a App) renderGroupsTab(cw int) string {
	t := theme.Active
	var b strings.Builder

	cur := a.deps.Session.Current()

	if cur.PersonalToken == "" {
		b.WriteString(components.ContentCard("Groups",
			lipgloss.NewStyle().Foreground(t.TextMuted).Render("Log in to manage groups: bwise login"), cw))
		return b.String()
	}

	if len(a.groups) == 0 {
		b.WriteString(components.ContentCard("Groups",
			lipgloss.NewStyle().Foreground(t.TextMuted).Render(
				"No groups yet. Create one with: bwise groups create <name>"), cw))
		return b.String()
	}

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	activeStyle := lipgloss.NewStyle().Foreground(t.Income).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	inner := components.CardInnerWidth(cw)
	nameW := inner - 10 - 12 - 10
	if nameW < 14 {
		nameW = 14
	}

	var list strings.Builder
	list.WriteString(headerStyle.Render(fmt.Sprintf("  %-*s  %-10s  %s", nameW, "NAME", "CODE", "MEMBERS")))
	list.WriteString("\n")

	for i, g := range a.groups {
		marker := "  "
		if g.ID == cur.GroupID {
			marker = activeStyle.Render("● ")
		}

		members := "-"
		if g.MemberCount > 0 {
			members = fmt.Sprintf("%d", g.MemberCount)
		}

		row := fmt.Sprintf("%-*s  %-10s  %s", nameW, truncStr(g.Name, nameW), g.Code, members)
		if i == a.groupState.cursor {
			list.WriteString(marker + selectedStyle.Render(row))
		} else {
			list.WriteString(marker + rowStyle.Render(row))
		}
		list.WriteString("\n")
	}

	list.WriteString("\n")
	switch {
	case a.groupState.switching:
		list.WriteString(mutedStyle.Render("Switching context..."))
	case a.groupState.switchErr != nil:
		errStyle := lipgloss.NewStyle().Foreground(t.Expense)
		list.WriteString(errStyle.Render("Switch failed: " + a.groupState.switchErr.Error()))
	case cur.GroupActive():
		list.WriteString(mutedStyle.Render("[enter] switch group  [p] back to personal"))
	default:
		list.WriteString(mutedStyle.Render("[enter] switch to group"))
	}

	title := "Groups (personal context)"
	if cur.GroupActive() {
		title = "Groups (group context)"
	}
	b.WriteString(components.ContentCard(title, strings.TrimRight(list.String(), "\n"), cw))

	return b.String()
}
