// Package tui provides the interactive Bubble Tea dashboard for bwise.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/budgetwise/bwise/internal/api"
	"github.com/budgetwise/bwise/internal/config"
	"github.com/budgetwise/bwise/internal/model"
	"github.com/budgetwise/bwise/internal/notify"
	"github.com/budgetwise/bwise/internal/pipeline"
	"github.com/budgetwise/bwise/internal/session"
	"github.com/budgetwise/bwise/internal/store"
	"github.com/budgetwise/bwise/internal/tui/components"
	"github.com/budgetwise/bwise/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Deps bundles everything the dashboard needs. All fields are required
// except Bus, which enables live session events when present.
type Deps struct {
	Config  config.Config
	Client  *api.Client
	Store   *store.Store
	Session *session.Manager
	Notify  *notify.Service
	Bus     *session.Bus
}

// DataLoadedMsg is sent when the initial transaction fetch finishes.
type DataLoadedMsg struct {
	Txs      []model.Transaction
	Demo     bool
	Cached   bool
	LoadTime time.Duration
	Err      error
}

// RefreshDataMsg is sent when a background refresh completes.
type RefreshDataMsg struct {
	Txs      []model.Transaction
	Demo     bool
	Cached   bool
	LoadTime time.Duration
}

// GroupsLoadedMsg carries the group list for the groups tab.
type GroupsLoadedMsg struct {
	Groups []model.Group
}

// SessionEventMsg wraps a session bus event (login, logout, context switch).
type SessionEventMsg struct {
	Event session.Event
}

// SwitchDoneMsg reports the outcome of a context switch from the groups tab.
type SwitchDoneMsg struct {
	Err error
}

// App is the root Bubble Tea model.
type App struct {
	deps Deps

	// Data
	txs      []model.Transaction
	loaded   bool
	loadTime time.Duration
	demo     bool
	cached   bool
	loadErr  error
	groups   []model.Group

	// Pre-computed per load
	balance   model.Balance
	breakdown []pipeline.CategoryStat
	trend     []pipeline.MonthStat

	refreshing bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Per-tab state
	txState    transactionsState
	groupState groupsState
	settings   settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *setupValues
	needSetup bool

	// Loading
	spinner spinner.Model

	// Live session events
	busEvents <-chan session.Event
	busCancel func()
}

const (
	minTerminalWidth = 80
	compactWidth     = 110
	maxContentWidth  = 160

	minContentHeight = 5
	trendMonths      = 6
)

// NewApp creates a new TUI app model.
func NewApp(deps Deps) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	a := App{
		deps:      deps,
		needSetup: !config.Exists(),
		spinner:   sp,
	}
	if deps.Bus != nil {
		a.busEvents, a.busCancel = deps.Bus.Subscribe()
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnableMouseCellMotion,
		loadDataCmd(a.deps),
		loadGroupsCmd(a.deps),
		a.spinner.Tick,
	}
	if a.busEvents != nil {
		cmds = append(cmds, waitForSessionEvent(a.busEvents))
	}
	return tea.Batch(cmds...)
}

func (a *App) recompute() {
	pipeline.SortByTime(a.txs)
	a.balance = model.Sum(a.txs)
	if a.demo {
		a.balance = pipeline.DemoBalance()
	}
	a.breakdown = pipeline.CategoryBreakdown(a.txs)
	a.trend = pipeline.MonthlyTrend(a.txs, time.Now(), trendMonths)

	// Clamp the transactions cursor to the new list bounds
	filtered := a.searchFiltered()
	if a.txState.cursor >= len(filtered) {
		a.txState.cursor = len(filtered) - 1
	}
	if a.txState.cursor < 0 {
		a.txState.cursor = 0
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || (a.needSetup && a.setupForm != nil) {
			return a, nil
		}

		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if a.activeTab == tabTransactions && !a.txState.searching && a.txState.cursor > 0 {
				a.txState.cursor--
			}
			return a, nil

		case tea.MouseButtonWheelDown:
			if a.activeTab == tabTransactions && !a.txState.searching {
				if a.txState.cursor < len(a.searchFiltered())-1 {
					a.txState.cursor++
				}
			}
			return a, nil

		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 && tab < len(components.Tabs) {
					a.activeTab = tab
				}
			}
			return a, nil
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKeys(msg)

	case DataLoadedMsg:
		a.txs = msg.Txs
		a.demo = msg.Demo
		a.cached = msg.Cached
		a.loadErr = msg.Err
		a.loaded = true
		a.loadTime = msg.LoadTime
		a.recompute()

		if a.needSetup {
			a.setupVals = &setupValues{}
			a.setupForm = newSetupForm(a.setupVals, a.deps.Config)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case RefreshDataMsg:
		a.refreshing = false
		a.loadTime = msg.LoadTime
		a.txs = msg.Txs
		a.demo = msg.Demo
		a.cached = msg.Cached
		a.recompute()
		return a, nil

	case GroupsLoadedMsg:
		a.groups = msg.Groups
		if a.groupState.cursor >= len(a.groups) {
			a.groupState.cursor = 0
		}
		return a, nil

	case SessionEventMsg:
		// A login or context switch invalidates everything on screen.
		cmds := []tea.Cmd{waitForSessionEvent(a.busEvents)}
		if msg.Event.Type != session.EventLogout {
			a.refreshing = true
			cmds = append(cmds, refreshDataCmd(a.deps), loadGroupsCmd(a.deps))
		}
		return a, tea.Batch(cmds...)

	case SwitchDoneMsg:
		a.groupState.switching = false
		a.groupState.switchErr = msg.Err
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	return a, nil
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		if a.busCancel != nil {
			a.busCancel()
		}
		return a, tea.Quit
	}

	if !a.loaded {
		return a, nil
	}

	// First-run setup wizard intercepts all keys
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	// Settings tab editing mode owns the keyboard
	if a.activeTab == tabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}

	// Transactions search mode owns the keyboard
	if a.activeTab == tabTransactions && a.txState.searching {
		return a.updateTransactionsSearch(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	if a.activeTab == tabTransactions {
		if m, cmd, handled := a.updateTransactionsKeys(key); handled {
			return m, cmd
		}
	}

	if a.activeTab == tabGroups {
		if m, cmd, handled := a.updateGroupsKeys(key); handled {
			return m, cmd
		}
	}

	if a.activeTab == tabSettings {
		switch key {
		case "j", "down":
			if a.settings.cursor < settingsFieldCount-1 {
				a.settings.cursor++
			}
			return a, nil
		case "k", "up":
			if a.settings.cursor > 0 {
				a.settings.cursor--
			}
			return a, nil
		case "enter":
			return a.settingsStartEdit()
		}
	}

	if key == "q" {
		if a.busCancel != nil {
			a.busCancel()
		}
		return a, tea.Quit
	}

	if key == "r" && !a.refreshing {
		a.refreshing = true
		return a, tea.Batch(refreshDataCmd(a.deps), loadGroupsCmd(a.deps))
	}

	switch key {
	case "o":
		a.activeTab = tabOverview
	case "t":
		a.activeTab = tabTransactions
	case "a":
		a.activeTab = tabAnalytics
	case "g":
		a.activeTab = tabGroups
	case "x":
		a.activeTab = tabSettings
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case "right":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	if a.setupForm.State == huh.StateCompleted {
		if cfg, err := a.saveSetupConfig(); err == nil {
			a.deps.Config = cfg
		}
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	if a.setupForm.State == huh.StateAborted {
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if !a.loaded {
		return a.viewLoading()
	}

	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  bwise needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active
	w := a.width
	h := a.height

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	spinnerStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ bwise"))
	b.WriteString(subtitleStyle.Render(" · Personal & Group Budgets"))
	b.WriteString("\n\n")
	b.WriteString(spinnerStyle.Render(a.spinner.View()))
	b.WriteString(subtitleStyle.Render(" Fetching transactions..."))

	card := cardStyle.Render(b.String())

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active
	h := a.height
	w := a.width

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	sectionStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Highlight).
		Background(t.Surface).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Navigation"))
	b.WriteString("\n")
	navBindings := []struct{ key, desc string }{
		{"o t a g x", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"j k", "Navigate lists"},
	}
	for _, bind := range navBindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
			descStyle.Render(bind.desc))
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Actions"))
	b.WriteString("\n")
	actionBindings := []struct{ key, desc string }{
		{"/", "Search transactions"},
		{"Enter", "Switch group / Edit setting"},
		{"p", "Back to personal context"},
		{"Esc", "Back / Cancel"},
		{"r", "Refresh data"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
	for _, bind := range actionBindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
			descStyle.Render(bind.desc))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	card := cardStyle.Render(b.String())

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)

	dataAge := fmt.Sprintf("%.1fs", a.loadTime.Seconds())
	statusBar := components.RenderStatusBar(w, a.contextLabel(), dataAge, a.demo, a.refreshing)

	headerH := lipgloss.Height(header)
	statusH := lipgloss.Height(statusBar)
	contentH := h - headerH - statusH
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabTransactions:
		content = a.renderTransactionsTab(cw, contentH)
	case tabAnalytics:
		content = a.renderAnalyticsTab(cw)
	case tabGroups:
		content = a.renderGroupsTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// contextLabel describes whose data is on screen for the status bar.
func (a App) contextLabel() string {
	cur := a.deps.Session.Current()
	if cur.PersonalToken == "" {
		return "not logged in"
	}
	if cur.GroupActive() {
		for _, g := range a.groups {
			if g.ID == cur.GroupID {
				return "group: " + g.Name
			}
		}
		return "group: " + cur.GroupID
	}
	return "personal"
}

// Tab indices, matching components.Tabs order.
const (
	tabOverview = iota
	tabTransactions
	tabAnalytics
	tabGroups
	tabSettings
)

// loadDataCmd fetches transactions for the active context. Network
// failures fall back to the local cache, then to demo data, so the
// dashboard always has something to show.
func loadDataCmd(deps Deps) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		txs, demo, cached, err := fetchOrFallback(deps)
		return DataLoadedMsg{
			Txs:      txs,
			Demo:     demo,
			Cached:   cached,
			LoadTime: time.Since(start),
			Err:      err,
		}
	}
}

// refreshDataCmd is loadDataCmd without first-load bookkeeping.
func refreshDataCmd(deps Deps) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		txs, demo, cached, _ := fetchOrFallback(deps)
		return RefreshDataMsg{
			Txs:      txs,
			Demo:     demo,
			Cached:   cached,
			LoadTime: time.Since(start),
		}
	}
}

func fetchOrFallback(deps Deps) (txs []model.Transaction, demo, cached bool, err error) {
	token := deps.Session.Token()
	if token == "" {
		return pipeline.DemoTransactions(time.Now()), true, false, session.ErrNoSession
	}

	ctx, cancel := requestCtx(deps.Config)
	defer cancel()

	contextKey := deps.Session.ContextKey()

	expenses, err := deps.Client.Expenses(ctx, token)
	if err == nil {
		var deposits []model.Transaction
		deposits, err = deps.Client.Deposits(ctx, token)
		if err == nil {
			merged := pipeline.Merge(expenses, deposits)
			_ = deps.Store.ReplaceTransactions(contextKey, merged)
			return merged, false, false, nil
		}
	}

	if fromCache := deps.Store.Transactions(contextKey); len(fromCache) > 0 {
		return fromCache, false, true, err
	}
	return pipeline.DemoTransactions(time.Now()), true, false, err
}

// loadGroupsCmd refreshes the group list, falling back to the cached copy.
func loadGroupsCmd(deps Deps) tea.Cmd {
	return func() tea.Msg {
		token := deps.Session.Token()
		if token == "" {
			return GroupsLoadedMsg{}
		}

		ctx, cancel := requestCtx(deps.Config)
		defer cancel()

		user, groups, err := deps.Client.UserDetails(ctx, token)
		if err != nil {
			var cachedGroups []model.Group
			if err := deps.Store.GetJSON("user.groups", &cachedGroups); err == nil {
				return GroupsLoadedMsg{Groups: cachedGroups}
			}
			return GroupsLoadedMsg{}
		}

		_ = deps.Session.SaveUser(user)
		_ = deps.Store.PutJSON("user.groups", groups)
		return GroupsLoadedMsg{Groups: groups}
	}
}

// waitForSessionEvent blocks until the session bus delivers the next event.
func waitForSessionEvent(events <-chan session.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return SessionEventMsg{Event: ev}
	}
}

func requestCtx(cfg config.Config) (ctx context.Context, cancel context.CancelFunc) {
	timeout := time.Duration(cfg.API.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	padding := strings.Repeat("\n", h-len(lines))
	return s + padding
}

// fillLinesWithBackground pads each line to width w with background color.
// This ensures gaps between cards and empty lines have proper background fill.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)

		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
