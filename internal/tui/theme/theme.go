// Package theme defines color themes for the bwise TUI dashboard.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme assigns colors to the roles the dashboard draws with. Money gets
// dedicated roles so income/expense coloring stays consistent across tabs.
type Theme struct {
	Name         string
	Background   lipgloss.Color // main app background
	Surface      lipgloss.Color // card/panel backgrounds
	SurfaceHover lipgloss.Color // active tab, selected row
	Border       lipgloss.Color // card borders
	BorderAccent lipgloss.Color // focused borders
	TextDim      lipgloss.Color // hints, disabled
	TextMuted    lipgloss.Color // labels, metadata
	TextPrimary  lipgloss.Color // content text
	Accent       lipgloss.Color // links, active states
	AccentBright lipgloss.Color // accent emphasis
	Income       lipgloss.Color // deposits, positive balances, enabled toggles
	Expense      lipgloss.Color // spending, errors, low-balance alerts
	Warning      lipgloss.Color // offline/demo banners, high spend
	Caution      lipgloss.Color // pending records, mid spend
	Chart        lipgloss.Color // neutral chart fill
	Highlight    lipgloss.Color // logo, spinner
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default theme - warm, paper-inspired dark theme.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Background:   lipgloss.Color("#100F0F"),
	Surface:      lipgloss.Color("#1C1B1A"),
	SurfaceHover: lipgloss.Color("#282726"),
	Border:       lipgloss.Color("#403E3C"),
	BorderAccent: lipgloss.Color("#3AA99F"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	AccentBright: lipgloss.Color("#5BC8BE"),
	Income:       lipgloss.Color("#879A39"),
	Expense:      lipgloss.Color("#D14D41"),
	Warning:      lipgloss.Color("#DA702C"),
	Caution:      lipgloss.Color("#D0A215"),
	Chart:        lipgloss.Color("#4385BE"),
	Highlight:    lipgloss.Color("#24837B"),
}

// BudgetWise carries the product palette of the mobile app into the
// terminal: its blue primary, green deposits, and red spending.
var BudgetWise = Theme{
	Name:         "budgetwise",
	Background:   lipgloss.Color("#0F1420"),
	Surface:      lipgloss.Color("#1A2232"),
	SurfaceHover: lipgloss.Color("#243048"),
	Border:       lipgloss.Color("#2E3A52"),
	BorderAccent: lipgloss.Color("#4A90E2"),
	TextDim:      lipgloss.Color("#4C566A"),
	TextMuted:    lipgloss.Color("#8A94A8"),
	TextPrimary:  lipgloss.Color("#ECEFF4"),
	Accent:       lipgloss.Color("#4A90E2"),
	AccentBright: lipgloss.Color("#6BA6EC"),
	Income:       lipgloss.Color("#00C897"),
	Expense:      lipgloss.Color("#FF4C5E"),
	Warning:      lipgloss.Color("#F5A623"),
	Caution:      lipgloss.Color("#F7D154"),
	Chart:        lipgloss.Color("#6C63FF"),
	Highlight:    lipgloss.Color("#4A90E2"),
}

// CatppuccinMocha is a warm pastel theme with soft, soothing colors.
var CatppuccinMocha = Theme{
	Name:         "catppuccin-mocha",
	Background:   lipgloss.Color("#1E1E2E"),
	Surface:      lipgloss.Color("#313244"),
	SurfaceHover: lipgloss.Color("#45475A"),
	Border:       lipgloss.Color("#585B70"),
	BorderAccent: lipgloss.Color("#89B4FA"),
	TextDim:      lipgloss.Color("#6C7086"),
	TextMuted:    lipgloss.Color("#A6ADC8"),
	TextPrimary:  lipgloss.Color("#CDD6F4"),
	Accent:       lipgloss.Color("#89B4FA"),
	AccentBright: lipgloss.Color("#B4D0FB"),
	Income:       lipgloss.Color("#A6E3A1"),
	Expense:      lipgloss.Color("#F38BA8"),
	Warning:      lipgloss.Color("#FAB387"),
	Caution:      lipgloss.Color("#F9E2AF"),
	Chart:        lipgloss.Color("#89B4FA"),
	Highlight:    lipgloss.Color("#94E2D5"),
}

// TokyoNight is a cool blue/purple theme inspired by Tokyo city lights.
var TokyoNight = Theme{
	Name:         "tokyo-night",
	Background:   lipgloss.Color("#1A1B26"),
	Surface:      lipgloss.Color("#24283B"),
	SurfaceHover: lipgloss.Color("#343A52"),
	Border:       lipgloss.Color("#565F89"),
	BorderAccent: lipgloss.Color("#7AA2F7"),
	TextDim:      lipgloss.Color("#565F89"),
	TextMuted:    lipgloss.Color("#A9B1D6"),
	TextPrimary:  lipgloss.Color("#C0CAF5"),
	Accent:       lipgloss.Color("#7AA2F7"),
	AccentBright: lipgloss.Color("#A9C1FF"),
	Income:       lipgloss.Color("#9ECE6A"),
	Expense:      lipgloss.Color("#F7768E"),
	Warning:      lipgloss.Color("#FF9E64"),
	Caution:      lipgloss.Color("#E0AF68"),
	Chart:        lipgloss.Color("#7AA2F7"),
	Highlight:    lipgloss.Color("#7DCFFF"),
}

// Terminal uses ANSI 16 colors only - maximum compatibility.
var Terminal = Theme{
	Name:         "terminal",
	Background:   lipgloss.Color("0"),
	Surface:      lipgloss.Color("0"),
	SurfaceHover: lipgloss.Color("8"),
	Border:       lipgloss.Color("8"),
	BorderAccent: lipgloss.Color("6"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("6"),
	AccentBright: lipgloss.Color("14"),
	Income:       lipgloss.Color("2"),
	Expense:      lipgloss.Color("1"),
	Warning:      lipgloss.Color("3"),
	Caution:      lipgloss.Color("11"),
	Chart:        lipgloss.Color("4"),
	Highlight:    lipgloss.Color("6"),
}

// All available themes.
var All = []Theme{FlexokiDark, BudgetWise, CatppuccinMocha, TokyoNight, Terminal}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}
