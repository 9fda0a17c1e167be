package tui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/budgetwise/bwise/internal/config"
	"github.com/budgetwise/bwise/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// setupValues collects first-run wizard answers.
type setupValues struct {
	baseURL    string
	platform   string
	deviceHost string
	currency   string
	days       string
	theme      string
}

// newSetupForm builds the first-run wizard, pre-filled from cfg. Mirrors
// the `bwise setup` command so both paths produce the same config.
func newSetupForm(vals *setupValues, cfg config.Config) *huh.Form {
	vals.baseURL = cfg.API.BaseURL
	vals.platform = cfg.API.Platform
	if vals.platform == "" {
		vals.platform = "ios-simulator"
	}
	vals.deviceHost = cfg.API.DeviceHost
	vals.currency = cfg.General.Currency
	if vals.currency == "" {
		vals.currency = "USD"
	}
	vals.days = strconv.Itoa(cfg.General.DefaultDays)
	vals.theme = cfg.Appearance.Theme
	if vals.theme == "" {
		vals.theme = theme.Active.Name
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Backend URL").
				Description("Leave empty to pick by platform below.").
				Value(&vals.baseURL),
			huh.NewSelect[string]().
				Title("Development platform").
				Options(
					huh.NewOption("iOS simulator (localhost)", "ios-simulator"),
					huh.NewOption("Android emulator (10.0.2.2)", "android-emulator"),
					huh.NewOption("Physical device (LAN IP)", "device"),
				).
				Value(&vals.platform),
			huh.NewInput().
				Title("Device host").
				Description("LAN IP of the machine running the backend (device platform only).").
				Value(&vals.deviceHost),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Currency code").
				Value(&vals.currency).
				Validate(func(s string) error {
					if len(strings.TrimSpace(s)) != 3 {
						return errors.New("use a 3-letter ISO code, e.g. USD")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Default time window").
				Options(
					huh.NewOption("7 days", "7"),
					huh.NewOption("30 days", "30"),
					huh.NewOption("90 days", "90"),
				).
				Value(&vals.days),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(
					huh.NewOption("Flexoki Dark", "flexoki-dark"),
					huh.NewOption("BudgetWise", "budgetwise"),
					huh.NewOption("Catppuccin Mocha", "catppuccin-mocha"),
					huh.NewOption("Tokyo Night", "tokyo-night"),
					huh.NewOption("Terminal (ANSI 16)", "terminal"),
				).
				Value(&vals.theme),
		),
	)
}

// saveSetupConfig persists the wizard answers and applies the theme,
// returning the updated config for the app to adopt.
func (a App) saveSetupConfig() (config.Config, error) {
	cfg := a.deps.Config
	cfg.API.BaseURL = strings.TrimSpace(a.setupVals.baseURL)
	cfg.API.Platform = a.setupVals.platform
	cfg.API.DeviceHost = strings.TrimSpace(a.setupVals.deviceHost)
	cfg.General.Currency = strings.ToUpper(strings.TrimSpace(a.setupVals.currency))
	if n, err := strconv.Atoi(a.setupVals.days); err == nil {
		cfg.General.DefaultDays = n
	}
	cfg.Appearance.Theme = a.setupVals.theme

	theme.SetActive(cfg.Appearance.Theme)
	return cfg, config.Save(cfg)
}
