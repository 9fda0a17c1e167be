package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/budgetwise/bwise/internal/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, _ := config.Load()

	baseURL := cfg.API.BaseURL
	platform := cfg.API.Platform
	if platform == "" {
		platform = "ios-simulator"
	}
	deviceHost := cfg.API.DeviceHost
	currency := cfg.General.Currency
	days := strconv.Itoa(cfg.General.DefaultDays)
	theme := cfg.Appearance.Theme

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Backend URL").
				Description("Leave empty to pick by platform below.").
				Value(&baseURL),
			huh.NewSelect[string]().
				Title("Development platform").
				Options(
					huh.NewOption("iOS simulator (localhost)", "ios-simulator"),
					huh.NewOption("Android emulator (10.0.2.2)", "android-emulator"),
					huh.NewOption("Physical device (LAN IP)", "device"),
				).
				Value(&platform),
			huh.NewInput().
				Title("Device host").
				Description("LAN IP of the machine running the backend (device platform only).").
				Value(&deviceHost),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Currency code").
				Value(&currency).
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
				Value(&days),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(
					huh.NewOption("Flexoki Dark", "flexoki-dark"),
					huh.NewOption("BudgetWise", "budgetwise"),
					huh.NewOption("Catppuccin Mocha", "catppuccin-mocha"),
					huh.NewOption("Tokyo Night", "tokyo-night"),
					huh.NewOption("Terminal (ANSI 16)", "terminal"),
				).
				Value(&theme),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	cfg.API.BaseURL = strings.TrimSpace(baseURL)
	cfg.API.Platform = platform
	cfg.API.DeviceHost = strings.TrimSpace(deviceHost)
	cfg.General.Currency = strings.ToUpper(strings.TrimSpace(currency))
	if n, err := strconv.Atoi(days); err == nil {
		cfg.General.DefaultDays = n
	}
	cfg.Appearance.Theme = theme

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Printf("  API endpoint: %s\n", config.ResolveBaseURL(cfg))
	fmt.Println("  Run `bwise setup` anytime to reconfigure.")
	return nil
}
