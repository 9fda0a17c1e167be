package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/budgetwise/bwise/internal/api"
)

var (
	flagLoginEmail    string
	flagLoginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session",
	RunE:  runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&flagLoginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&flagLoginPassword, "password", "", "Password (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(_ *cobra.Command, _ []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	email := strings.TrimSpace(flagLoginEmail)
	password := flagLoginPassword

	if email == "" || password == "" {
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&email).
				Validate(func(s string) error {
					if !strings.Contains(s, "@") {
						return errors.New("enter a valid email")
					}
					return nil
				}),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&password).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("password required")
					}
					return nil
				}),
		))
		if err := form.Run(); err != nil {
			return err
		}
	}

	ctx, cancel := e.requestCtx()
	defer cancel()

	progress("  Signing in...\n")
	token, user, err := e.client.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return errors.New("invalid email or password")
		}
		return fmt.Errorf("login failed: %w", err)
	}

	if err := e.sess.Login(token, user); err != nil {
		return err
	}

	// refresh the profile and group list; advisory, login already succeeded
	if details, groups, err := e.client.UserDetails(ctx, token); err == nil {
		_ = e.sess.SaveUser(details)
		if err := e.store.PutJSON("user.groups", groups); err != nil {
			slog.Debug("caching groups failed", "err", err)
		}
	}

	u, _ := e.sess.User()
	fmt.Printf("\n  Welcome back, %s!\n", u.DisplayName())
	fmt.Println("  Run `bwise` for your dashboard.")
	return nil
}
