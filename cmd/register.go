package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/budgetwise/bwise/internal/api"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE:  runRegister,
}

var verifyCmd = &cobra.Command{
	Use:   "verify <email> [code]",
	Short: "Verify an email address with the mailed code",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runVerify,
}

func init() {
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(verifyCmd)
}

func runRegister(_ *cobra.Command, _ []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	var req api.RegisterRequest
	var confirm string

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Username").Value(&req.UserName).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("username required")
				}
				return nil
			}),
		huh.NewInput().Title("Full name").Value(&req.Name),
		huh.NewInput().Title("Email").Value(&req.Email).
			Validate(func(s string) error {
				if !strings.Contains(s, "@") {
					return errors.New("enter a valid email")
				}
				return nil
			}),
		huh.NewInput().Title("Phone (optional)").Value(&req.Phone),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&req.Password).
			Validate(func(s string) error {
				if len(s) < 6 {
					return errors.New("at least 6 characters")
				}
				return nil
			}),
		huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&confirm),
	))
	if err := form.Run(); err != nil {
		return err
	}
	if confirm != req.Password {
		return errors.New("passwords do not match")
	}

	ctx, cancel := e.requestCtx()
	defer cancel()

	progress("  Creating account...\n")
	if _, err := e.client.Register(ctx, req); err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	fmt.Println("\n  Account created.")
	fmt.Printf("  Check %s for a verification code, then run:\n", req.Email)
	fmt.Printf("    bwise verify %s <code>\n", req.Email)
	return nil
}

func runVerify(_ *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	email := args[0]

	ctx, cancel := e.requestCtx()
	defer cancel()

	// no code yet: request one
	if len(args) == 1 {
		if err := e.client.SendVerification(ctx, email); err != nil {
			return fmt.Errorf("sending verification code: %w", err)
		}
		fmt.Printf("  Verification code sent to %s.\n", email)
		return nil
	}

	code := strings.TrimSpace(args[1])
	if len(code) != 6 {
		return errors.New("verification codes are 6 digits")
	}

	if err := e.client.VerifyEmail(ctx, email, code); err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}
	fmt.Println("  Email verified. You can log in now:")
	fmt.Println("    bwise login")
	return nil
}
