package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/budgetwise/bwise/internal/cli"
)

var (
	flagProfileName  string
	flagProfileEmail string
	flagProfilePhone string
	flagProfileColor string
)

const avatarColorPrefix = "prefs.avatar_color."

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the account profile",
	RunE:  runProfile,
}

var profileEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Update profile fields",
	RunE:  runProfileEdit,
}

func init() {
	profileEditCmd.Flags().StringVar(&flagProfileName, "name", "", "Full name")
	profileEditCmd.Flags().StringVar(&flagProfileEmail, "email", "", "Email address")
	profileEditCmd.Flags().StringVar(&flagProfilePhone, "phone", "", "Phone number")
	profileEditCmd.Flags().StringVar(&flagProfileColor, "color", "", "Avatar badge color (local only)")
	profileCmd.AddCommand(profileEditCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfile(_ *cobra.Command, _ []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	token, err := e.requireToken()
	if err != nil {
		return err
	}

	// fresh profile when reachable, stored copy otherwise
	u, uerr := e.sess.User()
	ctx, cancel := e.requestCtx()
	defer cancel()
	if live, err := e.client.Profile(ctx, token); err == nil {
		u = live
		_ = e.sess.SaveUser(live)
	} else if uerr != nil {
		return fmt.Errorf("fetching profile: %w", err)
	}

	color, err := e.store.Get(avatarColorPrefix + u.Email)
	if err != nil {
		color = cli.DefaultAvatarColor(u.Email)
	}

	fmt.Println()
	fmt.Printf("  %s  %s\n\n", cli.RenderAvatar(u.Initials(), color), u.DisplayName())
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Profile",
		Headers: []string{"", ""},
		Rows: [][]string{
			{"Name", u.DisplayName()},
			{"Username", u.UserName},
			{"Email", u.Email},
			{"Phone", u.Phone},
		},
	}))
	return nil
}

func runProfileEdit(_ *cobra.Command, _ []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	token, err := e.requireToken()
	if err != nil {
		return err
	}

	u, err := e.sess.User()
	if err != nil {
		return err
	}

	// The badge color is a device-local preference, never sent upstream.
	if flagProfileColor != "" {
		if _, ok := cli.AvatarColors[flagProfileColor]; !ok {
			return fmt.Errorf("unknown color %q (pick one of: blue, green, orange, purple, red, teal, yellow)", flagProfileColor)
		}
		if err := e.store.Put(avatarColorPrefix+u.Email, flagProfileColor); err != nil {
			return fmt.Errorf("saving color preference: %w", err)
		}
	}

	changed := false
	if flagProfileName != "" {
		u.Name = flagProfileName
		changed = true
	}
	if flagProfileEmail != "" {
		u.Email = flagProfileEmail
		changed = true
	}
	if flagProfilePhone != "" {
		u.Phone = flagProfilePhone
		changed = true
	}
	if !changed {
		if flagProfileColor != "" {
			fmt.Println("  Avatar color updated.")
			return nil
		}
		return fmt.Errorf("nothing to update (use --name, --email, --phone, or --color)")
	}

	ctx, cancel := e.requestCtx()
	defer cancel()

	updated, err := e.client.UpdateProfile(ctx, token, u)
	if err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}
	if updated.UserID == "" {
		updated = u
	}
	if err := e.sess.SaveUser(updated); err != nil {
		return err
	}

	fmt.Println("  Profile updated.")
	return nil
}
