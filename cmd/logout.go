package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and wipe local session data",
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(_ *cobra.Command, _ []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	// tell the server, but local cleanup happens regardless
	if token := e.sess.Token(); token != "" {
		ctx, cancel := e.requestCtx()
		defer cancel()
		if err := e.client.Logout(ctx, token); err != nil {
			slog.Debug("server-side logout failed", "err", err)
		}
	}

	if err := e.sess.Clear(); err != nil {
		return err
	}
	if err := e.store.ClearAll(); err != nil {
		return err
	}

	fmt.Println("  Logged out. Local data cleared.")
	return nil
}
