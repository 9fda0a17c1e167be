package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/budgetwise/bwise/internal/cli"
	"github.com/budgetwise/bwise/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show backend connectivity and session state",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	fmt.Println()
	fmt.Println(cli.RenderTitle("BWISE STATUS"))
	fmt.Println()

	baseURL := config.ResolveBaseURL(e.cfg)
	rows := [][]string{
		{"API endpoint", baseURL},
	}

	ctx, cancel := e.requestCtx()
	defer cancel()
	if err := e.client.Health(ctx); err != nil {
		rows = append(rows, []string{"Backend", "unreachable"})
	} else {
		rows = append(rows, []string{"Backend", "ok"})
	}
	rows = append(rows, []string{"---"})

	// token state, presence and expiry only, never values
	info := e.sess.Debug()
	rows = append(rows, []string{"Personal token", presence(info.PersonalPresent, info.PersonalExpiry)})
	rows = append(rows, []string{"Group token", presence(info.GroupPresent, info.GroupExpiry)})
	if info.GroupID != "" {
		rows = append(rows, []string{"Active group", info.GroupID})
	} else {
		rows = append(rows, []string{"Active context", "personal"})
	}

	if u, err := e.sess.User(); err == nil {
		rows = append(rows, []string{"---"})
		rows = append(rows, []string{"Account", u.DisplayName()})
		if u.Email != "" {
			rows = append(rows, []string{"Email", u.Email})
		}
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Item", "State"},
		Rows:    rows,
	}))

	if e.sess.Token() == "" {
		fmt.Println()
		fmt.Println("  No active session. Run `bwise login`.")
	}
	return nil
}

func presence(present bool, expiry time.Time) string {
	if !present {
		return "absent"
	}
	if expiry.IsZero() {
		return "present"
	}
	if expiry.Before(time.Now()) {
		return fmt.Sprintf("expired %s", expiry.Local().Format("2 Jan 15:04"))
	}
	return fmt.Sprintf("valid until %s", expiry.Local().Format("2 Jan 15:04"))
}
