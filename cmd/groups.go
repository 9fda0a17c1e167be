package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/budgetwise/bwise/internal/api"
	"github.com/budgetwise/bwise/internal/cli"
	"github.com/budgetwise/bwise/internal/model"
)

var flagGroupDescription string

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "Manage shared budgeting groups",
	RunE:  runGroupsList,
}

var groupsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a group and join it",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupsCreate,
}

var groupsJoinCmd = &cobra.Command{
	Use:   "join <code>",
	Short: "Join a group by invite code",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupsJoin,
}

var groupsLeaveCmd = &cobra.Command{
	Use:   "leave <group-id>",
	Short: "Leave a group",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupsLeave,
}

var groupsSwitchCmd = &cobra.Command{
	Use:   "switch <group-id>",
	Short: "Make a group the active context",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupsSwitch,
}

var groupsPersonalCmd = &cobra.Command{
	Use:   "personal",
	Short: "Switch back to the personal context",
	RunE:  runGroupsPersonal,
}

func init() {
	groupsCreateCmd.Flags().StringVarP(&flagGroupDescription, "description", "d", "", "Group description")

	groupsCmd.AddCommand(groupsCreateCmd)
	groupsCmd.AddCommand(groupsJoinCmd)
	groupsCmd.AddCommand(groupsLeaveCmd)
	groupsCmd.AddCommand(groupsSwitchCmd)
	groupsCmd.AddCommand(groupsPersonalCmd)
	rootCmd.AddCommand(groupsCmd)
}

// refreshGroups re-fetches memberships and updates the cached list.
func refreshGroups(e *env, token string) ([]model.Group, error) {
	ctx, cancel := e.requestCtx()
	defer cancel()

	user, groups, err := e.client.UserDetails(ctx, token)
	if err != nil {
		return nil, err
	}
	_ = e.sess.SaveUser(user)
	_ = e.store.PutJSON("user.groups", groups)
	return groups, nil
}

func runGroupsList(_ *cobra.Command, _ []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	token, err := e.requireToken()
	if err != nil {
		return err
	}

	groups, err := refreshGroups(e, token)
	if err != nil {
		// cached list beats nothing when offline
		if jerr := e.store.GetJSON("user.groups", &groups); jerr != nil {
			return fmt.Errorf("fetching groups: %w", err)
		}
		fmt.Println(cli.RenderWarn("  Offline: showing cached groups."))
	}

	if len(groups) == 0 {
		fmt.Println("  No groups yet. Create one with `bwise groups create <name>`.")
		return nil
	}

	active := e.sess.Current().GroupID
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		marker := ""
		if g.ID == active {
			marker = "active"
		}
		rows = append(rows, []string{g.ID, g.Name, g.Code, fmt.Sprintf("%d", g.MemberCount), marker})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Name", "Code", "Members", ""},
		Rows:    rows,
	}))
	fmt.Println()
	fmt.Println("  Switch context with `bwise groups switch <id>`.")
	return nil
}

func runGroupsCreate(_ *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	token, err := e.requireToken()
	if err != nil {
		return err
	}

	name := strings.TrimSpace(args[0])
	if name == "" {
		return errors.New("group name required")
	}

	ctx, cancel := e.requestCtx()
	defer cancel()

	// creation and membership are separate server-side steps
	group, err := e.client.CreateGroup(ctx, token, api.CreateGroupRequest{
		GroupName:   name,
		Description: flagGroupDescription,
	})
	if err != nil {
		return fmt.Errorf("creating group: %w", err)
	}

	if group.Code != "" {
		if err := e.client.JoinGroup(ctx, token, group.Code); err != nil {
			return fmt.Errorf("group %q created but joining it failed: %w", name, err)
		}
	}

	_, _ = refreshGroups(e, token)

	fmt.Printf("  Created group %q", group.Name)
	if group.Code != "" {
		fmt.Printf(", invite code %s", group.Code)
	}
	fmt.Println()
	return nil
}

func runGroupsJoin(_ *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	token, err := e.requireToken()
	if err != nil {
		return err
	}

	ctx, cancel := e.requestCtx()
	defer cancel()

	code := strings.TrimSpace(args[0])
	if err := e.client.JoinGroup(ctx, token, code); err != nil {
		return fmt.Errorf("joining group: %w", err)
	}
	_, _ = refreshGroups(e, token)

	fmt.Printf("  Joined group with code %s.\n", code)
	return nil
}

func runGroupsLeave(_ *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	token, err := e.requireToken()
	if err != nil {
		return err
	}

	user, err := e.sess.User()
	if err != nil {
		return err
	}

	groupID := args[0]

	// leaving the active group drops its context first
	if e.sess.Current().GroupID == groupID {
		if err := e.sess.SwitchToPersonal(); err != nil {
			return err
		}
	}

	ctx, cancel := e.requestCtx()
	defer cancel()

	if err := e.client.LeaveGroup(ctx, token, user.UserID, groupID); err != nil {
		return fmt.Errorf("leaving group: %w", err)
	}
	_ = e.store.ClearContext("group:" + groupID)
	_, _ = refreshGroups(e, e.sess.Token())

	fmt.Printf("  Left group %s.\n", groupID)
	return nil
}

func runGroupsSwitch(_ *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	if _, err := e.requireToken(); err != nil {
		return err
	}

	ctx, cancel := e.requestCtx()
	defer cancel()

	groupID := args[0]
	if err := e.sess.SwitchToGroup(ctx, groupID); err != nil {
		return fmt.Errorf("switching context: %w", err)
	}

	fmt.Printf("  Active context: group %s\n", groupID)
	fmt.Println("  All transactions now apply to this group.")
	return nil
}

func runGroupsPersonal(_ *cobra.Command, _ []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.sess.SwitchToPersonal(); err != nil {
		return err
	}
	fmt.Println("  Active context: personal")
	return nil
}
