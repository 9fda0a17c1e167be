package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/budgetwise/bwise/internal/api"
	"github.com/budgetwise/bwise/internal/category"
	"github.com/budgetwise/bwise/internal/cli"
)

var (
	flagAddDeposit  bool
	flagAddTitle    string
	flagAddCategory int
	flagAddDate     string
)

var addCmd = &cobra.Command{
	Use:   "add <amount> <description>",
	Short: "Record an expense (or a deposit with --deposit)",
	Args:  cobra.ExactArgs(2),
	RunE:  runAdd,
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List expense categories",
	RunE:  runCategories,
}

func init() {
	addCmd.Flags().BoolVar(&flagAddDeposit, "deposit", false, "Record a deposit instead of an expense")
	addCmd.Flags().StringVar(&flagAddTitle, "title", "", "Short title")
	addCmd.Flags().IntVarP(&flagAddCategory, "category", "c", 1, "Expense category id (see `bwise categories`)")
	addCmd.Flags().StringVar(&flagAddDate, "date", "", "Date (YYYY-MM-DD), defaults to today")
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(categoriesCmd)
}

func runAdd(_ *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	token, err := e.requireToken()
	if err != nil {
		return err
	}

	var amount float64
	if _, err := fmt.Sscanf(args[0], "%f", &amount); err != nil || amount <= 0 {
		return errors.New("amount must be a positive number")
	}
	description := args[1]

	when := time.Now()
	if flagAddDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", flagAddDate, time.Local)
		if err != nil {
			return fmt.Errorf("invalid date %q (want YYYY-MM-DD)", flagAddDate)
		}
		when = parsed
	}

	ctx, cancel := e.requestCtx()
	defer cancel()

	currency := e.cfg.General.Currency

	if flagAddDeposit {
		tx, err := e.client.AddDeposit(ctx, token, api.NewDeposit{
			Description: description,
			Amount:      amount,
			DateTime:    when.UTC().Format(time.RFC3339),
		})
		if err != nil {
			return fmt.Errorf("saving deposit: %w", err)
		}
		// server confirmed: make it visible before the next full fetch
		_ = e.store.PrependTransaction(e.sess.ContextKey(), tx)
		fmt.Printf("  Deposit saved: %s %s\n", cli.FormatMoney(tx.Amount, currency), description)
		return nil
	}

	title := flagAddTitle
	if title == "" {
		title = description
	}
	tx, err := e.client.AddExpense(ctx, token, api.NewExpense{
		Tittle:            title,
		Description:       description,
		Amount:            amount,
		ExpenseCategoryID: flagAddCategory,
		DateTime:          when.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("saving expense: %w", err)
	}
	_ = e.store.PrependTransaction(e.sess.ContextKey(), tx)

	fmt.Printf("  Expense saved: %s %s (%s)\n",
		cli.FormatMoney(tx.Amount, currency), description, category.Name(flagAddCategory))

	if alert := e.notify.CheckExpense(amount, flagAddCategory); alert != nil {
		fmt.Println(cli.RenderWarn("  " + alert.Title + ": " + alert.Message))
	}
	return nil
}

func runCategories(_ *cobra.Command, _ []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	cats := category.Fallback()

	// prefer the live list when logged in and reachable
	if token := e.sess.Token(); token != "" {
		ctx, cancel := e.requestCtx()
		defer cancel()
		if live, err := e.client.Categories(ctx, token); err == nil && len(live) > 0 {
			cats = live
		}
	}

	rows := make([][]string, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, []string{fmt.Sprintf("%d", c.ID), c.Name, c.Icon})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Name", "Icon"},
		Rows:    rows,
	}))
	return nil
}
