package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/budgetwise/bwise/internal/api"
	"github.com/budgetwise/bwise/internal/category"
	"github.com/budgetwise/bwise/internal/cli"
	"github.com/budgetwise/bwise/internal/model"
	"github.com/budgetwise/bwise/internal/pipeline"
)

var (
	flagTxKind   string
	flagTxSearch string

	flagEditAmount      float64
	flagEditDescription string
	flagEditCategory    int
)

var transactionsCmd = &cobra.Command{
	Use:     "transactions",
	Aliases: []string{"tx"},
	Short:   "List, edit, and delete transactions",
	RunE:    runTransactionsList,
}

var txEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a transaction",
	Args:  cobra.ExactArgs(1),
	RunE:  runTransactionsEdit,
}

var txDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a transaction",
	Args:  cobra.ExactArgs(1),
	RunE:  runTransactionsDelete,
}

func init() {
	transactionsCmd.PersistentFlags().StringVarP(&flagTxKind, "kind", "k", "", "Filter: expense or deposit")
	transactionsCmd.Flags().StringVarP(&flagTxSearch, "search", "s", "", "Search description, title, category")

	txEditCmd.Flags().Float64Var(&flagEditAmount, "amount", 0, "New amount (positive)")
	txEditCmd.Flags().StringVar(&flagEditDescription, "description", "", "New description")
	txEditCmd.Flags().IntVarP(&flagEditCategory, "category", "c", 0, "New category id (expenses)")

	transactionsCmd.AddCommand(txEditCmd)
	transactionsCmd.AddCommand(txDeleteCmd)
	rootCmd.AddCommand(transactionsCmd)
}

func parseKindFlag() (model.Kind, error) {
	switch flagTxKind {
	case "":
		return "", nil
	case "expense", "expenses":
		return model.KindExpense, nil
	case "deposit", "deposits":
		return model.KindDeposit, nil
	default:
		return "", fmt.Errorf("unknown kind %q (want expense or deposit)", flagTxKind)
	}
}

func runTransactionsList(_ *cobra.Command, _ []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	token, err := e.requireToken()
	if err != nil {
		return err
	}

	kind, err := parseKindFlag()
	if err != nil {
		return err
	}

	progress("  Fetching transactions...\n")
	txs, fetchErr := fetchTransactions(e, token)

	cached := false
	if fetchErr != nil {
		if errors.Is(fetchErr, api.ErrUnauthorized) {
			return errors.New("session expired, run `bwise login`")
		}
		// offline: fall back to the last cached list for this context
		txs = e.store.Transactions(e.sess.ContextKey())
		cached = true
	}

	now := time.Now()
	f := pipeline.Filter{
		Kind:   kind,
		Search: flagTxSearch,
		Since:  now.AddDate(0, 0, -e.windowDays()),
	}
	txs = f.Apply(txs)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("TRANSACTIONS  Last %dd", e.windowDays())))
	fmt.Println()
	if cached {
		fmt.Println(cli.RenderWarn("  Offline: showing cached data."))
		fmt.Println()
	}
	if len(txs) == 0 {
		fmt.Println("  Nothing found.")
		return nil
	}

	currency := e.cfg.General.Currency
	rows := make([][]string, 0, len(txs))
	for _, t := range txs {
		id := t.ID.String()
		if !t.Editable() {
			id = "(pending)"
		}
		name := category.Name(t.CategoryID)
		if t.Kind == model.KindDeposit {
			name = "Income"
		}
		rows = append(rows, []string{
			id,
			cli.FormatDate(t.Time, now),
			name,
			t.Description,
			cli.FormatMoney(t.Amount, currency),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Date", "Category", "Description", "Amount"},
		Rows:    rows,
	}))

	b := model.Sum(txs)
	fmt.Printf("\n  %d transactions, net %s\n", len(txs), cli.FormatMoney(b.Net(), currency))
	return nil
}

// findTransaction resolves an id against the freshly fetched list.
func findTransaction(txs []model.Transaction, id string) (model.Transaction, error) {
	rid := model.ParseRecordID(id)
	for _, t := range txs {
		if t.ID.String() == rid.String() {
			return t, nil
		}
	}
	return model.Transaction{}, fmt.Errorf("no transaction with id %s", id)
}

func runTransactionsEdit(_ *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	token, err := e.requireToken()
	if err != nil {
		return err
	}

	txs, err := fetchTransactions(e, token)
	if err != nil {
		return fmt.Errorf("fetching transactions: %w", err)
	}
	tx, err := findTransaction(txs, args[0])
	if err != nil {
		return err
	}
	if !tx.Editable() {
		return errors.New("this record hasn't been confirmed by the server yet and can't be edited")
	}

	amount := tx.Amount
	if amount < 0 {
		amount = -amount
	}
	if flagEditAmount > 0 {
		amount = flagEditAmount
	}
	description := tx.Description
	if flagEditDescription != "" {
		description = flagEditDescription
	}

	ctx, cancel := e.requestCtx()
	defer cancel()

	when := tx.Time
	if when.IsZero() {
		when = time.Now()
	}

	if tx.Kind == model.KindExpense {
		catID := tx.CategoryID
		if flagEditCategory > 0 {
			catID = flagEditCategory
		}
		title := tx.Title
		if title == "" {
			title = description
		}
		err = e.client.UpdateExpense(ctx, token, tx.ID, api.NewExpense{
			Tittle:            title,
			Description:       description,
			Amount:            amount,
			ExpenseCategoryID: catID,
			DateTime:          when.UTC().Format(time.RFC3339),
		})
	} else {
		err = e.client.UpdateDeposit(ctx, token, tx.ID, api.NewDeposit{
			Description: description,
			Amount:      amount,
			DateTime:    when.UTC().Format(time.RFC3339),
		})
	}
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	fmt.Printf("  Updated %s.\n", tx.ID)
	return nil
}

func runTransactionsDelete(_ *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	token, err := e.requireToken()
	if err != nil {
		return err
	}

	txs, err := fetchTransactions(e, token)
	if err != nil {
		return fmt.Errorf("fetching transactions: %w", err)
	}
	tx, err := findTransaction(txs, args[0])
	if err != nil {
		return err
	}
	if !tx.Editable() {
		return errors.New("this record hasn't been confirmed by the server yet and can't be deleted")
	}

	ctx, cancel := e.requestCtx()
	defer cancel()

	if tx.Kind == model.KindExpense {
		err = e.client.DeleteExpense(ctx, token, tx.ID)
	} else {
		err = e.client.DeleteDeposit(ctx, token, tx.ID)
	}
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	_ = e.store.DeleteTransaction(e.sess.ContextKey(), tx.ID)
	fmt.Printf("  Deleted %s.\n", tx.ID)
	return nil
}
