package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/budgetwise/bwise/internal/api"
	"github.com/budgetwise/bwise/internal/cli"
	"github.com/budgetwise/bwise/internal/pipeline"
)

var flagAnalyticsMonths int

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Spending breakdown by category and monthly trend",
	RunE:  runAnalytics,
}

func init() {
	analyticsCmd.Flags().IntVarP(&flagAnalyticsMonths, "months", "m", 6, "Months of trend history")
	rootCmd.AddCommand(analyticsCmd)
}

func runAnalytics(_ *cobra.Command, _ []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	token, err := e.requireToken()
	if err != nil {
		return err
	}

	progress("  Fetching transactions...\n")
	txs, err := fetchTransactions(e, token)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return errors.New("session expired, run `bwise login`")
		}
		txs = e.store.Transactions(e.sess.ContextKey())
		if len(txs) == 0 {
			return fmt.Errorf("fetching transactions: %w", err)
		}
		fmt.Println(cli.RenderWarn("  Offline: analytics over cached data."))
	}

	currency := e.cfg.General.Currency
	now := time.Now()

	fmt.Println()
	fmt.Println(cli.RenderTitle("ANALYTICS"))
	fmt.Println()

	breakdown := pipeline.CategoryBreakdown(txs)
	if len(breakdown) == 0 {
		fmt.Println("  No expenses to analyze yet.")
	} else {
		maxTotal := breakdown[0].Total
		rows := make([][]string, 0, len(breakdown))
		for _, cs := range breakdown {
			rows = append(rows, []string{
				cs.Name,
				cli.RenderHorizontalBar(cs.Name, cs.Total, maxTotal, 20),
				cli.FormatAmount(cs.Total, currency),
				cli.FormatPercent(cs.Percent),
				fmt.Sprintf("%d", cs.Count),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "By category",
			Headers: []string{"Category", "", "Spent", "Share", "Txns"},
			Rows:    rows,
		}))
		fmt.Println()
	}

	trend := pipeline.MonthlyTrend(txs, now, flagAnalyticsMonths)
	expenseSeries := make([]float64, len(trend))
	rows := make([][]string, 0, len(trend))
	for i, ms := range trend {
		expenseSeries[i] = ms.Expense
		rows = append(rows, []string{
			ms.Month.Format("Jan 2006"),
			cli.FormatAmount(ms.Income, currency),
			cli.FormatAmount(ms.Expense, currency),
			cli.FormatMoney(ms.Income-ms.Expense, currency),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Monthly trend",
		Headers: []string{"Month", "Income", "Expense", "Net"},
		Rows:    rows,
	}))
	fmt.Printf("\n  Expense trend: %s\n", cli.RenderSparkline(expenseSeries))
	return nil
}
