package pipeline

import (
	"time"

	"github.com/budgetwise/bwise/internal/model"
)

// Demo data shown when the dashboard cannot reach the backend. The policy
// is "never show an empty dashboard"; callers decide explicitly whether to
// fall back here, the fetch path never substitutes it silently.

// DemoBalance returns the canned balance card.
func DemoBalance() model.Balance {
	return model.Balance{Income: 2379.0, Expense: 1895.0}
}

// DemoTransactions returns the canned recent-activity list, newest first.
// Dates land in the most recent December so the list reads naturally.
func DemoTransactions(now time.Time) []model.Transaction {
	year := now.Year()
	if now.Month() < time.December {
		year--
	}
	day := func(d int) time.Time {
		return time.Date(year, time.December, d, 12, 0, 0, 0, now.Location())
	}

	return []model.Transaction{
		{ID: model.SyncedID(1), Kind: model.KindExpense, Amount: -25, Description: "checkup fee", CategoryID: 2, Time: day(11)},
		{ID: model.SyncedID(2), Kind: model.KindDeposit, Amount: 60, Description: "Gift from Family", Time: day(10)},
		{ID: model.SyncedID(3), Kind: model.KindExpense, Amount: -20, Description: "Winter Clothing", CategoryID: 13, Time: day(10)},
		{ID: model.SyncedID(4), Kind: model.KindDeposit, Amount: 90, Description: "Cashback from Credit Card", Time: day(9)},
		{ID: model.SyncedID(5), Kind: model.KindExpense, Amount: -30, Description: "Had dinner at hotel", CategoryID: 1, Time: day(9)},
	}
}
