// Package model defines domain types for the bwise client: sessions,
// transactions, groups, and settings.
package model

import (
	"encoding/json"
	"time"
)

// Kind discriminates the two transaction types.
type Kind string

const (
	KindExpense Kind = "expense"
	KindDeposit Kind = "deposit"
)

// Transaction is the unified client-side view of an expense or deposit.
// Amounts follow the display sign convention: expenses negative, deposits
// positive.
type Transaction struct {
	ID          RecordID        `json:"id"`
	Kind        Kind            `json:"kind"`
	Amount      float64         `json:"amount"`
	Title       string          `json:"title,omitempty"`
	Description string          `json:"description"`
	CategoryID  int             `json:"category_id,omitempty"`
	Time        time.Time       `json:"time"`
	GroupID     string          `json:"group_id,omitempty"`
	Raw         json.RawMessage `json:"raw,omitempty"` // original server payload, kept for updates
}

// Editable reports whether the record may be sent back to the server for
// update or delete. Placeholder-id records exist only locally.
func (t Transaction) Editable() bool {
	_, ok := t.ID.Synced()
	return ok
}

// Signed returns the amount with the sign convention applied to a raw
// (server-side, always positive) amount.
func Signed(kind Kind, amount float64) float64 {
	if amount < 0 {
		amount = -amount
	}
	if kind == KindExpense {
		return -amount
	}
	return amount
}

// Balance aggregates income, expense, and net across transactions.
type Balance struct {
	Income  float64
	Expense float64
}

// Net returns income minus expense.
func (b Balance) Net() float64 { return b.Income - b.Expense }

// Sum computes the balance over a transaction list.
func Sum(txs []Transaction) Balance {
	var b Balance
	for _, t := range txs {
		if t.Amount >= 0 {
			b.Income += t.Amount
		} else {
			b.Expense += -t.Amount
		}
	}
	return b
}
