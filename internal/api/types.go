package api

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/budgetwise/bwise/internal/category"
	"github.com/budgetwise/bwise/internal/model"
)

// listEnvelope handles the backend's reference-preserving serializer, which
// wraps every collection in {"$id": ..., "$values": [...]}. Plain arrays
// pass through unchanged.
type listEnvelope struct {
	Values []json.RawMessage `json:"$values"`
}

// unwrapList returns the element list from either an enveloped or a bare
// JSON array body.
func unwrapList(body []byte) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err == nil {
		return items, nil
	}
	var env listEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	return env.Values, nil
}

// flexID defensively parses an id that arrives as a number ("id": 42) or a
// numeric string ("id": "42").
func flexID(raw json.RawMessage) (int64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

// loginRequest is the credentials payload for /api/Auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse carries the issued bearer token and the account profile.
type loginResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// RegisterRequest is the new-account payload for /api/User/AddUser.
type RegisterRequest struct {
	UserName string `json:"userName"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

type switchResponse struct {
	Token string `json:"token"`
}

// userDetails is the /api/User/me response: the profile plus group
// memberships, the latter arriving in a $values envelope.
type userDetails struct {
	UserID   json.RawMessage `json:"userId"`
	UserName string          `json:"userName"`
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Phone    string          `json:"phone"`
	Groups   json.RawMessage `json:"groups"`
}

// groupWire tolerates the id and code spellings seen across backend
// endpoints.
type groupWire struct {
	GroupID     json.RawMessage `json:"groupId"`
	ID          json.RawMessage `json:"id"`
	GroupName   string          `json:"groupName"`
	Name        string          `json:"name"`
	GroupCode   string          `json:"groupCode"`
	Code        string          `json:"code"`
	Description string          `json:"description"`
	MemberCount int             `json:"memberCount"`
}

func (g groupWire) toModel() model.Group {
	out := model.Group{
		Name:        g.GroupName,
		Code:        g.GroupCode,
		Description: g.Description,
		MemberCount: g.MemberCount,
	}
	if out.Name == "" {
		out.Name = g.Name
	}
	if out.Code == "" {
		out.Code = g.Code
	}
	if id, ok := flexID(g.GroupID); ok {
		out.ID = strconv.FormatInt(id, 10)
	} else if id, ok := flexID(g.ID); ok {
		out.ID = strconv.FormatInt(id, 10)
	} else {
		// some endpoints return string ids outright
		var s string
		if json.Unmarshal(g.GroupID, &s) == nil && s != "" {
			out.ID = s
		} else if json.Unmarshal(g.ID, &s) == nil && s != "" {
			out.ID = s
		}
	}
	return out
}

// CreateGroupRequest is the payload for /api/Group/AddGroup.
type CreateGroupRequest struct {
	GroupName   string `json:"groupName"`
	Description string `json:"description,omitempty"`
}

// categoryWire tolerates the field spellings the categories endpoint has
// shipped under.
type categoryWire struct {
	ExpenseCategoryID json.RawMessage `json:"expenseCategoryId"`
	ID                json.RawMessage `json:"id"`
	Name              string          `json:"name"`
	CategoryName      string          `json:"categoryName"`
}

func (c categoryWire) toModel() category.Category {
	out := category.Category{Name: c.Name}
	if out.Name == "" {
		out.Name = c.CategoryName
	}
	if id, ok := flexID(c.ExpenseCategoryID); ok {
		out.ID = int(id)
	} else if id, ok := flexID(c.ID); ok {
		out.ID = int(id)
	}
	if out.Icon == "" {
		out.Icon = category.Icon(out.ID)
	}
	return out
}

// expenseWire decodes one expense record. Go's case-insensitive field
// matching absorbs the ExpenseID/expenseId/expenseID spellings; flexID
// absorbs numeric strings.
type expenseWire struct {
	ExpenseID         json.RawMessage `json:"expenseId"`
	ID                json.RawMessage `json:"id"`
	Amount            float64         `json:"amount"`
	Description       string          `json:"description"`
	Tittle            string          `json:"tittle"` // backend field name, double t
	ExpenseCategoryID json.RawMessage `json:"expenseCategoryId"`
	CategoryID        json.RawMessage `json:"categoryId"`
	DateTime          string          `json:"dateTime"`
	Date              string          `json:"date"`
	GroupID           string          `json:"groupId"`
}

// depositWire decodes one deposit record.
type depositWire struct {
	DepositID   json.RawMessage `json:"depositId"`
	ID          json.RawMessage `json:"id"`
	Amount      float64         `json:"amount"`
	Description string          `json:"description"`
	DateTime    string          `json:"dateTime"`
	Date        string          `json:"date"`
	GroupID     string          `json:"groupId"`
}

func decodeExpense(raw json.RawMessage, now time.Time) model.Transaction {
	var w expenseWire
	_ = json.Unmarshal(raw, &w)

	t := model.Transaction{
		Kind:        model.KindExpense,
		Amount:      model.Signed(model.KindExpense, w.Amount),
		Title:       w.Tittle,
		Description: w.Description,
		Time:        category.NormalizeTime(w.DateTime, w.Date, now),
		GroupID:     w.GroupID,
		Raw:         raw,
	}
	if t.Description == "" {
		t.Description = "No description"
	}
	if id, ok := flexID(w.ExpenseCategoryID); ok {
		t.CategoryID = int(id)
	} else if id, ok := flexID(w.CategoryID); ok {
		t.CategoryID = int(id)
	}
	if id, ok := flexID(w.ExpenseID); ok {
		t.ID = model.SyncedID(id)
	} else if id, ok := flexID(w.ID); ok {
		t.ID = model.SyncedID(id)
	} else {
		t.ID = model.LocalID()
	}
	return t
}

func decodeDeposit(raw json.RawMessage, now time.Time) model.Transaction {
	var w depositWire
	_ = json.Unmarshal(raw, &w)

	t := model.Transaction{
		Kind:        model.KindDeposit,
		Amount:      model.Signed(model.KindDeposit, w.Amount),
		Description: w.Description,
		Time:        category.NormalizeTime(w.DateTime, w.Date, now),
		GroupID:     w.GroupID,
		Raw:         raw,
	}
	if t.Description == "" {
		t.Description = "Deposit"
	}
	if id, ok := flexID(w.DepositID); ok {
		t.ID = model.SyncedID(id)
	} else if id, ok := flexID(w.ID); ok {
		t.ID = model.SyncedID(id)
	} else {
		t.ID = model.LocalID()
	}
	return t
}

// NewExpense is the create payload for /api/Expense/AddExpenseRecord.
// Amount is the raw positive value; the backend stores it unsigned.
type NewExpense struct {
	Tittle            string  `json:"Tittle"` // backend expects this exact name
	Description       string  `json:"description"`
	Amount            float64 `json:"amount"`
	ExpenseCategoryID int     `json:"expenseCategoryId"`
	DateTime          string  `json:"dateTime"`
}

// NewDeposit is the create payload for /api/Deposit/AddDeposit.
type NewDeposit struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	DateTime    string  `json:"dateTime"`
}
