package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/budgetwise/bwise/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second)
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/Auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"token":"tok-123","user":{"user_name":"alice","email":"a@b.c"}}`))
	})

	token, user, err := c.Login(context.Background(), "a@b.c", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token != "tok-123" {
		t.Errorf("token = %q", token)
	}
	if user.UserName != "alice" {
		t.Errorf("user = %+v", user)
	}
}

func TestLogin_MissingToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"user":{}}`))
	})
	if _, _, err := c.Login(context.Background(), "a@b.c", "pw"); err == nil {
		t.Error("Login with empty token succeeded")
	}
}

func TestUnauthorizedSentinel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	_, err := c.Profile(context.Background(), "stale")
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestStatusError_CarriesMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"amount must be positive"}`))
	})
	_, err := c.AddExpense(context.Background(), "tok", NewExpense{Amount: -1})
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want StatusError", err)
	}
	if se.Status != http.StatusBadRequest || se.Message != "amount must be positive" {
		t.Errorf("StatusError = %+v", se)
	}
}

func TestExpenses_ValuesEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte(`{"$id":"1","$values":[
			{"expenseId":7,"amount":42.5,"description":"groceries","expenseCategoryID":1,"dateTime":"2025-06-10T12:00:00Z"},
			{"id":"8","amount":9,"Tittle":"bus","categoryId":3}
		]}`))
	})

	txs, err := c.Expenses(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Expenses: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("got %d records, want 2", len(txs))
	}

	first := txs[0]
	if id, ok := first.ID.Synced(); !ok || id != 7 {
		t.Errorf("first id = %v", first.ID)
	}
	if first.Amount != -42.5 {
		t.Errorf("expense amount not negated: %v", first.Amount)
	}
	if first.CategoryID != 1 {
		t.Errorf("CategoryID = %d", first.CategoryID)
	}

	second := txs[1]
	if id, ok := second.ID.Synced(); !ok || id != 8 {
		t.Errorf("string id not coalesced: %v", second.ID)
	}
	if second.Title != "bus" {
		t.Errorf("Tittle field lost: %+v", second)
	}
	if second.CategoryID != 3 {
		t.Errorf("categoryId fallback failed: %d", second.CategoryID)
	}
	if second.Time.IsZero() {
		t.Error("missing date should fall back to now, not zero")
	}
}

func TestExpenses_BareArray(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"expenseId":1,"amount":5,"description":"x"}]`))
	})
	txs, err := c.Expenses(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Expenses: %v", err)
	}
	if len(txs) != 1 {
		t.Errorf("got %d records, want 1", len(txs))
	}
}

func TestExpenses_RecordWithoutID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"amount":5,"description":"orphan"}]`))
	})
	txs, err := c.Expenses(context.Background(), "tok")
	if err != nil {
		t.Fatal(err)
	}
	if len(txs) != 1 {
		t.Fatalf("got %d records", len(txs))
	}
	if txs[0].Editable() {
		t.Error("record without server id must not be editable")
	}
}

func TestDeposits_PositiveAmounts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"$values":[{"depositId":4,"amount":100,"description":""}]}`))
	})
	txs, err := c.Deposits(context.Background(), "tok")
	if err != nil {
		t.Fatal(err)
	}
	if txs[0].Amount != 100 {
		t.Errorf("deposit amount = %v, want 100", txs[0].Amount)
	}
	if txs[0].Description != "Deposit" {
		t.Errorf("empty description not defaulted: %q", txs[0].Description)
	}
}

func TestUpdateDelete_LocalRecordRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("local-id record reached the server")
	})

	local := model.LocalID()
	if err := c.UpdateExpense(context.Background(), "tok", local, NewExpense{}); !errors.Is(err, ErrLocalRecord) {
		t.Errorf("UpdateExpense err = %v, want ErrLocalRecord", err)
	}
	if err := c.DeleteDeposit(context.Background(), "tok", local); !errors.Is(err, ErrLocalRecord) {
		t.Errorf("DeleteDeposit err = %v, want ErrLocalRecord", err)
	}
}

func TestSwitchToGroup(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/Auth/switch-to-group/g42" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"token":"group-tok"}`))
	})
	tok, err := c.SwitchToGroup(context.Background(), "personal-tok", "g42")
	if err != nil {
		t.Fatalf("SwitchToGroup: %v", err)
	}
	if tok != "group-tok" {
		t.Errorf("token = %q", tok)
	}
}

func TestUserDetails_GroupEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"userId":12,"userName":"alice","email":"a@b.c",
			"groups":{"$values":[{"groupId":"3","groupName":"Household","groupCode":"HH42"}]}}`))
	})
	u, groups, err := c.UserDetails(context.Background(), "tok")
	if err != nil {
		t.Fatalf("UserDetails: %v", err)
	}
	if u.UserID != "12" {
		t.Errorf("UserID = %q", u.UserID)
	}
	if len(groups) != 1 || groups[0].ID != "3" || groups[0].Name != "Household" {
		t.Errorf("groups = %+v", groups)
	}
}

func TestCategories(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"$values":[{"expenseCategoryID":1,"name":"Food"},{"id":99,"categoryName":"Mystery"}]}`))
	})
	cats, err := c.Categories(context.Background(), "tok")
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != 2 {
		t.Fatalf("got %d categories", len(cats))
	}
	if cats[0].ID != 1 || cats[0].Name != "Food" {
		t.Errorf("cats[0] = %+v", cats[0])
	}
	if cats[1].Name != "Mystery" || cats[1].Icon == "" {
		t.Errorf("cats[1] = %+v", cats[1])
	}
}

func TestNetworkErrorWrapped(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 500*time.Millisecond)
	_, err := c.Expenses(context.Background(), "tok")
	if err == nil {
		t.Fatal("expected connection error")
	}
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrNotFound) {
		t.Errorf("network failure mapped to a sentinel: %v", err)
	}
}
