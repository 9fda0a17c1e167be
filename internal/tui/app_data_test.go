package tui

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/budgetwise/bwise/internal/api"
	"github.com/budgetwise/bwise/internal/config"
	"github.com/budgetwise/bwise/internal/model"
	"github.com/budgetwise/bwise/internal/session"
	"github.com/budgetwise/bwise/internal/store"
)

// newTestDeps wires real store/session/client against an optional test
// server. A nil handler points the client at an unreachable address.
func newTestDeps(t *testing.T, handler http.Handler) Deps {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "bwise.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	baseURL := "http://127.0.0.1:1"
	if handler != nil {
		srv := httptest.NewServer(handler)
		t.Cleanup(srv.Close)
		baseURL = srv.URL
	}

	client := api.NewClient(baseURL, 2*time.Second)
	bus := session.NewBus()
	return Deps{
		Config:  config.DefaultConfig(),
		Client:  client,
		Store:   st,
		Session: session.NewManager(st, client, bus),
		Bus:     bus,
	}
}

func putToken(t *testing.T, deps Deps) {
	t.Helper()
	if err := deps.Store.Put("session.personal_token", "tok"); err != nil {
		t.Fatalf("seeding token: %v", err)
	}
}

func TestFetchOrFallback_NoToken(t *testing.T) {
	deps := newTestDeps(t, nil)

	txs, demo, cached, err := fetchOrFallback(deps)
	if !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
	if !demo || cached {
		t.Fatalf("demo = %v, cached = %v, want demo only", demo, cached)
	}
	if len(txs) == 0 {
		t.Fatal("expected demo transactions, got none")
	}
}

func TestFetchOrFallback_NetworkErrorUsesDemo(t *testing.T) {
	deps := newTestDeps(t, nil)
	putToken(t, deps)

	txs, demo, cached, err := fetchOrFallback(deps)
	if err == nil {
		t.Fatal("expected a network error")
	}
	if !demo || cached {
		t.Fatalf("demo = %v, cached = %v, want demo fallback", demo, cached)
	}
	if len(txs) == 0 {
		t.Fatal("expected demo transactions, got none")
	}
}

func TestFetchOrFallback_NetworkErrorPrefersCache(t *testing.T) {
	deps := newTestDeps(t, nil)
	putToken(t, deps)

	seeded := []model.Transaction{
		{ID: model.SyncedID(1), Kind: model.KindExpense, Amount: -12, Time: time.Now()},
	}
	if err := deps.Store.ReplaceTransactions("personal", seeded); err != nil {
		t.Fatalf("seeding cache: %v", err)
	}

	txs, demo, cached, err := fetchOrFallback(deps)
	if err == nil {
		t.Fatal("expected a network error")
	}
	if demo || !cached {
		t.Fatalf("demo = %v, cached = %v, want cached data", demo, cached)
	}
	if len(txs) != 1 {
		t.Fatalf("got %d cached transactions, want 1", len(txs))
	}
}

func TestFetchOrFallback_Success(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/Expense/GetAllRelatedExpenseRecords":
			w.Write([]byte(`{"$values":[{"expenseId":1,"amount":40,"description":"food","dateTime":"2025-06-10T12:00:00Z"}]}`))
		case "/api/Deposit/GetAllRelatedDeposits":
			w.Write([]byte(`{"$values":[{"depositId":2,"amount":100,"description":"pay","dateTime":"2025-06-11T12:00:00Z"}]}`))
		default:
			http.NotFound(w, r)
		}
	})
	deps := newTestDeps(t, handler)
	putToken(t, deps)

	txs, demo, cached, err := fetchOrFallback(deps)
	if err != nil {
		t.Fatalf("fetchOrFallback: %v", err)
	}
	if demo || cached {
		t.Fatalf("demo = %v, cached = %v, want live data", demo, cached)
	}
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}

	// The fresh list replaces the context-scoped cache.
	if got := deps.Store.Transactions("personal"); len(got) != 2 {
		t.Fatalf("cache holds %d transactions, want 2", len(got))
	}
}
