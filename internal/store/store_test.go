package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/budgetwise/bwise/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "bwise.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestKVRoundTrip(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.Get("token"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get on empty store: err = %v, want ErrNotFound", err)
	}

	if err := s.Put("token", "abc123"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get("token")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "abc123" {
		t.Errorf("Get = %q, want abc123", got)
	}

	// overwrite
	if err := s.Put("token", "def456"); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, _ = s.Get("token")
	if got != "def456" {
		t.Errorf("Get after overwrite = %q, want def456", got)
	}

	if err := s.Delete("token"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get("token"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete: err = %v, want ErrNotFound", err)
	}

	// deleting again is fine
	if err := s.Delete("token"); err != nil {
		t.Errorf("Delete missing key: %v", err)
	}
}

func TestDeletePrefix(t *testing.T) {
	s := openTestStore(t)

	keys := []string{"session.personal_token", "session.group_token", "settings.app"}
	for _, k := range keys {
		if err := s.Put(k, "x"); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.DeletePrefix("session."); err != nil {
		t.Fatalf("DeletePrefix: %v", err)
	}

	for _, k := range keys[:2] {
		if _, err := s.Get(k); !errors.Is(err, ErrNotFound) {
			t.Errorf("key %q survived DeletePrefix", k)
		}
	}
	if _, err := s.Get("settings.app"); err != nil {
		t.Errorf("unrelated key removed: %v", err)
	}
}

func TestGetJSON_CorruptValueTreatedAsMissing(t *testing.T) {
	s := openTestStore(t)

	if err := s.Put("settings.notifications", "{not json"); err != nil {
		t.Fatal(err)
	}

	var v map[string]any
	if err := s.GetJSON("settings.notifications", &v); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetJSON on corrupt value: err = %v, want ErrNotFound", err)
	}
}

func TestPutJSONGetJSON(t *testing.T) {
	s := openTestStore(t)

	in := model.DefaultNotificationSettings()
	in.ExpenseThreshold = 750

	if err := s.PutJSON("settings.notifications", in); err != nil {
		t.Fatalf("PutJSON: %v", err)
	}
	var out model.NotificationSettings
	if err := s.GetJSON("settings.notifications", &out); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if out.ExpenseThreshold != 750 {
		t.Errorf("ExpenseThreshold = %v, want 750", out.ExpenseThreshold)
	}
	if !out.BudgetAlerts {
		t.Error("BudgetAlerts lost in round trip")
	}
}

func sampleTx(id int64, amount float64) model.Transaction {
	kind := model.KindDeposit
	if amount < 0 {
		kind = model.KindExpense
	}
	return model.Transaction{
		ID:          model.SyncedID(id),
		Kind:        kind,
		Amount:      amount,
		Description: "sample",
		CategoryID:  1,
		Time:        time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestTransactions_EmptyContext(t *testing.T) {
	s := openTestStore(t)

	if got := s.Transactions("personal"); len(got) != 0 {
		t.Errorf("Transactions on empty store = %d records, want 0", len(got))
	}
}

func TestReplaceAndLoadTransactions(t *testing.T) {
	s := openTestStore(t)

	txs := []model.Transaction{sampleTx(3, -42.50), sampleTx(2, 100), sampleTx(1, -7)}
	if err := s.ReplaceTransactions("personal", txs); err != nil {
		t.Fatalf("ReplaceTransactions: %v", err)
	}

	got := s.Transactions("personal")
	if len(got) != 3 {
		t.Fatalf("got %d transactions, want 3", len(got))
	}
	for i := range txs {
		if got[i].ID.String() != txs[i].ID.String() {
			t.Errorf("order broken at %d: got %s, want %s", i, got[i].ID, txs[i].ID)
		}
	}
	if got[0].Amount != -42.50 {
		t.Errorf("Amount = %v, want -42.50", got[0].Amount)
	}
	if got[0].Time.IsZero() {
		t.Error("Time not persisted")
	}
}

func TestPrependTransaction(t *testing.T) {
	s := openTestStore(t)

	if err := s.ReplaceTransactions("personal", []model.Transaction{sampleTx(1, 10), sampleTx(2, 20)}); err != nil {
		t.Fatal(err)
	}

	fresh := sampleTx(99, -5)
	if err := s.PrependTransaction("personal", fresh); err != nil {
		t.Fatalf("PrependTransaction: %v", err)
	}

	got := s.Transactions("personal")
	if len(got) != 3 {
		t.Fatalf("got %d transactions, want 3", len(got))
	}
	if got[0].ID.String() != "99" {
		t.Errorf("head = %s, want the prepended record", got[0].ID)
	}
}

func TestPrependTransaction_LocalID(t *testing.T) {
	s := openTestStore(t)

	local := model.Transaction{
		ID:          model.LocalID(),
		Kind:        model.KindExpense,
		Amount:      -12,
		Description: "offline",
	}
	if err := s.PrependTransaction("personal", local); err != nil {
		t.Fatalf("PrependTransaction: %v", err)
	}

	got := s.Transactions("personal")
	if len(got) != 1 {
		t.Fatalf("got %d transactions, want 1", len(got))
	}
	if got[0].Editable() {
		t.Error("local-id record came back editable")
	}
}

func TestContextIsolation(t *testing.T) {
	s := openTestStore(t)

	if err := s.ReplaceTransactions("personal", []model.Transaction{sampleTx(1, 10)}); err != nil {
		t.Fatal(err)
	}
	if err := s.ReplaceTransactions("group:g1", []model.Transaction{sampleTx(2, 20), sampleTx(3, 30)}); err != nil {
		t.Fatal(err)
	}

	if got := s.Transactions("personal"); len(got) != 1 {
		t.Errorf("personal context = %d records, want 1", len(got))
	}
	if got := s.Transactions("group:g1"); len(got) != 2 {
		t.Errorf("group context = %d records, want 2", len(got))
	}

	if err := s.ClearContext("group:g1"); err != nil {
		t.Fatalf("ClearContext: %v", err)
	}
	if got := s.Transactions("group:g1"); len(got) != 0 {
		t.Errorf("group context after clear = %d records, want 0", len(got))
	}
	if got := s.Transactions("personal"); len(got) != 1 {
		t.Error("ClearContext leaked into the personal context")
	}
}

func TestDeleteTransaction(t *testing.T) {
	s := openTestStore(t)

	if err := s.ReplaceTransactions("personal", []model.Transaction{sampleTx(1, 10), sampleTx(2, 20)}); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteTransaction("personal", model.SyncedID(1)); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	got := s.Transactions("personal")
	if len(got) != 1 || got[0].ID.String() != "2" {
		t.Errorf("unexpected survivors: %v", got)
	}
}

func TestClearAll(t *testing.T) {
	s := openTestStore(t)

	if err := s.Put("session.personal_token", "tok"); err != nil {
		t.Fatal(err)
	}
	if err := s.ReplaceTransactions("personal", []model.Transaction{sampleTx(1, 10)}); err != nil {
		t.Fatal(err)
	}

	if err := s.ClearAll(); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	if _, err := s.Get("session.personal_token"); !errors.Is(err, ErrNotFound) {
		t.Error("kv survived ClearAll")
	}
	if got := s.Transactions("personal"); len(got) != 0 {
		t.Error("transactions survived ClearAll")
	}
}
