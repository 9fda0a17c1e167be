package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRecordID_Synced(t *testing.T) {
	id := SyncedID(42)
	n, ok := id.Synced()
	if !ok {
		t.Fatal("SyncedID not reported as synced")
	}
	if n != 42 {
		t.Errorf("server id = %d, want 42", n)
	}
	if id.String() != "42" {
		t.Errorf("String() = %q, want 42", id.String())
	}
}

func TestRecordID_Local(t *testing.T) {
	id := LocalID()
	if _, ok := id.Synced(); ok {
		t.Fatal("LocalID reported as synced")
	}
	if !strings.HasPrefix(id.String(), "local-") {
		t.Errorf("String() = %q, want local- prefix", id.String())
	}

	other := LocalID()
	if id.String() == other.String() {
		t.Error("two LocalIDs collided")
	}
}

func TestParseRecordID(t *testing.T) {
	if _, ok := ParseRecordID("1234").Synced(); !ok {
		t.Error("numeric string should parse as synced")
	}
	if _, ok := ParseRecordID("expense_3_1700000000").Synced(); ok {
		t.Error("placeholder string should not parse as synced")
	}
}

func TestRecordID_ZeroNeverSynced(t *testing.T) {
	// An absent or empty stored id must not look like server id 0, or the
	// record would slip past the update/delete guard.
	for name, id := range map[string]RecordID{
		"zero value":   {},
		"empty string": ParseRecordID(""),
		"synced zero":  SyncedID(0),
	} {
		if _, ok := id.Synced(); ok {
			t.Errorf("%s reported as synced", name)
		}
		if (Transaction{ID: id}).Editable() {
			t.Errorf("%s reported as editable", name)
		}
	}
}

func TestRecordID_JSONRoundTrip(t *testing.T) {
	tx := Transaction{ID: SyncedID(7), Kind: KindExpense, Amount: -25}
	data, err := json.Marshal(tx)
	if err != nil {
		t.Fatal(err)
	}

	var back Transaction
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if n, ok := back.ID.Synced(); !ok || n != 7 {
		t.Errorf("round-tripped id = %v, want synced 7", back.ID)
	}
}

func TestSigned(t *testing.T) {
	if got := Signed(KindExpense, 30); got != -30 {
		t.Errorf("expense Signed = %v, want -30", got)
	}
	if got := Signed(KindExpense, -30); got != -30 {
		t.Errorf("already-negative expense Signed = %v, want -30", got)
	}
	if got := Signed(KindDeposit, 60); got != 60 {
		t.Errorf("deposit Signed = %v, want 60", got)
	}
}

func TestSum(t *testing.T) {
	txs := []Transaction{
		{Amount: -25},
		{Amount: 60},
		{Amount: -20},
		{Amount: 90},
	}
	b := Sum(txs)
	if b.Income != 150 {
		t.Errorf("Income = %v, want 150", b.Income)
	}
	if b.Expense != 45 {
		t.Errorf("Expense = %v, want 45", b.Expense)
	}
	if b.Net() != 105 {
		t.Errorf("Net = %v, want 105", b.Net())
	}
}

func TestNotificationPatch_Apply(t *testing.T) {
	off := false
	threshold := 750.0

	s := DefaultNotificationSettings()
	s = NotificationPatch{
		LargeExpenseAlert: &off,
		ExpenseThreshold:  &threshold,
	}.Apply(s)

	if s.LargeExpenseAlert {
		t.Error("patch did not disable large expense alerts")
	}
	if s.ExpenseThreshold != 750 {
		t.Errorf("ExpenseThreshold = %v, want 750", s.ExpenseThreshold)
	}
	// Untouched fields keep their defaults.
	if !s.WeeklyReports || s.BalanceThreshold != 100 {
		t.Error("patch clobbered unrelated fields")
	}
}

func TestSession_ContextKey(t *testing.T) {
	s := Session{PersonalToken: "tok"}
	if s.ContextKey() != "personal" {
		t.Errorf("ContextKey = %q, want personal", s.ContextKey())
	}

	s.GroupID = "g1"
	s.GroupToken = "gtok"
	if s.ContextKey() != "group:g1" {
		t.Errorf("ContextKey = %q, want group:g1", s.ContextKey())
	}
}

func TestUser_Initials(t *testing.T) {
	tests := []struct {
		u    User
		want string
	}{
		{User{Name: "Ada Lovelace"}, "AL"},
		{User{UserName: "ada"}, "A"},
		{User{Name: "grace brewster hopper"}, "GB"},
		{User{}, "U"},
	}
	for _, tt := range tests {
		if got := tt.u.Initials(); got != tt.want {
			t.Errorf("Initials(%+v) = %q, want %q", tt.u, got, tt.want)
		}
	}
}
