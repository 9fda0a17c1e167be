package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/budgetwise/bwise/internal/model"
)

// fakeKV is an in-memory KV with injectable failures.
type fakeKV struct {
	data    map[string]string
	failGet bool
	failPut bool
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string]string)}
}

func (f *fakeKV) Get(key string) (string, error) {
	if f.failGet {
		return "", errors.New("disk gone")
	}
	v, ok := f.data[key]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}

func (f *fakeKV) Put(key, value string) error {
	if f.failPut {
		return errors.New("disk gone")
	}
	f.data[key] = value
	return nil
}

func (f *fakeKV) Delete(key string) error {
	delete(f.data, key)
	return nil
}

func (f *fakeKV) DeletePrefix(prefix string) error {
	for k := range f.data {
		if strings.HasPrefix(k, prefix) {
			delete(f.data, k)
		}
	}
	return nil
}

type fakeExchanger struct {
	token string
	err   error
	calls int
}

func (f *fakeExchanger) SwitchToGroup(ctx context.Context, token, groupID string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.token, nil
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func TestLoginThenToken(t *testing.T) {
	kv := newFakeKV()
	m := NewManager(kv, &fakeExchanger{}, nil)

	if err := m.Login("personal-tok", model.User{UserName: "alice"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got := m.Token(); got != "personal-tok" {
		t.Errorf("Token = %q, want personal-tok", got)
	}
	u, err := m.User()
	if err != nil {
		t.Fatalf("User: %v", err)
	}
	if u.UserName != "alice" {
		t.Errorf("User = %+v", u)
	}
}

func TestLogin_DiscardsStaleGroupContext(t *testing.T) {
	kv := newFakeKV()
	kv.data[keyGroupToken] = "old-group"
	kv.data[keyGroupID] = "g1"
	m := NewManager(kv, &fakeExchanger{}, nil)

	if err := m.Login("fresh", model.User{}); err != nil {
		t.Fatal(err)
	}
	if got := m.Token(); got != "fresh" {
		t.Errorf("Token = %q, stale group context survived login", got)
	}
}

func TestSwitchToGroupAndBack(t *testing.T) {
	kv := newFakeKV()
	exch := &fakeExchanger{token: "group-tok"}
	m := NewManager(kv, exch, nil)

	if err := m.Login("personal-tok", model.User{}); err != nil {
		t.Fatal(err)
	}
	before := m.Token()

	if err := m.SwitchToGroup(context.Background(), "g7"); err != nil {
		t.Fatalf("SwitchToGroup: %v", err)
	}
	if got := m.Token(); got != "group-tok" {
		t.Errorf("Token after switch = %q, want group-tok", got)
	}
	if got := m.ContextKey(); got != "group:g7" {
		t.Errorf("ContextKey = %q", got)
	}

	if err := m.SwitchToPersonal(); err != nil {
		t.Fatalf("SwitchToPersonal: %v", err)
	}
	if got := m.Token(); got != before {
		t.Errorf("Token after round trip = %q, want %q", got, before)
	}
	if got := m.ContextKey(); got != "personal" {
		t.Errorf("ContextKey = %q", got)
	}
}

func TestSwitchToGroup_FailureLeavesContextUntouched(t *testing.T) {
	kv := newFakeKV()
	exch := &fakeExchanger{err: errors.New("backend down")}
	m := NewManager(kv, exch, nil)

	if err := m.Login("personal-tok", model.User{}); err != nil {
		t.Fatal(err)
	}
	if err := m.SwitchToGroup(context.Background(), "g7"); err == nil {
		t.Fatal("SwitchToGroup succeeded against a failing exchanger")
	}
	if got := m.Token(); got != "personal-tok" {
		t.Errorf("Token = %q, failed switch mutated the context", got)
	}
	s := m.Current()
	if s.GroupToken != "" || s.GroupID != "" {
		t.Errorf("group fields written on failure: %+v", s)
	}
}

func TestSwitchToGroup_NotLoggedIn(t *testing.T) {
	m := NewManager(newFakeKV(), &fakeExchanger{token: "x"}, nil)
	if err := m.SwitchToGroup(context.Background(), "g1"); !errors.Is(err, ErrNoSession) {
		t.Errorf("err = %v, want ErrNoSession", err)
	}
}

func TestContextSurvivesRestart(t *testing.T) {
	kv := newFakeKV()
	exch := &fakeExchanger{token: "group-tok"}

	m1 := NewManager(kv, exch, nil)
	if err := m1.Login("personal-tok", model.User{}); err != nil {
		t.Fatal(err)
	}
	if err := m1.SwitchToGroup(context.Background(), "g7"); err != nil {
		t.Fatal(err)
	}

	// a fresh manager over the same storage sees the group context
	m2 := NewManager(kv, exch, nil)
	if got := m2.Token(); got != "group-tok" {
		t.Errorf("Token after restart = %q, want group-tok", got)
	}
}

func TestClear_Idempotent(t *testing.T) {
	kv := newFakeKV()
	m := NewManager(kv, &fakeExchanger{}, nil)

	if err := m.Login("tok", model.User{}); err != nil {
		t.Fatal(err)
	}
	if err := m.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := m.Clear(); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
	if got := m.Token(); got != "" {
		t.Errorf("Token after clear = %q, want empty", got)
	}
}

func TestToken_FailsClosedOnStorageError(t *testing.T) {
	kv := newFakeKV()
	kv.data[keyPersonalToken] = "tok"
	kv.failGet = true
	m := NewManager(kv, &fakeExchanger{}, nil)

	if got := m.Token(); got != "" {
		t.Errorf("Token under storage failure = %q, want empty", got)
	}
}

func TestToken_ExpiredGroupFallsBackToPersonal(t *testing.T) {
	kv := newFakeKV()
	m := NewManager(kv, &fakeExchanger{}, nil)

	kv.data[keyPersonalToken] = signedToken(t, time.Now().Add(time.Hour))
	kv.data[keyGroupToken] = signedToken(t, time.Now().Add(-time.Hour))
	kv.data[keyGroupID] = "g1"

	if got := m.Token(); got != kv.data[keyPersonalToken] {
		t.Errorf("expired group token still resolved")
	}
}

func TestToken_ExpiredPersonalIsEmpty(t *testing.T) {
	kv := newFakeKV()
	m := NewManager(kv, &fakeExchanger{}, nil)

	kv.data[keyPersonalToken] = signedToken(t, time.Now().Add(-time.Minute))

	if got := m.Token(); got != "" {
		t.Errorf("Token = %q, want empty for expired session", got)
	}
}

func TestToken_OpaqueTokenAccepted(t *testing.T) {
	kv := newFakeKV()
	m := NewManager(kv, &fakeExchanger{}, nil)

	// not a JWT: the server stays the authority on validity
	kv.data[keyPersonalToken] = "opaque-token"

	if got := m.Token(); got != "opaque-token" {
		t.Errorf("Token = %q, opaque token rejected", got)
	}
}

func TestDebug_ReportsWithoutValues(t *testing.T) {
	kv := newFakeKV()
	m := NewManager(kv, &fakeExchanger{}, nil)

	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	kv.data[keyPersonalToken] = signedToken(t, exp)
	kv.data[keyGroupID] = "g9"

	info := m.Debug()
	if !info.PersonalPresent || info.GroupPresent {
		t.Errorf("presence flags wrong: %+v", info)
	}
	if !info.PersonalExpiry.Equal(exp) {
		t.Errorf("PersonalExpiry = %v, want %v", info.PersonalExpiry, exp)
	}
	if info.GroupID != "g9" {
		t.Errorf("GroupID = %q", info.GroupID)
	}
}

func TestBusEvents(t *testing.T) {
	kv := newFakeKV()
	bus := NewBus()
	m := NewManager(kv, &fakeExchanger{token: "g-tok"}, bus)

	ch, cancel := bus.Subscribe()
	defer cancel()

	if err := m.Login("tok", model.User{}); err != nil {
		t.Fatal(err)
	}
	if err := m.SwitchToGroup(context.Background(), "g1"); err != nil {
		t.Fatal(err)
	}
	if err := m.Clear(); err != nil {
		t.Fatal(err)
	}

	want := []EventType{EventLogin, EventContextSwitch, EventLogout}
	for i, w := range want {
		select {
		case ev := <-ch:
			if ev.Type != w {
				t.Errorf("event %d = %s, want %s", i, ev.Type, w)
			}
			if w == EventContextSwitch && ev.GroupID != "g1" {
				t.Errorf("switch event GroupID = %q", ev.GroupID)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for event %d", i)
		}
	}
}

func TestSubscribeCancel(t *testing.T) {
	bus := NewBus()
	_, cancel := bus.Subscribe()
	cancel()

	// publishing after cancel must not panic or block
	bus.Publish(Event{Type: EventLogout})
}
