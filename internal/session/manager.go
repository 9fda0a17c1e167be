// Package session owns the authentication context: which bearer token
// outgoing requests use, and switching between the personal and group
// scopes.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/budgetwise/bwise/internal/model"
)

// ErrNoSession is returned when no personal token is stored.
var ErrNoSession = errors.New("session: not logged in")

const (
	keyPersonalToken = "session.personal_token"
	keyGroupToken    = "session.group_token"
	keyGroupID       = "session.group_id"
	keyUser          = "session.user"
)

// KV is the storage surface the manager persists through.
type KV interface {
	Get(key string) (string, error)
	Put(key, value string) error
	Delete(key string) error
	DeletePrefix(prefix string) error
}

// TokenExchanger swaps a personal token for a group-scoped one.
type TokenExchanger interface {
	SwitchToGroup(ctx context.Context, token, groupID string) (string, error)
}

// Manager resolves the current token and handles context switches. All
// state lives in the KV store so a restart resumes the same context.
type Manager struct {
	kv   KV
	exch TokenExchanger
	bus  *Bus
	now  func() time.Time
}

// NewManager wires a manager to its storage, token exchanger, and event
// bus. The bus may be nil when nobody listens.
func NewManager(kv KV, exch TokenExchanger, bus *Bus) *Manager {
	return &Manager{kv: kv, exch: exch, bus: bus, now: time.Now}
}

// Login stores the personal token and profile, making this the active
// session. Any previous group context is discarded.
func (m *Manager) Login(token string, user model.User) error {
	if token == "" {
		return errors.New("session: empty token")
	}
	if err := m.kv.Put(keyPersonalToken, token); err != nil {
		return fmt.Errorf("storing token: %w", err)
	}
	_ = m.kv.Delete(keyGroupToken)
	_ = m.kv.Delete(keyGroupID)

	if data, err := json.Marshal(user); err == nil {
		_ = m.kv.Put(keyUser, string(data))
	}

	m.publish(Event{Type: EventLogin})
	return nil
}

// Current returns the stored session. Storage errors read as absence.
func (m *Manager) Current() model.Session {
	var s model.Session
	s.PersonalToken, _ = m.kv.Get(keyPersonalToken)
	s.GroupToken, _ = m.kv.Get(keyGroupToken)
	s.GroupID, _ = m.kv.Get(keyGroupID)
	return s
}

// Token resolves the bearer token for outgoing requests: the group token
// when a group context is active and its token hasn't expired, otherwise
// the personal token. Empty means no usable session; callers treat that
// as "log in again". Storage failures fail closed to empty.
func (m *Manager) Token() string {
	s := m.Current()
	if s.GroupActive() && !m.expired(s.GroupToken) {
		return s.GroupToken
	}
	if s.PersonalToken == "" || m.expired(s.PersonalToken) {
		return ""
	}
	return s.PersonalToken
}

// ContextKey returns the cache namespace for the active context.
func (m *Manager) ContextKey() string {
	return m.Current().ContextKey()
}

// User returns the stored profile.
func (m *Manager) User() (model.User, error) {
	raw, err := m.kv.Get(keyUser)
	if err != nil {
		return model.User{}, ErrNoSession
	}
	var u model.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return model.User{}, ErrNoSession
	}
	return u, nil
}

// SaveUser replaces the stored profile, used after profile edits.
func (m *Manager) SaveUser(u model.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return m.kv.Put(keyUser, string(data))
}

// SwitchToGroup exchanges the personal token for a group-scoped token and
// makes the group the active context. On any failure the stored context is
// left untouched.
func (m *Manager) SwitchToGroup(ctx context.Context, groupID string) error {
	personal, err := m.kv.Get(keyPersonalToken)
	if err != nil || personal == "" {
		return ErrNoSession
	}

	groupToken, err := m.exch.SwitchToGroup(ctx, personal, groupID)
	if err != nil {
		return fmt.Errorf("switching to group %s: %w", groupID, err)
	}

	if err := m.kv.Put(keyGroupToken, groupToken); err != nil {
		return fmt.Errorf("storing group token: %w", err)
	}
	if err := m.kv.Put(keyGroupID, groupID); err != nil {
		// roll back the half-written context
		_ = m.kv.Delete(keyGroupToken)
		return fmt.Errorf("storing group id: %w", err)
	}

	m.publish(Event{Type: EventContextSwitch, GroupID: groupID})
	return nil
}

// SwitchToPersonal drops the group context. The personal token was never
// discarded, so no network call is needed.
func (m *Manager) SwitchToPersonal() error {
	if err := m.kv.Delete(keyGroupToken); err != nil {
		return fmt.Errorf("clearing group token: %w", err)
	}
	if err := m.kv.Delete(keyGroupID); err != nil {
		return fmt.Errorf("clearing group id: %w", err)
	}
	m.publish(Event{Type: EventContextSwitch})
	return nil
}

// Clear removes the whole session. Safe to call when already logged out.
func (m *Manager) Clear() error {
	if err := m.kv.DeletePrefix("session."); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	m.publish(Event{Type: EventLogout})
	return nil
}

// DebugInfo describes stored token state without exposing token values.
type DebugInfo struct {
	PersonalPresent bool
	PersonalExpiry  time.Time
	GroupPresent    bool
	GroupExpiry     time.Time
	GroupID         string
}

// Debug reports what is stored, for the status command. Read-only.
func (m *Manager) Debug() DebugInfo {
	s := m.Current()
	info := DebugInfo{
		PersonalPresent: s.PersonalToken != "",
		GroupPresent:    s.GroupToken != "",
		GroupID:         s.GroupID,
	}
	info.PersonalExpiry = m.expiry(s.PersonalToken)
	info.GroupExpiry = m.expiry(s.GroupToken)
	return info
}

func (m *Manager) publish(ev Event) {
	if m.bus != nil {
		m.bus.Publish(ev)
	}
}

// expiry returns the token's exp claim, zero when absent or unreadable.
// The signature is not checked: this is client-side introspection only,
// the server remains the authority.
func (m *Manager) expiry(token string) time.Time {
	if token == "" {
		return time.Time{}
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// expired reports whether the token carries an exp claim in the past.
// Tokens without a readable exp are passed through for the server to judge.
func (m *Manager) expired(token string) bool {
	exp := m.expiry(token)
	return !exp.IsZero() && exp.Before(m.now())
}
