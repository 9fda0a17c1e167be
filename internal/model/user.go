package model

import (
	"strings"
	"unicode"
)

// User is the authenticated account profile.
type User struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
}

// DisplayName prefers the full name, then the username.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.UserName != "" {
		return u.UserName
	}
	return "User"
}

// Initials returns up to two uppercase letters for the avatar badge.
func (u User) Initials() string {
	name := u.DisplayName()
	var out []rune
	for _, part := range strings.Fields(name) {
		r := []rune(part)
		out = append(out, unicode.ToUpper(r[0]))
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return string(out)
}

// Group is a shared budgeting group the user belongs to.
type Group struct {
	ID          string `json:"id"`
	Name        string `json:"group_name"`
	Code        string `json:"group_code"`
	Description string `json:"description,omitempty"`
	MemberCount int    `json:"member_count,omitempty"`
}

// Session holds the current authentication context. At most one of
// personal/group is active; an active group means group-scoped tokens are
// used for API calls.
type Session struct {
	PersonalToken string `json:"personal_token"`
	GroupToken    string `json:"group_token,omitempty"`
	GroupID       string `json:"group_id,omitempty"`
}

// GroupActive reports whether a group context is currently selected.
func (s Session) GroupActive() bool {
	return s.GroupID != "" && s.GroupToken != ""
}

// ContextKey returns the local-cache namespace for the active context.
func (s Session) ContextKey() string {
	if s.GroupActive() {
		return "group:" + s.GroupID
	}
	return "personal"
}
