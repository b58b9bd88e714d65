// Package models defines the client-side user directory types.
package models

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// Status is the lifecycle state of a directory account.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusPending  Status = "pending"
)

// ParseStatus maps s onto a known Status. Empty and unknown values mean active.
func ParseStatus(s string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusInactive:
		return StatusInactive
	case StatusPending:
		return StatusPending
	default:
		return StatusActive
	}
}

func (s *Status) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		// null or a non-string: fall back to the default.
		*s = StatusActive
		return nil
	}
	*s = ParseStatus(raw)
	return nil
}

// User is one directory record.
//
// The JSON names match the remote user service so that remote pages and the
// local snapshot share one encoding. Password holds the local credential
// (a bcrypt hash) and is empty for accounts that cannot log in locally.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    Avatar `json:"avatar"`
	Status    Status `json:"status"`
	Password  string `json:"password,omitempty"`
}

// FullName is "First Last", the string the directory search matches against.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Initials returns the upper-cased first letters of the first and last names.
func (u User) Initials() string {
	var b strings.Builder
	for _, s := range []string{strings.TrimSpace(u.FirstName), strings.TrimSpace(u.LastName)} {
		if r, _ := utf8.DecodeRuneInString(s); r != utf8.RuneError {
			b.WriteRune(r)
		}
	}
	return strings.ToUpper(b.String())
}

// HasCredential reports whether the account can log in with a password.
func (u User) HasCredential() bool {
	return u.Password != ""
}

// UserPatch carries the fields an edit may change. Nil fields are left alone.
type UserPatch struct {
	FirstName *string
	LastName  *string
	Email     *string
	Avatar    *Avatar
}

// Apply writes the non-nil fields of p onto u.
func (p UserPatch) Apply(u *User) {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
}

// UnmarshalJSON defaults a missing status to active.
func (u *User) UnmarshalJSON(b []byte) error {
	type plain User
	p := plain{Status: StatusActive}
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*u = User(p)
	return nil
}
