package models

import "time"

// Principal is the identity behind a session. It is display-only: an
// external principal need not exist in the local directory.
type Principal struct {
	UserID    int64  `json:"user_id,omitempty"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
	Token     string `json:"token,omitempty"`
	External  bool   `json:"external,omitempty"`
}

// PrincipalFromUser snapshots the display fields of u.
func PrincipalFromUser(u User) Principal {
	return Principal{
		UserID:    u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Avatar:    u.Avatar.URL(),
	}
}

// DisplayName prefers the full name and falls back to the email.
func (p Principal) DisplayName() string {
	if p.FirstName != "" || p.LastName != "" {
		return p.FirstName + " " + p.LastName
	}
	return p.Email
}

// localIDFloor separates millisecond-timestamp ids from server-assigned ones.
// Anything at or above it was minted locally (any time after September 2001).
const localIDFloor = int64(1_000_000_000_000)

// NewLocalID derives a record id from the creation time.
func NewLocalID(now time.Time) int64 {
	return now.UnixMilli()
}

// IsLocalID reports whether id was minted by NewLocalID.
func IsLocalID(id int64) bool {
	return id >= localIDFloor
}

// CreatedAt recovers the creation time of a locally minted id.
func CreatedAt(id int64) (time.Time, bool) {
	if !IsLocalID(id) {
		return time.Time{}, false
	}
	return time.UnixMilli(id), true
}
