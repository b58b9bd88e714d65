package view

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/userdir/internal/client/models"
)

// Filter selects records by status or recency.
type Filter int

const (
	FilterAll Filter = iota
	FilterActive
	FilterInactive
	FilterRecent
)

func (f Filter) String() string {
	switch f {
	case FilterActive:
		return "active"
	case FilterInactive:
		return "inactive"
	case FilterRecent:
		return "recent"
	default:
		return "all"
	}
}

// ParseFilter accepts the names printed by String, case-insensitively.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "active":
		return FilterActive, nil
	case "inactive":
		return FilterInactive, nil
	case "recent":
		return FilterRecent, nil
	}
	return FilterAll, fmt.Errorf("unknown filter %q", s)
}

// MatchesSearch reports whether term occurs, ignoring case, in the full
// name or the email of u. The empty term matches everything.
func MatchesSearch(u models.User, term string) bool {
	if term == "" {
		return true
	}
	t := strings.ToLower(term)
	return strings.Contains(strings.ToLower(u.FullName()), t) ||
		strings.Contains(strings.ToLower(u.Email), t)
}

// Apply runs the search and then the filter over users. Recent keeps
// locally created records younger than window, newest first; the other
// filters keep the input order.
func Apply(users []models.User, term string, f Filter, now time.Time, window time.Duration) []models.User {
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if !MatchesSearch(u, term) {
			continue
		}
		switch f {
		case FilterActive:
			if u.Status != models.StatusActive {
				continue
			}
		case FilterInactive:
			if u.Status != models.StatusInactive {
				continue
			}
		case FilterRecent:
			created, ok := models.CreatedAt(u.ID)
			if !ok || now.Sub(created) > window {
				continue
			}
		}
		out = append(out, u)
	}
	if f == FilterRecent {
		sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	}
	return out
}
