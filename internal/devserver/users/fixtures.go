package users

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/userdir/internal/client/models"
)

type fixture struct {
	first, last string
}

// reqres.in's public demo directory.
var defaultFixtures = []fixture{
	{"George", "Bluth"},
	{"Janet", "Weaver"},
	{"Emma", "Wong"},
	{"Eve", "Holt"},
	{"Charles", "Morris"},
	{"Tracey", "Ramos"},
	{"Michael", "Lawson"},
	{"Lindsay", "Ferguson"},
	{"Tobias", "Funke"},
	{"Byron", "Fields"},
	{"George", "Edwards"},
	{"Rachel", "Howell"},
}

// DefaultUsers returns a fresh copy of the demo directory.
func DefaultUsers() []models.User {
	out := make([]models.User, 0, len(defaultFixtures))
	for i, f := range defaultFixtures {
		id := int64(i + 1)
		out = append(out, models.User{
			ID:        id,
			Email:     fmt.Sprintf("%s.%s@reqres.in", strings.ToLower(f.first), strings.ToLower(f.last)),
			FirstName: f.first,
			LastName:  f.last,
			Avatar:    models.AvatarFromURL(fmt.Sprintf("https://reqres.in/img/faces/%d-image.jpg", id)),
			Status:    models.StatusActive,
		})
	}
	return out
}
