// Package users is the fixture-backed directory served by the dev server.
package users

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/userdir/internal/auth"
	"github.com/dmitrijs2005/userdir/internal/client/models"
	"github.com/dmitrijs2005/userdir/internal/common"
)

type Service struct {
	users     []models.User
	byEmail   map[string]int
	perPage   int
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewService serves users with perPage records per page. Tokens issued by
// Login are JWTs signed with secret.
func NewService(users []models.User, perPage int, secret string, ttl time.Duration) *Service {
	if perPage < 1 {
		perPage = 6
	}
	s := &Service{
		users:     users,
		byEmail:   make(map[string]int, len(users)),
		perPage:   perPage,
		jwtSecret: []byte(secret),
		tokenTTL:  ttl,
		now:       time.Now,
	}
	for i, u := range users {
		s.byEmail[u.Email] = i
	}
	return s
}

// LoadFixtures reads a JSON array of users from path.
func LoadFixtures(path string) ([]models.User, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	var users []models.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("parse fixtures %s: %w", path, err)
	}
	return users, nil
}

// PageResult mirrors the reqres list envelope.
type PageResult struct {
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	Total      int           `json:"total"`
	TotalPages int           `json:"total_pages"`
	Data       []models.User `json:"data"`
}

// Page returns the 1-based page. Out-of-range pages have empty data.
func (s *Service) Page(_ context.Context, page int) PageResult {
	if page < 1 {
		page = 1
	}
	total := len(s.users)
	res := PageResult{
		Page:       page,
		PerPage:    s.perPage,
		Total:      total,
		TotalPages: (total + s.perPage - 1) / s.perPage,
		Data:       []models.User{},
	}
	start := (page - 1) * s.perPage
	if start >= total {
		return res
	}
	end := min(start+s.perPage, total)
	res.Data = append(res.Data, s.users[start:end]...)
	return res
}

func (s *Service) Get(_ context.Context, id int64) (models.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, common.ErrNotFound
}

// Login accepts any non-empty password for a known email, as reqres does.
func (s *Service) Login(_ context.Context, email, password string) (string, error) {
	if email == "" {
		return "", common.Invalid("email", "Missing email or username")
	}
	if password == "" {
		return "", common.Invalid("password", "Missing password")
	}
	i, ok := s.byEmail[email]
	if !ok {
		return "", common.Invalid("email", "user not found")
	}

	p := models.PrincipalFromUser(s.users[i])
	token, err := auth.SignMarker(p, s.jwtSecret, s.tokenTTL, s.now())
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}
