package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/userdir/internal/client/models"
	"github.com/dmitrijs2005/userdir/internal/common"
)

// maxErrorBody bounds how much of an error response is kept for messages.
const maxErrorBody = 512

type HTTPClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

type userPage struct {
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
	Data       []models.User `json:"data"`
}

type userEnvelope struct {
	Data *models.User `json:"data"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	Error string `json:"error"`
}

// NewHTTPClient builds a client for the service at baseURL. A zero timeout
// leaves requests bounded only by their context.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) GetAll(ctx context.Context, page int) ([]models.User, error) {
	if page < 1 {
		page = 1
	}
	var p userPage
	if err := c.do(ctx, http.MethodGet, "/api/users?page="+strconv.Itoa(page), nil, &p); err != nil {
		return nil, err
	}
	return validUsers(p.Data), nil
}

func (c *HTTPClient) GetByID(ctx context.Context, id int64) (models.User, error) {
	var env userEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/users/"+strconv.FormatInt(id, 10), nil, &env); err != nil {
		return models.User{}, err
	}
	if env.Data == nil || env.Data.ID <= 0 {
		return models.User{}, ErrNotFound
	}
	return *env.Data, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (models.Principal, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/api/login", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && isAuthStatus(se.code) {
			return models.Principal{}, fmt.Errorf("%w: %s", ErrUnauthorized, se.message())
		}
		return models.Principal{}, err
	}
	if resp.Token == "" {
		return models.Principal{}, fmt.Errorf("%w: empty token", ErrUnauthorized)
	}
	return models.Principal{Email: email, Token: resp.Token, External: true}, nil
}

// Ping probes the first page of users.
func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/users?page=1", nil, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(common.APIKeyHeaderName, c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.mapError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return c.mapError(&statusError{code: resp.StatusCode, body: b})
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return nil
}

func (c *HTTPClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	var se *statusError
	if errors.As(err, &se) {
		switch {
		case se.code == http.StatusNotFound:
			return fmt.Errorf("%w: %w", ErrNotFound, se)
		case se.code >= 500:
			return fmt.Errorf("%w: %w", ErrUnavailable, se)
		default:
			return se
		}
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

type statusError struct {
	code int
	body []byte
}

func (e *statusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.code, e.message())
}

// message prefers the service's {"error": "..."} text over the raw body.
func (e *statusError) message() string {
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(e.body, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	if len(e.body) == 0 {
		return http.StatusText(e.code)
	}
	return strings.TrimSpace(string(e.body))
}

func isAuthStatus(code int) bool {
	return code == http.StatusBadRequest || code == http.StatusUnauthorized || code == http.StatusForbidden
}

// validUsers drops records without a usable id and repeated ids.
func validUsers(in []models.User) []models.User {
	seen := make(map[int64]struct{}, len(in))
	out := make([]models.User, 0, len(in))
	for _, u := range in {
		if u.ID <= 0 {
			continue
		}
		if _, ok := seen[u.ID]; ok {
			continue
		}
		seen[u.ID] = struct{}{}
		out = append(out, u)
	}
	return out
}
