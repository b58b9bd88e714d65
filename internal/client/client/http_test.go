package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/userdir/internal/common"
	"github.com/dmitrijs2005/userdir/internal/devserver/httpapi"
	"github.com/dmitrijs2005/userdir/internal/devserver/users"
	"github.com/dmitrijs2005/userdir/internal/logging"
)

const testKey = "test-key"

func newDevClient(t *testing.T) *HTTPClient {
	t.Helper()
	us := users.NewService(users.DefaultUsers(), 6, "secret", time.Hour)
	ts := httptest.NewServer(httpapi.NewServer("", testKey, us, logging.Discard()).Handler())
	t.Cleanup(ts.Close)

	c, err := NewHTTPClient(ts.URL+"/", testKey, 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestNewHTTPClient_RejectsBadURL(t *testing.T) {
	_, err := NewHTTPClient("ftp://example.com", "", 0)
	require.Error(t, err)

	_, err = NewHTTPClient("://nope", "", 0)
	require.Error(t, err)
}

func TestGetAll(t *testing.T) {
	c := newDevClient(t)
	ctx := context.Background()

	got, err := c.GetAll(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 6)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, "George", got[0].FirstName)
	assert.True(t, got[0].Avatar.IsDurable())

	got, err = c.GetAll(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got[0].ID)

	got, err = c.GetAll(ctx, 9)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetByID(t *testing.T) {
	c := newDevClient(t)
	ctx := context.Background()

	u, err := c.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "janet.weaver@reqres.in", u.Email)

	_, err = c.GetByID(ctx, 23)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestLogin(t *testing.T) {
	c := newDevClient(t)
	ctx := context.Background()

	p, err := c.Login(ctx, "eve.holt@reqres.in", "cityslicka")
	require.NoError(t, err)
	assert.True(t, p.External)
	assert.Equal(t, "eve.holt@reqres.in", p.Email)
	assert.NotEmpty(t, p.Token)

	_, err = c.Login(ctx, "eve.holt@reqres.in", "")
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.ErrorContains(t, err, "Missing password")

	_, err = c.Login(ctx, "peter@klaven", "x")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestPing(t *testing.T) {
	c := newDevClient(t)
	require.NoError(t, c.Ping(context.Background()))
}

func TestAPIKeyRejected(t *testing.T) {
	us := users.NewService(users.DefaultUsers(), 6, "secret", time.Hour)
	ts := httptest.NewServer(httpapi.NewServer("", testKey, us, logging.Discard()).Handler())
	defer ts.Close()

	c, err := NewHTTPClient(ts.URL, "wrong", time.Second)
	require.NoError(t, err)

	_, err = c.GetAll(context.Background(), 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnavailable)
	assert.ErrorContains(t, err, "http 401")
}

func TestServerErrorIsUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer ts.Close()

	c, err := NewHTTPClient(ts.URL, "", time.Second)
	require.NoError(t, err)

	_, err = c.GetAll(context.Background(), 1)
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestMalformedBodyIsUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": [`))
	}))
	defer ts.Close()

	c, err := NewHTTPClient(ts.URL, "", time.Second)
	require.NoError(t, err)

	_, err = c.GetAll(context.Background(), 1)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestDropsInvalidIDs(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"page":1,"data":[{"id":0},{"id":3,"email":"a@b.co"},{"id":3,"email":"dup@b.co"}]}`))
	}))
	defer ts.Close()

	c, err := NewHTTPClient(ts.URL, "", time.Second)
	require.NoError(t, err)

	got, err := c.GetAll(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a@b.co", got[0].Email)
}

func TestUnreachableIsUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c, err := NewHTTPClient(url, "", time.Second)
	require.NoError(t, err)

	_, err = c.GetAll(context.Background(), 1)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestTimeoutIsUnavailable(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	c, err := NewHTTPClient(ts.URL, "", 50*time.Millisecond)
	require.NoError(t, err)

	_, err = c.GetAll(context.Background(), 1)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestCancelledContextPassesThrough(t *testing.T) {
	c := newDevClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetAll(ctx, 1)
	require.ErrorIs(t, err, context.Canceled)
}
