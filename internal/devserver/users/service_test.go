package users

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/userdir/internal/auth"
	"github.com/dmitrijs2005/userdir/internal/common"
)

func newService() *Service {
	return NewService(DefaultUsers(), 6, "secret", time.Hour)
}

func TestDefaultUsers(t *testing.T) {
	u := DefaultUsers()
	require.Len(t, u, 12)
	assert.Equal(t, int64(4), u[3].ID)
	assert.Equal(t, "eve.holt@reqres.in", u[3].Email)
	assert.Equal(t, "https://reqres.in/img/faces/4-image.jpg", u[3].Avatar.URL())
}

func TestPage(t *testing.T) {
	s := newService()
	ctx := context.Background()

	p1 := s.Page(ctx, 1)
	assert.Equal(t, 12, p1.Total)
	assert.Equal(t, 2, p1.TotalPages)
	require.Len(t, p1.Data, 6)
	assert.Equal(t, int64(1), p1.Data[0].ID)

	p2 := s.Page(ctx, 2)
	require.Len(t, p2.Data, 6)
	assert.Equal(t, int64(7), p2.Data[0].ID)

	p3 := s.Page(ctx, 3)
	assert.NotNil(t, p3.Data)
	assert.Empty(t, p3.Data)

	assert.Equal(t, 1, s.Page(ctx, -4).Page)
}

func TestGet(t *testing.T) {
	s := newService()

	u, err := s.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Janet", u.FirstName)

	_, err = s.Get(context.Background(), 23)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestLogin(t *testing.T) {
	s := newService()
	ctx := context.Background()

	token, err := s.Login(ctx, "eve.holt@reqres.in", "cityslicka")
	require.NoError(t, err)

	p, err := auth.ParseMarker(token, []byte("secret"))
	require.NoError(t, err)
	assert.Equal(t, int64(4), p.UserID)
	assert.Equal(t, "eve.holt@reqres.in", p.Email)

	_, err = s.Login(ctx, "eve.holt@reqres.in", "")
	require.ErrorIs(t, err, common.ErrValidation)
	assert.ErrorContains(t, err, "Missing password")

	_, err = s.Login(ctx, "nobody@reqres.in", "x")
	assert.ErrorContains(t, err, "user not found")
}

func TestLoadFixtures(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "users.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":5,"email":"a@b.co","first_name":"A","last_name":"B"}]`), 0o600))

	users, err := LoadFixtures(path)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, int64(5), users[0].ID)

	require.NoError(t, os.WriteFile(path, []byte(`nope`), 0o600))
	_, err = LoadFixtures(path)
	require.Error(t, err)

	_, err = LoadFixtures(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}
