package snapshots

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/userdir/internal/client/models"
	"github.com/dmitrijs2005/userdir/internal/client/repositories"
	"github.com/dmitrijs2005/userdir/internal/client/repositories/kv"
	"github.com/dmitrijs2005/userdir/internal/common"
	"github.com/dmitrijs2005/userdir/internal/logging"
)

func newRepo(t *testing.T) (*Repository, *sql.DB) {
	t.Helper()
	db, err := repositories.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db, logging.Discard()), db
}

func TestUsers_AbsentIsNil(t *testing.T) {
	r, _ := newRepo(t)

	users, err := r.Users(context.Background())
	require.NoError(t, err)
	assert.Nil(t, users)
}

func TestUsers_RoundTrip(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()

	in := []models.User{
		{ID: 1, Email: "george.bluth@reqres.in", FirstName: "George", LastName: "Bluth", Avatar: models.AvatarFromURL("https://reqres.in/img/faces/1-image.jpg"), Status: models.StatusActive},
		{ID: 1700000000000, Email: "ann@x.io", FirstName: "Ann", LastName: "Lee", Status: models.StatusPending, Password: "$2a$10$abc"},
	}
	require.NoError(t, r.SaveUsers(ctx, in))

	got, err := r.Users(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(in, got, cmp.AllowUnexported(models.Avatar{})); diff != "" {
		t.Fatalf("users mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveUsers_EmptyDoesNotOverwrite(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()

	require.NoError(t, r.SaveUsers(ctx, []models.User{{ID: 7, Email: "a@b.co"}}))
	require.NoError(t, r.SaveUsers(ctx, nil))
	require.NoError(t, r.SaveUsers(ctx, []models.User{}))

	got, err := r.Users(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(7), got[0].ID)
}

func TestUsers_MalformedIsDecodeError(t *testing.T) {
	r, db := newRepo(t)
	ctx := context.Background()

	require.NoError(t, kv.NewSQLiteRepository(db).Set(ctx, KeyUsers, []byte(`{not json`)))

	users, err := r.Users(ctx)
	require.ErrorIs(t, err, common.ErrPersistenceDecode)
	assert.Nil(t, users)
}

func TestUsers_DropsInvalidAndDuplicateIDs(t *testing.T) {
	r, db := newRepo(t)
	ctx := context.Background()

	raw := `[{"id":0,"email":"zero@x.io"},{"id":2,"email":"first@x.io"},{"id":2,"email":"second@x.io"},{"id":3,"email":"c@x.io","status":"bogus"}]`
	require.NoError(t, kv.NewSQLiteRepository(db).Set(ctx, KeyUsers, []byte(raw)))

	got, err := r.Users(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first@x.io", got[0].Email)
	assert.Equal(t, models.StatusActive, got[1].Status)
}

func TestSessionMarker_SaveLoadClear(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()

	m, err := r.SessionMarker(ctx)
	require.NoError(t, err)
	assert.Empty(t, m)

	require.NoError(t, r.SaveSessionMarker(ctx, "a.b.c"))
	m, err = r.SessionMarker(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", m)

	require.NoError(t, r.ClearSessionMarker(ctx))
	m, err = r.SessionMarker(ctx)
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestSessionSecret_GeneratedOnceAndReused(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()

	s1, err := r.SessionSecret(ctx)
	require.NoError(t, err)
	require.Len(t, s1, sessionSecretLen)

	s2, err := r.SessionSecret(ctx)
	require.NoError(t, err)
	assert.Equal(t, s1, s2)
}

func TestClosedDatabase_ReturnsErrors(t *testing.T) {
	r, db := newRepo(t)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, err := r.Users(ctx)
	require.Error(t, err)
	require.Error(t, r.SaveUsers(ctx, []models.User{{ID: 1}}))
	_, err = r.SessionSecret(ctx)
	require.Error(t, err)
}
