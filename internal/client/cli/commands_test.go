package cli

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/userdir/internal/client/models"
)

func script(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func writePNG(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "me.png")
	data := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestCommands_RegisterLoginAndManage(t *testing.T) {
	env := newTestEnv(t, script(
		"register", "Ana", "Lee", "ana@x.io", "secret1", "secret1", "",
		"login", "ana@x.io", "secret1",
		"list",
		"search ana",
		"filter recent",
		"filter bogus",
		"show 2",
		"show 99",
		"edit 2", "Jan", "", "", "",
		"delete 3", "n",
		"delete 3", "y",
		"whoami",
		"logout",
		"exit",
	))
	ctx := context.Background()
	require.NoError(t, env.app.startup(ctx))

	env.app.Root(ctx)
	out := env.out.String()

	assert.Contains(t, out, "Account created for ana@x.io")
	assert.Contains(t, out, "Welcome, Ana Lee")
	assert.Contains(t, out, "George Bluth")
	assert.Contains(t, out, "Page 1/1, 7 user(s), filter all")
	assert.Contains(t, out, `Page 1/1, 1 user(s), filter all, search "ana"`)
	assert.Contains(t, out, `1 user(s), filter recent, search "ana"`)
	assert.Contains(t, out, "Invalid filter")
	assert.Contains(t, out, "janet.weaver@reqres.in")
	assert.Contains(t, out, "Not found")
	assert.Contains(t, out, "Updated Jan Weaver")
	assert.Contains(t, out, "Cancelled")
	assert.Contains(t, out, "Deleted user 3")
	assert.Contains(t, out, "Ana Lee <ana@x.io> via local account")
	assert.Contains(t, out, "Logged out")
	assert.Contains(t, out, "Bye!")

	st := env.app.store
	assert.Equal(t, 6, st.Len())
	jan, ok := st.Get(2)
	require.True(t, ok)
	assert.Equal(t, "Jan", jan.FirstName)
	assert.Equal(t, "Weaver", jan.LastName)
	_, ok = st.Get(3)
	assert.False(t, ok)
	assert.False(t, env.app.isLoggedIn())

	saved, err := env.snaps.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, saved, 6)
	marker, err := env.snaps.SessionMarker(ctx)
	require.NoError(t, err)
	assert.Empty(t, marker)
}

func TestCommands_CreateWithAvatar(t *testing.T) {
	png := writePNG(t)
	env := newTestEnv(t, script(
		"login-service", "", "",
		"create", "Bob", "Stone", "bob@x.io", "secret1", "secret1", png, "pending",
	))
	ctx := context.Background()
	require.NoError(t, env.app.startup(ctx))
	env.app.Root(ctx)

	out := env.out.String()
	assert.Contains(t, out, "Logged in as eve.holt@reqres.in")
	assert.Contains(t, out, "Created Bob Stone")

	bob, ok := env.app.store.Find(func(u models.User) bool { return u.Email == "bob@x.io" })
	require.True(t, ok)
	assert.True(t, models.IsLocalID(bob.ID))
	assert.Equal(t, models.StatusPending, bob.Status)
	assert.True(t, strings.HasPrefix(bob.Avatar.URL(), memBucket+"avatars/"))
	require.Len(t, env.blobs.objects, 1)
	for _, obj := range env.blobs.objects {
		assert.Equal(t, "image/png", obj.ContentType)
		assert.Equal(t, "me.png", obj.Name)
	}

	env.out.Reset()
	env.app.reader = rdr(script("avatar "+itoa(bob.ID), "edit "+itoa(bob.ID), "", "", "", "-"))
	env.app.Root(ctx)
	out = env.out.String()
	assert.Contains(t, out, "?signed")
	assert.Contains(t, out, "Updated Bob Stone")

	bob, _ = env.app.store.Get(bob.ID)
	assert.Equal(t, models.AvatarNone, bob.Avatar.Kind())
	assert.Empty(t, env.blobs.objects)
}

func TestCommands_Rejections(t *testing.T) {
	env := newTestEnv(t, script(
		"list",
		"register", "Ana", "Lee", "ana@x.io", "abc", "abc", "",
		"register", "Ana", "Lee", "ana@x.io", "secret1", "secret1", "/does/not/exist.png",
		"login", "ana@x.io", "secret1",
		"login-service", "nobody@x.io", "pw",
		"status",
	))
	ctx := context.Background()
	require.NoError(t, env.app.startup(ctx))
	env.app.Root(ctx)

	out := env.out.String()
	assert.Contains(t, out, "Please log in first")
	assert.Contains(t, out, "Invalid password: password must be at least 6 characters")
	assert.Contains(t, out, "Invalid avatar")
	assert.Contains(t, out, "Invalid email or password")
	assert.Contains(t, out, "Remote service reachable")
	assert.False(t, env.app.isLoggedIn())
	assert.Equal(t, 6, env.app.store.Len())
}

func TestCommands_StatusOffline(t *testing.T) {
	env := newTestEnv(t, script("status"))
	env.server.Close()

	env.app.Root(context.Background())
	assert.Contains(t, env.out.String(), "Service unavailable")
	assert.Equal(t, ModeOffline, env.app.Mode)
}

func TestCommands_BadArguments(t *testing.T) {
	env := newTestEnv(t, script("login-service", "", "", "show x", "page two", "delete -4", "edit 424242"))
	ctx := context.Background()
	require.NoError(t, env.app.startup(ctx))
	env.app.Root(ctx)

	out := env.out.String()
	assert.Equal(t, 2, strings.Count(out, "Invalid id: expected a positive user id"))
	assert.Contains(t, out, "Invalid page: expected a page number")
	assert.Contains(t, out, "Not found: not found: user 424242")
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
