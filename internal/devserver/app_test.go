package devserver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/userdir/internal/devserver/config"
)

func TestNewApp(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	app, err := NewApp(cfg)
	require.NoError(t, err)
	require.NotNil(t, app.server)
}

func TestNewApp_BadFixtures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o600))

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.FixturesFile = path

	_, err := NewApp(cfg)
	require.Error(t, err)
}
