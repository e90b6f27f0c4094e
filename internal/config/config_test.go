package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "development", cfg.Env)
	require.True(t, cfg.IsDev())
	require.Equal(t, "127.0.0.1:3000", cfg.Addr)
	require.Equal(t, 2*time.Hour, cfg.TokenTTL)
	require.Equal(t, "data/db.json", cfg.DBFilePath)
	require.Equal(t, 512, cfg.MaxItemTextLen)
	require.Empty(t, cfg.AdminPassword)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("ADDR", ":8080")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("DB_FILE_PATH", "/var/lib/listd/db.json")

	cfg, err := Load()
	require.NoError(t, err)
	require.False(t, cfg.IsDev())
	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, 30*time.Minute, cfg.TokenTTL)
	require.Equal(t, "/var/lib/listd/db.json", cfg.DBFilePath)
}

func TestSampleUsers_DevDefaultsAndProduction(t *testing.T) {
	dev := Config{Env: "development"}
	users, err := dev.SampleUsers()
	require.NoError(t, err)
	require.NotEmpty(t, users)

	prod := Config{Env: "production"}
	users, err = prod.SampleUsers()
	require.NoError(t, err)
	require.Empty(t, users)
}

func TestSampleUsers_FromYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"- username: nabil\n  password: nabil123\n- username: carlos\n  password: carlos123\n",
	), 0o600))

	cfg := Config{Env: "production", SampleUsersFile: path}
	users, err := cfg.SampleUsers()
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "nabil", users[0].Username)
	require.Equal(t, "nabil123", users[0].Password)

	cfg.SampleUsersFile = filepath.Join(t.TempDir(), "absent.yaml")
	_, err = cfg.SampleUsers()
	require.Error(t, err)
}
