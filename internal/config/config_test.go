package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, DriverNative, cfg.Storage.Driver)
	require.NotEmpty(t, cfg.Storage.Path)
	require.NotEmpty(t, cfg.Storage.SnapshotPath)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	require.Equal(t, DriverNative, cfg.Storage.Driver)
}

func TestLoadTomlFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[storage]
driver = "embedded"
snapshot_path = "/tmp/store.json"

[logging]
level = "debug"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, DriverEmbedded, cfg.Storage.Driver)
	require.Equal(t, "/tmp/store.json", cfg.Storage.SnapshotPath)
	require.Equal(t, "debug", cfg.Logging.Level)
	// Unset keys keep their defaults.
	require.Equal(t, "text", cfg.Logging.Format)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[logging]
level = "debug"
`), 0o600))
	t.Setenv("GYMTRIBE_LOGGING_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "warn", cfg.Logging.Level)
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := Default()
	cfg.Storage.Driver = "cloud"
	require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestValidateRequiresPaths(t *testing.T) {
	cfg := Default()
	cfg.Storage.Path = ""
	require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = Default()
	cfg.Storage.Driver = DriverEmbedded
	cfg.Storage.SnapshotPath = ""
	require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}
