package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	// EnvPrefix is the prefix for environment overrides, e.g.
	// GYMTRIBE_STORAGE_DRIVER.
	EnvPrefix = "GYMTRIBE"

	DriverNative   = "native"
	DriverEmbedded = "embedded"

	defaultLogLevel  = "info"
	defaultLogFormat = "text"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Storage StorageConfig `toml:"storage"`
	Logging LoggingConfig `toml:"logging"`
}

type StorageConfig struct {
	// Driver selects the backend variant: "native" opens a database
	// file on disk, "embedded" keeps the database in memory and
	// persists byte snapshots to SnapshotPath.
	Driver string `toml:"driver"`
	// Path is the native database file.
	Path string `toml:"path"`
	// SnapshotPath is the key-value file holding embedded snapshots.
	SnapshotPath string `toml:"snapshot_path"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the configuration used when no file and no
// environment overrides are present. Data lives under ~/.gymtribe.
func Default() *Config {
	dataDir := defaultDataDir()
	return &Config{
		Storage: StorageConfig{
			Driver:       DriverNative,
			Path:         filepath.Join(dataDir, "gym-tracker.db"),
			SnapshotPath: filepath.Join(dataDir, "gym-tracker-store.json"),
		},
		Logging: LoggingConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}

// Load reads the optional TOML file at path, applies GYMTRIBE_*
// environment overrides on top, and validates the result. An empty
// path or a missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// fall through to env overrides
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("apply env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverNative, DriverEmbedded:
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.Storage.Driver)
	}
	if c.Storage.Driver == DriverNative && c.Storage.Path == "" {
		return fmt.Errorf("%w: storage path is required for the native driver", ErrInvalidConfig)
	}
	if c.Storage.Driver == DriverEmbedded && c.Storage.SnapshotPath == "" {
		return fmt.Errorf("%w: snapshot path is required for the embedded driver", ErrInvalidConfig)
	}
	return nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gymtribe"
	}
	return filepath.Join(home, ".gymtribe")
}
