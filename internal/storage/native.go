package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const (
	pragmaForeignKeysOn = `PRAGMA foreign_keys=ON`
	pragmaBusyTimeout   = `PRAGMA busy_timeout=5000`
)

// NativeBackend is the on-device variant: a named, unencrypted,
// single-connection database file. The engine persists durably after
// each statement; there is no snapshot step.
type NativeBackend struct {
	sqlBackend
	path string
}

func OpenNative(path string) (*NativeBackend, error) {
	if path == "" {
		return nil, fmt.Errorf("open native backend: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("open native backend: create parent dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open native backend: %w", err)
	}
	// Single local writer; one connection keeps statement ordering
	// identical to call ordering.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := configureSQLite(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &NativeBackend{sqlBackend: sqlBackend{db: db}, path: path}, nil
}

func (b *NativeBackend) Path() string {
	if b == nil {
		return ""
	}
	return b.path
}

func configureSQLite(db *sql.DB) error {
	pragmas := []string{pragmaForeignKeysOn, pragmaBusyTimeout}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("configure sqlite %q: %w", stmt, err)
		}
	}
	return nil
}
