package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// EmbeddedBackend holds the entire database in memory and persists a
// full byte snapshot to a key-value slot after every mutating
// statement. On open, a prior snapshot is restored when present; a
// missing or unreadable snapshot starts a fresh empty database.
//
// The snapshot write is not atomic with the in-memory mutation: a
// failure between the two leaves memory ahead of the persisted state
// until the next successful save. Saves therefore only log, they never
// fail the mutation that preceded them.
type EmbeddedBackend struct {
	sqlBackend
	store  KeyValueStore
	key    string
	logger *slog.Logger
}

func OpenEmbedded(store KeyValueStore, logger *slog.Logger) (*EmbeddedBackend, error) {
	if store == nil {
		return nil, fmt.Errorf("open embedded backend: nil key-value store")
	}
	if logger == nil {
		logger = slog.Default()
	}

	db, err := openMemoryDB()
	if err != nil {
		return nil, err
	}

	backend := &EmbeddedBackend{
		sqlBackend: sqlBackend{db: db},
		store:      store,
		key:        SnapshotKey,
		logger:     logger,
	}

	if err := backend.restore(context.Background()); err != nil {
		// Start fresh rather than refuse to open; the snapshot may be
		// from an interrupted save.
		logger.Warn("failed to restore snapshot, starting fresh", "error", err)
		_ = db.Close()
		fresh, err := openMemoryDB()
		if err != nil {
			return nil, err
		}
		backend.sqlBackend = sqlBackend{db: fresh}
	}

	return backend, nil
}

func openMemoryDB() (*sql.DB, error) {
	// A named shared-cache memory database survives as long as one
	// connection stays open; the pool is pinned to exactly one.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open embedded backend: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec(pragmaForeignKeysOn); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open embedded backend: %w", err)
	}
	return db, nil
}

func (b *EmbeddedBackend) Execute(ctx context.Context, stmt string) error {
	if err := b.sqlBackend.Execute(ctx, stmt); err != nil {
		return err
	}
	b.persist(ctx)
	return nil
}

func (b *EmbeddedBackend) Run(ctx context.Context, stmt string, args ...any) (RunResult, error) {
	res, err := b.sqlBackend.Run(ctx, stmt, args...)
	if err != nil {
		return RunResult{}, err
	}
	b.persist(ctx)
	return res, nil
}

func (b *EmbeddedBackend) Batch(ctx context.Context, stmts []Stmt) error {
	if err := b.sqlBackend.Batch(ctx, stmts); err != nil {
		return err
	}
	b.persist(ctx)
	return nil
}

// Save forces a snapshot write outside the usual after-mutation hook.
func (b *EmbeddedBackend) Save(ctx context.Context) error {
	return b.save(ctx)
}

func (b *EmbeddedBackend) persist(ctx context.Context) {
	if err := b.save(ctx); err != nil {
		b.logger.Warn("failed to persist snapshot", "error", err)
	}
}

func (b *EmbeddedBackend) save(ctx context.Context) error {
	temp := tempSnapshotPath()
	defer func() { _ = os.Remove(temp) }()

	if _, err := b.db.ExecContext(ctx, `VACUUM INTO ?`, temp); err != nil {
		return fmt.Errorf("save snapshot: vacuum: %w", err)
	}
	data, err := os.ReadFile(temp)
	if err != nil {
		return fmt.Errorf("save snapshot: read: %w", err)
	}
	if err := b.store.Set(b.key, data); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (b *EmbeddedBackend) restore(ctx context.Context) error {
	data, ok, err := b.store.Get(b.key)
	if err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}
	if !ok {
		return nil
	}

	temp := tempSnapshotPath()
	defer func() { _ = os.Remove(temp) }()
	if err := os.WriteFile(temp, data, 0o600); err != nil {
		return fmt.Errorf("restore snapshot: write temp: %w", err)
	}

	if _, err := b.db.ExecContext(ctx, `ATTACH DATABASE ? AS snap`, temp); err != nil {
		return fmt.Errorf("restore snapshot: attach: %w", err)
	}
	defer func() { _, _ = b.db.ExecContext(ctx, `DETACH DATABASE snap`) }()

	tables, err := b.sqlBackend.Query(ctx, `
		SELECT name, sql FROM snap.sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND sql IS NOT NULL
	`)
	if err != nil {
		return fmt.Errorf("restore snapshot: list tables: %w", err)
	}
	for _, table := range tables {
		name := asString(table["name"])
		ddl := asString(table["sql"])
		if _, err := b.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("restore snapshot: create %s: %w", name, err)
		}
		copyStmt := fmt.Sprintf(`INSERT INTO main.%q SELECT * FROM snap.%q`, name, name)
		if _, err := b.db.ExecContext(ctx, copyStmt); err != nil {
			return fmt.Errorf("restore snapshot: copy %s: %w", name, err)
		}
	}

	// Carry the AUTOINCREMENT high-water marks too, so an id freed by
	// a delete is not reassigned after a reload. Replaying the DDL
	// above already created main.sqlite_sequence whenever the snapshot
	// has one.
	seq, err := b.sqlBackend.Query(ctx,
		`SELECT name FROM snap.sqlite_master WHERE type = 'table' AND name = 'sqlite_sequence'`)
	if err != nil {
		return fmt.Errorf("restore snapshot: check sequence: %w", err)
	}
	if len(seq) > 0 {
		if _, err := b.db.ExecContext(ctx, `DELETE FROM main.sqlite_sequence`); err != nil {
			return fmt.Errorf("restore snapshot: reset sequence: %w", err)
		}
		if _, err := b.db.ExecContext(ctx, `INSERT INTO main.sqlite_sequence SELECT * FROM snap.sqlite_sequence`); err != nil {
			return fmt.Errorf("restore snapshot: copy sequence: %w", err)
		}
	}
	return nil
}

func tempSnapshotPath() string {
	return filepath.Join(os.TempDir(), "gymtribe-snapshot-"+uuid.NewString()+".db")
}
