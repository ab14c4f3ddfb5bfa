package storage

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestNative(t *testing.T) *NativeBackend {
	t.Helper()
	backend, err := OpenNative(filepath.Join(t.TempDir(), "gym-tracker.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	return backend
}

func openTestEmbedded(t *testing.T, store KeyValueStore) *EmbeddedBackend {
	t.Helper()
	backend, err := OpenEmbedded(store, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	return backend
}

func mustEnsureSchema(t *testing.T, backend Backend) {
	t.Helper()
	require.NoError(t, EnsureSchema(context.Background(), backend, testLogger()))
}

func tableExists(t *testing.T, backend Backend, name string) bool {
	t.Helper()
	rows, err := backend.Query(context.Background(),
		`SELECT COUNT(*) as count FROM sqlite_master WHERE type = 'table' AND name = ?`, name)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	return asInt64(rows[0]["count"]) > 0
}

func TestNativeRunAssignsSequentialIDs(t *testing.T) {
	t.Parallel()

	backend := openTestNative(t)
	mustEnsureSchema(t, backend)
	ctx := context.Background()

	first, err := backend.Run(ctx, `INSERT INTO customers (name, phone, joinDate, monthlyFee, isActive) VALUES (?, ?, ?, ?, 1)`,
		"Ada", "0700000001", "2024-01-01", 50.0)
	require.NoError(t, err)
	require.Equal(t, int64(1), first.LastInsertID)

	second, err := backend.Run(ctx, `INSERT INTO customers (name, phone, joinDate, monthlyFee, isActive) VALUES (?, ?, ?, ?, 1)`,
		"Bela", "0700000002", "2024-01-02", 60.0)
	require.NoError(t, err)
	require.Equal(t, int64(2), second.LastInsertID)
	require.Equal(t, int64(1), second.RowsChanged)
}

func TestQueryNormalizesIdentityColumns(t *testing.T) {
	t.Parallel()

	backend := openTestNative(t)
	mustEnsureSchema(t, backend)
	ctx := context.Background()

	_, err := backend.Run(ctx, `INSERT INTO customers (name, phone, joinDate, monthlyFee, isActive) VALUES (?, ?, ?, ?, 1)`,
		"Ada", "0700000001", "2024-01-01", 50.0)
	require.NoError(t, err)
	_, err = backend.Run(ctx, `INSERT INTO payments (customerId, amount, paymentDate, month, year) VALUES (?, ?, ?, ?, ?)`,
		1, 50.0, "2024-03-01", "March", 2024)
	require.NoError(t, err)

	rows, err := backend.Query(ctx, `SELECT * FROM payments`)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.IsType(t, int64(0), rows[0]["id"])
	require.IsType(t, int64(0), rows[0]["customerId"])
	require.Equal(t, int64(1), rows[0]["customerId"])
}

func TestBatchIsAtomic(t *testing.T) {
	t.Parallel()

	backend := openTestNative(t)
	mustEnsureSchema(t, backend)
	ctx := context.Background()

	err := backend.Batch(ctx, []Stmt{
		{SQL: `INSERT INTO expenses (description, amount, category, expenseDate, month, year) VALUES ('rent', 40, 'rent', '2024-03-01', 'March', 2024)`},
		{SQL: `INSERT INTO nonexistent (x) VALUES (1)`},
	})
	require.Error(t, err)

	rows, err := backend.Query(ctx, `SELECT COUNT(*) as count FROM expenses`)
	require.NoError(t, err)
	require.Equal(t, int64(0), asInt64(rows[0]["count"]))
}

func TestRowCoercions(t *testing.T) {
	t.Parallel()

	require.Equal(t, int64(7), asInt64("7"))
	require.Equal(t, int64(7), asInt64(7.0))
	require.Equal(t, int64(0), asInt64(nil))
	require.Equal(t, 50.5, asFloat64("50.5"))
	require.Equal(t, 50.0, asFloat64(int64(50)))
	require.True(t, asBool(int64(1)))
	require.False(t, asBool(int64(0)))
	require.False(t, asBool(nil))
	require.Equal(t, "x", asString([]byte("x")))
	require.Equal(t, "", asString(nil))
}
