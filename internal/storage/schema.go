package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

const (
	createCustomersTable = `
		CREATE TABLE IF NOT EXISTS customers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			phone TEXT NOT NULL,
			email TEXT,
			joinDate TEXT NOT NULL,
			monthlyFee REAL NOT NULL,
			bloodGroup TEXT,
			image TEXT,
			isActive BOOLEAN DEFAULT 1
		)`

	createPaymentsTable = `
		CREATE TABLE IF NOT EXISTS payments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			customerId INTEGER NOT NULL,
			amount REAL NOT NULL,
			paymentDate TEXT NOT NULL,
			month TEXT NOT NULL,
			year INTEGER NOT NULL,
			FOREIGN KEY (customerId) REFERENCES customers (id)
		)`

	createExpensesTable = `
		CREATE TABLE IF NOT EXISTS expenses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			description TEXT NOT NULL,
			amount REAL NOT NULL,
			category TEXT NOT NULL,
			expenseDate TEXT NOT NULL,
			month TEXT NOT NULL,
			year INTEGER NOT NULL
		)`

	addBloodGroupColumn = `ALTER TABLE customers ADD COLUMN bloodGroup TEXT`
)

// EnsureSchema creates the three tables when absent and applies the
// additive bloodGroup migration. It is safe to call on every
// initialization: table creation is guarded, and the column add is
// attempted unconditionally with its expected duplicate-column failure
// swallowed. Any other migration failure is logged and swallowed too;
// schema drift must not block startup.
func EnsureSchema(ctx context.Context, backend Backend, logger *slog.Logger) error {
	if backend == nil {
		return fmt.Errorf("ensure schema: nil backend")
	}
	if logger == nil {
		logger = slog.Default()
	}

	for _, stmt := range []string{createCustomersTable, createPaymentsTable, createExpensesTable} {
		if err := backend.Execute(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: create table: %w", err)
		}
	}

	// Databases created before the bloodGroup column shipped get it
	// added in place; every later run hits the duplicate-column error.
	if err := backend.Execute(ctx, addBloodGroupColumn); err != nil {
		if isDuplicateColumn(err) {
			logger.Debug("bloodGroup column already exists")
		} else {
			logger.Warn("failed to add bloodGroup column", "error", err)
		}
	}

	return nil
}

func isDuplicateColumn(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate column name")
}
