package storage

import (
	"context"
	"fmt"
	"log/slog"
)

type ExpenseRepository struct {
	backend Backend
	logger  *slog.Logger
}

func NewExpenseRepository(backend Backend, logger *slog.Logger) *ExpenseRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpenseRepository{backend: backend, logger: logger}
}

// Add inserts the expense and returns the engine-assigned id.
func (r *ExpenseRepository) Add(ctx context.Context, expense Expense) (int64, error) {
	if r.backend == nil {
		return 0, fmt.Errorf("add expense: %w", ErrUnavailable)
	}

	res, err := r.backend.Run(ctx, `
		INSERT INTO expenses (description, amount, category, expenseDate, month, year)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		expense.Description,
		expense.Amount,
		string(expense.Category),
		expense.ExpenseDate,
		expense.Month,
		expense.Year,
	)
	if err != nil {
		return 0, fmt.Errorf("add expense: %w", err)
	}
	return res.LastInsertID, nil
}

// GetAll returns all expenses, most recent first. Backend errors are
// logged and reported as an empty slice.
func (r *ExpenseRepository) GetAll(ctx context.Context) []Expense {
	if r.backend == nil {
		r.logger.Warn("expense list requested with no backend")
		return []Expense{}
	}

	rows, err := r.backend.Query(ctx, `SELECT * FROM expenses ORDER BY expenseDate DESC`)
	if err != nil {
		r.logger.Error("failed to list expenses", "error", err)
		return []Expense{}
	}

	expenses := make([]Expense, 0, len(rows))
	for _, row := range rows {
		expenses = append(expenses, scanExpense(row))
	}
	return expenses
}

// MonthlyTotal sums expense amounts for the period. Absent rows and
// backend failures both answer zero.
func (r *ExpenseRepository) MonthlyTotal(ctx context.Context, year int, month string) float64 {
	if r.backend == nil {
		r.logger.Warn("monthly expense total requested with no backend")
		return 0
	}

	rows, err := r.backend.Query(ctx, `
		SELECT SUM(amount) as total FROM expenses WHERE year = ? AND month = ?
	`, year, month)
	if err != nil {
		r.logger.Error("failed to sum monthly expenses", "error", err)
		return 0
	}
	if len(rows) == 0 {
		return 0
	}
	return asFloat64(rows[0]["total"])
}

func scanExpense(row Row) Expense {
	return Expense{
		ID:          asInt64(row["id"]),
		Description: asString(row["description"]),
		Amount:      asFloat64(row["amount"]),
		Category:    ExpenseCategory(asString(row["category"])),
		ExpenseDate: asString(row["expenseDate"]),
		Month:       asString(row["month"]),
		Year:        int(asInt64(row["year"])),
	}
}
