package storage

import (
	"context"
	"fmt"
	"log/slog"
)

// ReportRepository computes the derived monthly profit/loss view from
// the three record tables.
type ReportRepository struct {
	backend Backend
	logger  *slog.Logger
}

func NewReportRepository(backend Backend, logger *slog.Logger) *ReportRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportRepository{backend: backend, logger: logger}
}

// Monthly aggregates income, expenses and collection counts for one
// (year, month). All sums default to zero when no rows match; absence
// of data is never an error.
//
// TotalIncome deliberately does not deduplicate by customer while
// PaidCustomers does; see MonthlyReport.
func (r *ReportRepository) Monthly(ctx context.Context, year int, month string) (MonthlyReport, error) {
	if r.backend == nil {
		return MonthlyReport{}, fmt.Errorf("monthly report: %w", ErrUnavailable)
	}

	income, err := r.sumQuery(ctx, `SELECT SUM(amount) as total FROM payments WHERE year = ? AND month = ?`, year, month)
	if err != nil {
		return MonthlyReport{}, fmt.Errorf("monthly report: income: %w", err)
	}

	expenses, err := r.sumQuery(ctx, `SELECT SUM(amount) as total FROM expenses WHERE year = ? AND month = ?`, year, month)
	if err != nil {
		return MonthlyReport{}, fmt.Errorf("monthly report: expenses: %w", err)
	}

	totalCustomers, err := r.countQuery(ctx, `SELECT COUNT(*) as total FROM customers WHERE isActive = 1`)
	if err != nil {
		return MonthlyReport{}, fmt.Errorf("monthly report: customers: %w", err)
	}

	paidCustomers, err := r.countQuery(ctx, `SELECT COUNT(DISTINCT customerId) as total FROM payments WHERE year = ? AND month = ?`, year, month)
	if err != nil {
		return MonthlyReport{}, fmt.Errorf("monthly report: paid customers: %w", err)
	}

	return MonthlyReport{
		TotalIncome:    income,
		TotalExpenses:  expenses,
		NetProfit:      income - expenses,
		TotalCustomers: totalCustomers,
		PaidCustomers:  paidCustomers,
		// Not clamped: a payment from a since-deactivated customer can
		// push this negative.
		UnpaidCustomers: totalCustomers - paidCustomers,
	}, nil
}

func (r *ReportRepository) sumQuery(ctx context.Context, stmt string, args ...any) (float64, error) {
	rows, err := r.backend.Query(ctx, stmt, args...)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return asFloat64(rows[0]["total"]), nil
}

func (r *ReportRepository) countQuery(ctx context.Context, stmt string, args ...any) (int, error) {
	rows, err := r.backend.Query(ctx, stmt, args...)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return int(asInt64(rows[0]["total"])), nil
}
