package storage

import (
	"context"
	"fmt"
	"log/slog"
)

type PaymentRepository struct {
	backend Backend
	logger  *slog.Logger
}

func NewPaymentRepository(backend Backend, logger *slog.Logger) *PaymentRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PaymentRepository{backend: backend, logger: logger}
}

// Add inserts the payment and returns the engine-assigned id. Nothing
// prevents a second payment for the same (customer, month, year);
// reporting tolerates duplicates.
func (r *PaymentRepository) Add(ctx context.Context, payment Payment) (int64, error) {
	if r.backend == nil {
		return 0, fmt.Errorf("add payment: %w", ErrUnavailable)
	}

	res, err := r.backend.Run(ctx, `
		INSERT INTO payments (customerId, amount, paymentDate, month, year)
		VALUES (?, ?, ?, ?, ?)
	`,
		payment.CustomerID,
		payment.Amount,
		payment.PaymentDate,
		payment.Month,
		payment.Year,
	)
	if err != nil {
		return 0, fmt.Errorf("add payment: %w", err)
	}
	return res.LastInsertID, nil
}

// GetAll returns all payments, most recent first. Backend errors are
// logged and reported as an empty slice.
func (r *PaymentRepository) GetAll(ctx context.Context) []Payment {
	if r.backend == nil {
		r.logger.Warn("payment list requested with no backend")
		return []Payment{}
	}

	rows, err := r.backend.Query(ctx, `SELECT * FROM payments ORDER BY paymentDate DESC`)
	if err != nil {
		r.logger.Error("failed to list payments", "error", err)
		return []Payment{}
	}

	payments := make([]Payment, 0, len(rows))
	for _, row := range rows {
		payments = append(payments, scanPayment(row))
	}
	return payments
}

// HasPaymentForMonth reports whether at least one payment row matches
// the customer and period. It is defensive by contract: invalid input
// and backend failures both answer false, never an error, so status
// badges in the caller always render.
func (r *PaymentRepository) HasPaymentForMonth(ctx context.Context, customerID int64, month string, year int) bool {
	if customerID <= 0 {
		r.logger.Warn("payment check with invalid customer id", slog.Int64("customerId", customerID))
		return false
	}
	if month == "" || year == 0 {
		r.logger.Warn("payment check with invalid period", slog.String("month", month), slog.Int("year", year))
		return false
	}
	if r.backend == nil {
		r.logger.Warn("payment check requested with no backend")
		return false
	}

	rows, err := r.backend.Query(ctx, `
		SELECT COUNT(*) as count FROM payments
		WHERE customerId = ? AND month = ? AND year = ?
	`, customerID, month, year)
	if err != nil {
		r.logger.Error("failed to check payment for month", "error", err)
		return false
	}
	if len(rows) == 0 {
		return false
	}
	return asInt64(rows[0]["count"]) > 0
}

func scanPayment(row Row) Payment {
	return Payment{
		ID:          asInt64(row["id"]),
		CustomerID:  asInt64(row["customerId"]),
		Amount:      asFloat64(row["amount"]),
		PaymentDate: asString(row["paymentDate"]),
		Month:       asString(row["month"]),
		Year:        int(asInt64(row["year"])),
	}
}
