package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// CustomerRepository translates between Customer records and SQL rows.
// Write operations fail when the backend is absent; list reads degrade
// to an empty slice so callers never need nil-checks on read paths.
type CustomerRepository struct {
	backend Backend
	logger  *slog.Logger
}

func NewCustomerRepository(backend Backend, logger *slog.Logger) *CustomerRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &CustomerRepository{backend: backend, logger: logger}
}

// Add inserts the customer and returns the engine-assigned id.
func (r *CustomerRepository) Add(ctx context.Context, customer Customer) (int64, error) {
	if r.backend == nil {
		return 0, fmt.Errorf("add customer: %w", ErrUnavailable)
	}

	res, err := r.backend.Run(ctx, `
		INSERT INTO customers (name, phone, email, joinDate, monthlyFee, bloodGroup, image, isActive)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		customer.Name,
		customer.Phone,
		customer.Email,
		customer.JoinDate,
		customer.MonthlyFee,
		customer.BloodGroup,
		customer.Image,
		boolToInt(customer.IsActive),
	)
	if err != nil {
		return 0, fmt.Errorf("add customer: %w", err)
	}
	r.logger.Debug("customer added", slog.Int64("id", res.LastInsertID))
	return res.LastInsertID, nil
}

// GetAll returns all customers ordered by name ascending. Backend
// errors are logged and reported as an empty slice.
func (r *CustomerRepository) GetAll(ctx context.Context) []Customer {
	if r.backend == nil {
		r.logger.Warn("customer list requested with no backend")
		return []Customer{}
	}

	rows, err := r.backend.Query(ctx, `SELECT * FROM customers ORDER BY name`)
	if err != nil {
		r.logger.Error("failed to list customers", "error", err)
		return []Customer{}
	}

	customers := make([]Customer, 0, len(rows))
	for _, row := range rows {
		customers = append(customers, scanCustomer(row))
	}
	return customers
}

// Get returns one customer by id.
func (r *CustomerRepository) Get(ctx context.Context, id int64) (*Customer, error) {
	if r.backend == nil {
		return nil, fmt.Errorf("get customer: %w", ErrUnavailable)
	}

	rows, err := r.backend.Query(ctx, `SELECT * FROM customers WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	customer := scanCustomer(rows[0])
	return &customer, nil
}

// Update rewrites exactly the supplied fields of the customer. A fully
// empty update is a no-op.
func (r *CustomerRepository) Update(ctx context.Context, id int64, update CustomerUpdate) error {
	if r.backend == nil {
		return fmt.Errorf("update customer: %w", ErrUnavailable)
	}

	set := make([]string, 0, 8)
	args := make([]any, 0, 9)
	appendField := func(column string, value any) {
		set = append(set, column+" = ?")
		args = append(args, value)
	}

	if update.Name != nil {
		appendField("name", *update.Name)
	}
	if update.Phone != nil {
		appendField("phone", *update.Phone)
	}
	if update.Email != nil {
		appendField("email", *update.Email)
	}
	if update.MonthlyFee != nil {
		appendField("monthlyFee", *update.MonthlyFee)
	}
	if update.BloodGroup != nil {
		appendField("bloodGroup", *update.BloodGroup)
	}
	if update.JoinDate != nil {
		appendField("joinDate", *update.JoinDate)
	}
	if update.Image != nil {
		appendField("image", *update.Image)
	}
	if update.IsActive != nil {
		appendField("isActive", boolToInt(*update.IsActive))
	}
	if len(set) == 0 {
		return nil
	}

	stmt := "UPDATE customers SET " + strings.Join(set, ", ") + " WHERE id = ?"
	args = append(args, id)

	if _, err := r.backend.Run(ctx, stmt, args...); err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

// Delete removes the customer and all their payments. Both statements
// run in one transaction so a crash cannot leave orphaned payments.
func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	if r.backend == nil {
		return fmt.Errorf("delete customer: %w", ErrUnavailable)
	}

	err := r.backend.Batch(ctx, []Stmt{
		{SQL: `DELETE FROM payments WHERE customerId = ?`, Args: []any{id}},
		{SQL: `DELETE FROM customers WHERE id = ?`, Args: []any{id}},
	})
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	r.logger.Debug("customer deleted", slog.Int64("id", id))
	return nil
}

// Payments returns the customer's payments, most recent first.
func (r *CustomerRepository) Payments(ctx context.Context, id int64) []Payment {
	if r.backend == nil {
		r.logger.Warn("customer payments requested with no backend")
		return []Payment{}
	}

	rows, err := r.backend.Query(ctx, `SELECT * FROM payments WHERE customerId = ? ORDER BY paymentDate DESC`, id)
	if err != nil {
		r.logger.Error("failed to list customer payments", slog.Int64("id", id), "error", err)
		return []Payment{}
	}

	payments := make([]Payment, 0, len(rows))
	for _, row := range rows {
		payments = append(payments, scanPayment(row))
	}
	return payments
}

func scanCustomer(row Row) Customer {
	return Customer{
		ID:         asInt64(row["id"]),
		Name:       asString(row["name"]),
		Phone:      asString(row["phone"]),
		Email:      asString(row["email"]),
		MonthlyFee: asFloat64(row["monthlyFee"]),
		BloodGroup: asString(row["bloodGroup"]),
		JoinDate:   asString(row["joinDate"]),
		Image:      asString(row["image"]),
		IsActive:   asBool(row["isActive"]),
	}
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
