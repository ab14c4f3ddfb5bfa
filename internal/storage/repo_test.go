package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type repos struct {
	customers *CustomerRepository
	payments  *PaymentRepository
	expenses  *ExpenseRepository
	reports   *ReportRepository
}

func newTestRepos(t *testing.T) repos {
	t.Helper()
	backend := openTestNative(t)
	mustEnsureSchema(t, backend)
	logger := testLogger()
	return repos{
		customers: NewCustomerRepository(backend, logger),
		payments:  NewPaymentRepository(backend, logger),
		expenses:  NewExpenseRepository(backend, logger),
		reports:   NewReportRepository(backend, logger),
	}
}

func addTestCustomer(t *testing.T, r repos, name string, fee float64, active bool) int64 {
	t.Helper()
	id, err := r.customers.Add(context.Background(), Customer{
		Name:       name,
		Phone:      "0700000000",
		MonthlyFee: fee,
		JoinDate:   "2024-01-01T00:00:00Z",
		IsActive:   active,
	})
	require.NoError(t, err)
	return id
}

func addTestPayment(t *testing.T, r repos, customerID int64, amount float64, month string, year int) {
	t.Helper()
	_, err := r.payments.Add(context.Background(), Payment{
		CustomerID:  customerID,
		Amount:      amount,
		PaymentDate: "2024-03-05T00:00:00Z",
		Month:       month,
		Year:        year,
	})
	require.NoError(t, err)
}

func TestCustomerAddAssignsIdentity(t *testing.T) {
	t.Parallel()

	r := newTestRepos(t)
	ctx := context.Background()

	id, err := r.customers.Add(ctx, Customer{
		Name:       "Ada",
		Phone:      "0700000001",
		Email:      "ada@example.com",
		MonthlyFee: 50,
		BloodGroup: "A-",
		JoinDate:   "2024-01-01T00:00:00Z",
		Image:      "ref-1",
		IsActive:   true,
	})
	require.NoError(t, err)
	require.Positive(t, id)

	got, err := r.customers.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, id, got.ID)
	require.Equal(t, "Ada", got.Name)
	require.Equal(t, "0700000001", got.Phone)
	require.Equal(t, "ada@example.com", got.Email)
	require.Equal(t, 50.0, got.MonthlyFee)
	require.Equal(t, "A-", got.BloodGroup)
	require.Equal(t, "ref-1", got.Image)
	require.True(t, got.IsActive)
}

func TestCustomerGetMissing(t *testing.T) {
	t.Parallel()

	r := newTestRepos(t)
	_, err := r.customers.Get(context.Background(), 999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCustomerGetAllOrdersByName(t *testing.T) {
	t.Parallel()

	r := newTestRepos(t)
	addTestCustomer(t, r, "Zara", 50, true)
	addTestCustomer(t, r, "Abel", 60, true)
	addTestCustomer(t, r, "Mira", 70, false)

	customers := r.customers.GetAll(context.Background())
	require.Len(t, customers, 3)
	require.Equal(t, "Abel", customers[0].Name)
	require.Equal(t, "Mira", customers[1].Name)
	require.Equal(t, "Zara", customers[2].Name)
	require.False(t, customers[1].IsActive)
}

func TestCustomerUpdateRewritesOnlySuppliedFields(t *testing.T) {
	t.Parallel()

	r := newTestRepos(t)
	ctx := context.Background()
	id := addTestCustomer(t, r, "Ada", 50, true)

	newName := "Ada L."
	inactive := false
	require.NoError(t, r.customers.Update(ctx, id, CustomerUpdate{
		Name:     &newName,
		IsActive: &inactive,
	}))

	got, err := r.customers.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Ada L.", got.Name)
	require.False(t, got.IsActive)
	// Untouched fields survive.
	require.Equal(t, 50.0, got.MonthlyFee)
	require.Equal(t, "0700000000", got.Phone)
}

func TestCustomerUpdateEmptyIsNoOp(t *testing.T) {
	t.Parallel()

	r := newTestRepos(t)
	id := addTestCustomer(t, r, "Ada", 50, true)
	require.NoError(t, r.customers.Update(context.Background(), id, CustomerUpdate{}))
}

func TestCustomerDeleteCascadesPayments(t *testing.T) {
	t.Parallel()

	r := newTestRepos(t)
	ctx := context.Background()

	doomed := addTestCustomer(t, r, "Ada", 50, true)
	kept := addTestCustomer(t, r, "Bela", 60, true)
	addTestPayment(t, r, doomed, 50, "March", 2024)
	addTestPayment(t, r, doomed, 50, "April", 2024)
	addTestPayment(t, r, kept, 60, "March", 2024)

	require.NoError(t, r.customers.Delete(ctx, doomed))

	_, err := r.customers.Get(ctx, doomed)
	require.ErrorIs(t, err, ErrNotFound)

	for _, p := range r.payments.GetAll(ctx) {
		require.NotEqual(t, doomed, p.CustomerID)
	}
	require.Len(t, r.payments.GetAll(ctx), 1)
}

func TestCustomerPaymentsMostRecentFirst(t *testing.T) {
	t.Parallel()

	r := newTestRepos(t)
	ctx := context.Background()
	id := addTestCustomer(t, r, "Ada", 50, true)

	_, err := r.payments.Add(ctx, Payment{CustomerID: id, Amount: 50, PaymentDate: "2024-02-05T00:00:00Z", Month: "February", Year: 2024})
	require.NoError(t, err)
	_, err = r.payments.Add(ctx, Payment{CustomerID: id, Amount: 50, PaymentDate: "2024-03-05T00:00:00Z", Month: "March", Year: 2024})
	require.NoError(t, err)

	payments := r.customers.Payments(ctx, id)
	require.Len(t, payments, 2)
	require.Equal(t, "March", payments[0].Month)
	require.Equal(t, "February", payments[1].Month)
}

func TestHasPaymentForMonth(t *testing.T) {
	t.Parallel()

	r := newTestRepos(t)
	ctx := context.Background()
	id := addTestCustomer(t, r, "Ada", 50, true)
	addTestPayment(t, r, id, 50, "March", 2024)

	require.True(t, r.payments.HasPaymentForMonth(ctx, id, "March", 2024))
	require.False(t, r.payments.HasPaymentForMonth(ctx, id, "April", 2024))
	require.False(t, r.payments.HasPaymentForMonth(ctx, id+1, "March", 2024))
}

func TestHasPaymentForMonthDefensiveDefaults(t *testing.T) {
	t.Parallel()

	r := newTestRepos(t)
	ctx := context.Background()

	// Empty database.
	require.False(t, r.payments.HasPaymentForMonth(ctx, 0, "March", 2024))
	require.False(t, r.payments.HasPaymentForMonth(ctx, -1, "March", 2024))
	require.False(t, r.payments.HasPaymentForMonth(ctx, 1, "", 2024))
	require.False(t, r.payments.HasPaymentForMonth(ctx, 1, "March", 0))

	// Populated database: same answers.
	id := addTestCustomer(t, r, "Ada", 50, true)
	addTestPayment(t, r, id, 50, "March", 2024)
	require.False(t, r.payments.HasPaymentForMonth(ctx, 0, "March", 2024))
	require.False(t, r.payments.HasPaymentForMonth(ctx, id, "", 2024))
	require.False(t, r.payments.HasPaymentForMonth(ctx, id, "March", 0))
}

func TestExpenseAddAndList(t *testing.T) {
	t.Parallel()

	r := newTestRepos(t)
	ctx := context.Background()

	id, err := r.expenses.Add(ctx, Expense{
		Description: "new treadmill",
		Amount:      1200,
		Category:    CategoryEquipment,
		ExpenseDate: "2024-03-10T00:00:00Z",
		Month:       "March",
		Year:        2024,
	})
	require.NoError(t, err)
	require.Positive(t, id)

	expenses := r.expenses.GetAll(ctx)
	require.Len(t, expenses, 1)
	require.Equal(t, "new treadmill", expenses[0].Description)
	require.Equal(t, CategoryEquipment, expenses[0].Category)
	require.Equal(t, 2024, expenses[0].Year)
}

func TestExpenseMonthlyTotal(t *testing.T) {
	t.Parallel()

	r := newTestRepos(t)
	ctx := context.Background()

	for _, amount := range []float64{40, 25.5} {
		_, err := r.expenses.Add(ctx, Expense{
			Description: "utilities",
			Amount:      amount,
			Category:    CategoryUtilities,
			ExpenseDate: "2024-03-10T00:00:00Z",
			Month:       "March",
			Year:        2024,
		})
		require.NoError(t, err)
	}

	require.Equal(t, 65.5, r.expenses.MonthlyTotal(ctx, 2024, "March"))
	require.Equal(t, 0.0, r.expenses.MonthlyTotal(ctx, 2024, "April"))
}

func TestRepositoriesWithoutBackend(t *testing.T) {
	t.Parallel()

	logger := testLogger()
	customers := NewCustomerRepository(nil, logger)
	payments := NewPaymentRepository(nil, logger)
	expenses := NewExpenseRepository(nil, logger)
	ctx := context.Background()

	_, err := customers.Add(ctx, Customer{Name: "Ada", Phone: "07"})
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, customers.Delete(ctx, 1), ErrUnavailable)

	// Read paths degrade instead of failing.
	require.Empty(t, customers.GetAll(ctx))
	require.Empty(t, payments.GetAll(ctx))
	require.Empty(t, expenses.GetAll(ctx))
	require.False(t, payments.HasPaymentForMonth(ctx, 1, "March", 2024))
	require.Equal(t, 0.0, expenses.MonthlyTotal(ctx, 2024, "March"))
}
