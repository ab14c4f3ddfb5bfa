package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Samsoorsamander/Gym-tribe-tracker/internal/config"
	"github.com/Samsoorsamander/Gym-tribe-tracker/internal/storage"
)

// Service is the single entry point for UI collaborators. It owns the
// one backend instance, selects the variant exactly once at
// initialization, and exposes every repository and report operation.
// No other component holds a direct backend reference.
type Service struct {
	cfg      *config.Config
	logger   *slog.Logger
	validate *validator.Validate

	mu        sync.Mutex
	state     State
	backend   storage.Backend
	customers *storage.CustomerRepository
	payments  *storage.PaymentRepository
	expenses  *storage.ExpenseRepository
	reports   *storage.ReportRepository
}

func New(cfg *config.Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:      cfg,
		logger:   logger,
		validate: validator.New(),
		state:    StateUninitialized,
	}
}

// State reports the current lifecycle state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// InitializeDatabase opens the configured backend and ensures the
// schema. It is idempotent: a second call while ready is a no-op. A
// failing call leaves the service in StateFailed and returns the
// error; a later call may retry.
func (s *Service) InitializeDatabase(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateReady {
		s.logger.Debug("database already initialized")
		return nil
	}
	s.state = StateInitializing

	backend, err := s.openBackend()
	if err != nil {
		s.state = StateFailed
		return fmt.Errorf("initialize database: %w", err)
	}

	if err := storage.EnsureSchema(ctx, backend, s.logger); err != nil {
		_ = backend.Close()
		s.state = StateFailed
		return fmt.Errorf("initialize database: %w", err)
	}

	s.backend = backend
	s.customers = storage.NewCustomerRepository(backend, s.logger)
	s.payments = storage.NewPaymentRepository(backend, s.logger)
	s.expenses = storage.NewExpenseRepository(backend, s.logger)
	s.reports = storage.NewReportRepository(backend, s.logger)
	s.state = StateReady

	s.logger.Info("database initialized", slog.String("driver", s.cfg.Storage.Driver))
	return nil
}

func (s *Service) openBackend() (storage.Backend, error) {
	switch s.cfg.Storage.Driver {
	case config.DriverEmbedded:
		store := storage.NewFileStore(s.cfg.Storage.SnapshotPath)
		return storage.OpenEmbedded(store, s.logger)
	default:
		return storage.OpenNative(s.cfg.Storage.Path)
	}
}

// Close releases the backend. The service returns to uninitialized
// and may be initialized again.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.backend == nil {
		return nil
	}
	err := s.backend.Close()
	s.backend = nil
	s.customers = nil
	s.payments = nil
	s.expenses = nil
	s.reports = nil
	s.state = StateUninitialized
	return err
}

func (s *Service) ready() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return ErrNotInitialized
	}
	return nil
}

// Customer operations

func (s *Service) AddCustomer(ctx context.Context, req AddCustomerRequest) (int64, error) {
	if err := s.ready(); err != nil {
		return 0, fmt.Errorf("add customer: %w", err)
	}
	if err := s.validate.Struct(req); err != nil {
		return 0, fmt.Errorf("add customer: %w: %v", ErrValidation, err)
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	joinDate := req.JoinDate
	if joinDate == "" {
		joinDate = nowISO()
	}

	return s.customers.Add(ctx, storage.Customer{
		Name:       req.Name,
		Phone:      req.Phone,
		Email:      req.Email,
		MonthlyFee: req.MonthlyFee,
		BloodGroup: req.BloodGroup,
		JoinDate:   joinDate,
		Image:      req.Image,
		IsActive:   active,
	})
}

// Customers lists all customers ordered by name. Before successful
// initialization it degrades to an empty slice so read-side callers
// never need nil-checks.
func (s *Service) Customers(ctx context.Context) []storage.Customer {
	if err := s.ready(); err != nil {
		s.logger.Warn("customer list requested before initialization")
		return []storage.Customer{}
	}
	return s.customers.GetAll(ctx)
}

func (s *Service) Customer(ctx context.Context, id int64) (*storage.Customer, error) {
	if err := s.ready(); err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return s.customers.Get(ctx, id)
}

func (s *Service) UpdateCustomer(ctx context.Context, id int64, update storage.CustomerUpdate) error {
	if err := s.ready(); err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if id <= 0 {
		return fmt.Errorf("update customer: %w: id must be positive", ErrValidation)
	}
	return s.customers.Update(ctx, id, update)
}

func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	if err := s.ready(); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if id <= 0 {
		return fmt.Errorf("delete customer: %w: id must be positive", ErrValidation)
	}
	return s.customers.Delete(ctx, id)
}

func (s *Service) CustomerPayments(ctx context.Context, id int64) []storage.Payment {
	if err := s.ready(); err != nil {
		s.logger.Warn("customer payments requested before initialization")
		return []storage.Payment{}
	}
	return s.customers.Payments(ctx, id)
}

// Payment operations

func (s *Service) AddPayment(ctx context.Context, req AddPaymentRequest) (int64, error) {
	if err := s.ready(); err != nil {
		return 0, fmt.Errorf("add payment: %w", err)
	}
	if err := s.validate.Struct(req); err != nil {
		return 0, fmt.Errorf("add payment: %w: %v", ErrValidation, err)
	}

	paymentDate := req.PaymentDate
	if paymentDate == "" {
		paymentDate = nowISO()
	}

	return s.payments.Add(ctx, storage.Payment{
		CustomerID:  req.CustomerID,
		Amount:      req.Amount,
		PaymentDate: paymentDate,
		Month:       req.Month,
		Year:        req.Year,
	})
}

func (s *Service) Payments(ctx context.Context) []storage.Payment {
	if err := s.ready(); err != nil {
		s.logger.Warn("payment list requested before initialization")
		return []storage.Payment{}
	}
	return s.payments.GetAll(ctx)
}

// HasPaymentForMonth never fails outward: invalid input, an
// uninitialized service, and backend errors all answer false.
func (s *Service) HasPaymentForMonth(ctx context.Context, customerID int64, month string, year int) bool {
	if err := s.ready(); err != nil {
		s.logger.Warn("payment check requested before initialization")
		return false
	}
	return s.payments.HasPaymentForMonth(ctx, customerID, month, year)
}

// Expense operations

func (s *Service) AddExpense(ctx context.Context, req AddExpenseRequest) (int64, error) {
	if err := s.ready(); err != nil {
		return 0, fmt.Errorf("add expense: %w", err)
	}
	if err := s.validate.Struct(req); err != nil {
		return 0, fmt.Errorf("add expense: %w: %v", ErrValidation, err)
	}

	expenseDate := req.ExpenseDate
	if expenseDate == "" {
		expenseDate = nowISO()
	}
	month, year := req.Month, req.Year
	if month == "" || year == 0 {
		derivedMonth, derivedYear, err := monthYearOf(expenseDate)
		if err != nil {
			return 0, fmt.Errorf("add expense: %w: %v", ErrValidation, err)
		}
		if month == "" {
			month = derivedMonth
		}
		if year == 0 {
			year = derivedYear
		}
	}

	return s.expenses.Add(ctx, storage.Expense{
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		ExpenseDate: expenseDate,
		Month:       month,
		Year:        year,
	})
}

func (s *Service) Expenses(ctx context.Context) []storage.Expense {
	if err := s.ready(); err != nil {
		s.logger.Warn("expense list requested before initialization")
		return []storage.Expense{}
	}
	return s.expenses.GetAll(ctx)
}

// MonthlyExpenses answers zero before initialization and on backend
// failure.
func (s *Service) MonthlyExpenses(ctx context.Context, year int, month string) float64 {
	if err := s.ready(); err != nil {
		s.logger.Warn("monthly expenses requested before initialization")
		return 0
	}
	return s.expenses.MonthlyTotal(ctx, year, month)
}

// Reports

func (s *Service) MonthlyReport(ctx context.Context, year int, month string) (storage.MonthlyReport, error) {
	if err := s.ready(); err != nil {
		return storage.MonthlyReport{}, fmt.Errorf("monthly report: %w", err)
	}
	return s.reports.Monthly(ctx, year, month)
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// monthYearOf derives the redundant month/year columns from an
// ISO-8601 date string, accepting a bare date as well.
func monthYearOf(raw string) (string, int, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Month().String(), t.Year(), nil
		}
	}
	return "", 0, fmt.Errorf("unrecognized date %q", raw)
}
