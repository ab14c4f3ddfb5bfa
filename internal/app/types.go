package app

import (
	"errors"

	"github.com/Samsoorsamander/Gym-tribe-tracker/internal/storage"
)

var (
	// ErrNotInitialized is returned by every mutating operation called
	// before InitializeDatabase has completed successfully.
	ErrNotInitialized = errors.New("app: database not initialized")
	ErrValidation     = errors.New("app: validation failed")
)

// State tracks the facade's initialization lifecycle.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateInitializing  State = "initializing"
	StateReady         State = "ready"
	// StateFailed marks a failed initialization attempt. The caller is
	// expected to surface it as a terminal error; another
	// InitializeDatabase call may still retry.
	StateFailed State = "failed"
)

type AddCustomerRequest struct {
	Name       string  `validate:"required"`
	Phone      string  `validate:"required"`
	Email      string  `validate:"omitempty,email"`
	MonthlyFee float64 `validate:"gte=0"`
	BloodGroup string
	// JoinDate defaults to the current time in RFC 3339 when empty.
	JoinDate string
	Image    string
	// Active defaults to true when nil.
	Active *bool
}

type AddPaymentRequest struct {
	CustomerID  int64   `validate:"gt=0"`
	Amount      float64 `validate:"gte=0"`
	PaymentDate string
	Month       string `validate:"required"`
	Year        int    `validate:"gt=0"`
}

type AddExpenseRequest struct {
	Description string                  `validate:"required"`
	Amount      float64                 `validate:"gte=0"`
	Category    storage.ExpenseCategory `validate:"required,oneof=rent utilities equipment maintenance staff other"`
	// ExpenseDate defaults to the current time in RFC 3339 when
	// empty. Month and Year are derived from it when left zero.
	ExpenseDate string
	Month       string
	Year        int
}
