package storage

import "errors"

var (
	ErrNotFound = errors.New("storage: not found")
	// ErrUnavailable is returned by write paths when the backend
	// handle is unexpectedly absent. Read paths degrade to empty
	// results instead.
	ErrUnavailable = errors.New("storage: backend unavailable")
)

// Customer is a gym member. A zero ID means the record has not been
// persisted yet; the id is engine-assigned on insert and stable after.
type Customer struct {
	ID         int64
	Name       string
	Phone      string
	Email      string
	MonthlyFee float64
	BloodGroup string
	JoinDate   string
	Image      string
	IsActive   bool
}

// CustomerUpdate carries a partial update; nil fields are left
// untouched and exactly the supplied fields are rewritten.
type CustomerUpdate struct {
	Name       *string
	Phone      *string
	Email      *string
	MonthlyFee *float64
	BloodGroup *string
	JoinDate   *string
	Image      *string
	IsActive   *bool
}

// Payment records one monthly fee collection. Month is a full month
// name ("January") and is stored alongside Year for aggregation; the
// schema does not enforce one payment per (customer, month, year).
type Payment struct {
	ID          int64
	CustomerID  int64
	Amount      float64
	PaymentDate string
	Month       string
	Year        int
}

type ExpenseCategory string

const (
	CategoryRent        ExpenseCategory = "rent"
	CategoryUtilities   ExpenseCategory = "utilities"
	CategoryEquipment   ExpenseCategory = "equipment"
	CategoryMaintenance ExpenseCategory = "maintenance"
	CategoryStaff       ExpenseCategory = "staff"
	CategoryOther       ExpenseCategory = "other"
)

// Categories lists the valid expense categories in display order.
func Categories() []ExpenseCategory {
	return []ExpenseCategory{
		CategoryRent,
		CategoryUtilities,
		CategoryEquipment,
		CategoryMaintenance,
		CategoryStaff,
		CategoryOther,
	}
}

func (c ExpenseCategory) Valid() bool {
	switch c {
	case CategoryRent, CategoryUtilities, CategoryEquipment, CategoryMaintenance, CategoryStaff, CategoryOther:
		return true
	}
	return false
}

// Expense is an operating cost. Month and Year are derived from
// ExpenseDate at creation time and stored redundantly so the monthly
// report can aggregate without date parsing.
type Expense struct {
	ID          int64
	Description string
	Amount      float64
	Category    ExpenseCategory
	ExpenseDate string
	Month       string
	Year        int
}

// MonthlyReport is the derived profit/loss view for one (year, month).
//
// TotalIncome is a raw sum over payment rows: duplicate payments for
// the same customer and period all count, while PaidCustomers counts
// distinct customers. The two can therefore disagree; that matches
// the product's historical behavior and is preserved deliberately.
type MonthlyReport struct {
	TotalIncome     float64
	TotalExpenses   float64
	NetProfit       float64
	TotalCustomers  int
	PaidCustomers   int
	UnpaidCustomers int
}
