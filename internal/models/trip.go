package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrTitleRequired       = errors.New("title is required")
	ErrDestinationRequired = errors.New("destination is required")
	ErrDatesRequired       = errors.New("start_date and end_date are required")
	ErrEndBeforeStart      = errors.New("end_date cannot be before start_date")
	ErrNegativeBudget      = errors.New("total_budget cannot be negative")
	ErrBudgetRequired      = errors.New("total_budget is required")
)

// Trip represents a travel trip owned by a single user
type Trip struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	UserID      uuid.UUID       `json:"user_id" db:"user_id"`
	Title       string          `json:"title" db:"title"`
	Destination string          `json:"destination" db:"destination"`
	StartDate   time.Time       `json:"start_date" db:"start_date"`
	EndDate     time.Time       `json:"end_date" db:"end_date"`
	TotalBudget decimal.Decimal `json:"total_budget" db:"total_budget"`
	Notes       *string         `json:"notes" db:"notes"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// Normalize trims free-text fields and drops empty notes
func (t *Trip) Normalize() {
	t.Title = strings.TrimSpace(t.Title)
	t.Destination = strings.TrimSpace(t.Destination)
	if t.Notes != nil {
		n := strings.TrimSpace(*t.Notes)
		if n == "" {
			t.Notes = nil
		} else {
			t.Notes = &n
		}
	}
}

// Validate checks the fields a trip cannot be stored without
func (t Trip) Validate() error {
	switch {
	case t.Title == "":
		return ErrTitleRequired
	case t.Destination == "":
		return ErrDestinationRequired
	case t.StartDate.IsZero() || t.EndDate.IsZero():
		return ErrDatesRequired
	case t.EndDate.Before(t.StartDate):
		return ErrEndBeforeStart
	case t.TotalBudget.IsNegative():
		return ErrNegativeBudget
	}
	return nil
}

// TripWithSpend is a trip joined with the amounts of its expenses
type TripWithSpend struct {
	Trip
	ExpenseAmounts []decimal.Decimal `json:"expense_amounts"`
}
