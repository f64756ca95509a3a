package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category is the fixed set of expense categories
type Category string

const (
	CategoryFood       Category = "Food"
	CategoryTravel     Category = "Travel"
	CategoryStay       Category = "Stay"
	CategoryActivities Category = "Activities"
	CategoryShopping   Category = "Shopping"
	CategoryMisc       Category = "Misc"
)

// Categories lists every category in display order
var Categories = []Category{
	CategoryFood,
	CategoryTravel,
	CategoryStay,
	CategoryActivities,
	CategoryShopping,
	CategoryMisc,
}

// ParseCategory matches case-insensitively. "Accommodation" is accepted as Stay.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "accommodation") {
		return CategoryStay, nil
	}
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// PaymentMethod is how an expense was paid
type PaymentMethod string

const (
	PaymentCash          PaymentMethod = "Cash"
	PaymentCreditCard    PaymentMethod = "Credit Card"
	PaymentDebitCard     PaymentMethod = "Debit Card"
	PaymentDigitalWallet PaymentMethod = "Digital Wallet"
)

var PaymentMethods = []PaymentMethod{
	PaymentCash,
	PaymentCreditCard,
	PaymentDebitCard,
	PaymentDigitalWallet,
}

// ParsePaymentMethod matches case-insensitively
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	s = strings.TrimSpace(s)
	for _, p := range PaymentMethods {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

var (
	ErrNegativeAmount  = errors.New("amount cannot be negative")
	ErrCategoryInvalid = errors.New("category is required and must be one of Food, Travel, Stay, Activities, Shopping, Misc")
	ErrDateRequired    = errors.New("date is required")
	ErrTripRequired    = errors.New("trip_id is required")
)

// Expense is a dated, categorized outflow attributed to one trip.
// Expenses are never updated in place.
type Expense struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	UserID        uuid.UUID       `json:"user_id" db:"user_id"`
	TripID        uuid.UUID       `json:"trip_id" db:"trip_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	Category      Category        `json:"category" db:"category"`
	Date          time.Time       `json:"date" db:"date"`
	Note          *string         `json:"note" db:"note"`
	PaymentMethod *PaymentMethod  `json:"payment_method" db:"payment_method"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

func (e Expense) Validate() error {
	switch {
	case e.TripID == uuid.Nil:
		return ErrTripRequired
	case e.Amount.IsNegative():
		return ErrNegativeAmount
	case e.Category == "":
		return ErrCategoryInvalid
	case e.Date.IsZero():
		return ErrDateRequired
	}
	if _, err := ParseCategory(string(e.Category)); err != nil {
		return ErrCategoryInvalid
	}
	return nil
}

// ExpenseWithTrip is an expense joined with its parent trip's title
type ExpenseWithTrip struct {
	Expense
	TripTitle string `json:"trip_title"`
}
