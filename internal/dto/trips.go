package dto

import "github.com/shopspring/decimal"

// BudgetSummary carries the derived spend figures for a budget.
// Remaining is signed; a negative value means the budget is exceeded.
type BudgetSummary struct {
	TotalBudget decimal.Decimal `json:"total_budget" swaggertype:"string" example:"3500"`
	Spent       decimal.Decimal `json:"spent" swaggertype:"string" example:"2100"`
	Remaining   decimal.Decimal `json:"remaining" swaggertype:"string" example:"1400"`
	Percentage  decimal.Decimal `json:"percentage" swaggertype:"string" example:"60"`
	HasBudget   bool            `json:"has_budget"`
	Severity    string          `json:"severity" example:"ok"` // ok | warning | over
	OverBudget  bool            `json:"over_budget"`
}

// CreateTripRequest represents the payload to create a trip
type CreateTripRequest struct {
	Title       string           `json:"title" validate:"required"`
	Destination string           `json:"destination" validate:"required"`
	StartDate   string           `json:"start_date" validate:"required"` // YYYY-MM-DD or RFC3339
	EndDate     string           `json:"end_date" validate:"required"`   // YYYY-MM-DD or RFC3339
	TotalBudget *decimal.Decimal `json:"total_budget" validate:"required" swaggertype:"string"`
	Notes       *string          `json:"notes"`
}

// UpdateTripRequest represents fields allowed to update a trip
// All fields are optional; only provided ones will be updated
type UpdateTripRequest struct {
	Title       *string          `json:"title"`
	Destination *string          `json:"destination"`
	StartDate   *string          `json:"start_date"`
	EndDate     *string          `json:"end_date"`
	TotalBudget *decimal.Decimal `json:"total_budget" swaggertype:"string"`
	Notes       *string          `json:"notes"`
}

// TripResponse represents a trip object in responses
type TripResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Destination string          `json:"destination"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	TotalBudget decimal.Decimal `json:"total_budget" swaggertype:"string"`
	Notes       *string         `json:"notes"`
	Status      string          `json:"status"` // upcoming | active | completed
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

// TripResponseEnvelope is returned by create and update
type TripResponseEnvelope struct {
	Trip   TripResponse  `json:"trip"`
	Budget BudgetSummary `json:"budget"`
}

// TripListItem is one row of the trip list
type TripListItem struct {
	TripResponse
	Budget       BudgetSummary `json:"budget"`
	ExpenseCount int           `json:"expense_count"`
}

// TripListResponse envelope. Empty is true when the user has no trips.
type TripListResponse struct {
	Trips []TripListItem `json:"trips"`
	Count int            `json:"count"`
	Empty bool           `json:"empty"`
}

// CategorySpend is the amount spent in one category
type CategorySpend struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount" swaggertype:"string"`
	Share    decimal.Decimal `json:"share" swaggertype:"string"` // percent of total spend
}

// TripDetailResponse envelope
type TripDetailResponse struct {
	Trip       TripResponse      `json:"trip"`
	Budget     BudgetSummary     `json:"budget"`
	Expenses   []ExpenseResponse `json:"expenses"`
	Categories []CategorySpend   `json:"categories"`
}

// MessageResponse is a bare acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}
