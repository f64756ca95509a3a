package dto

import "github.com/shopspring/decimal"

// CreateExpenseRequest is the inline add-expense form
type CreateExpenseRequest struct {
	Amount        *decimal.Decimal `json:"amount" swaggertype:"string" example:"45.50"`
	Category      string           `json:"category" example:"Food"`
	Date          string           `json:"date" example:"2024-07-16"`
	Note          *string          `json:"note"`
	PaymentMethod *string          `json:"payment_method" example:"Cash"`
}

// ExpenseResponse represents an expense in responses
type ExpenseResponse struct {
	ID            string          `json:"id"`
	TripID        string          `json:"trip_id"`
	TripTitle     string          `json:"trip_title,omitempty"`
	Amount        decimal.Decimal `json:"amount" swaggertype:"string"`
	Category      string          `json:"category"`
	Date          string          `json:"date"`
	Note          *string         `json:"note"`
	PaymentMethod *string         `json:"payment_method"`
	CreatedAt     string          `json:"created_at"`
}

// CreateExpenseResponse carries the new expense and the trip's refreshed budget
type CreateExpenseResponse struct {
	Expense    ExpenseResponse `json:"expense"`
	TripBudget BudgetSummary   `json:"trip_budget"`
}

// ExpenseListResponse envelope
type ExpenseListResponse struct {
	Expenses []ExpenseResponse `json:"expenses"`
	Count    int               `json:"count"`
}

// DeleteExpenseResponse carries the refreshed trip budget when something was removed
type DeleteExpenseResponse struct {
	Message    string         `json:"message"`
	TripID     *string        `json:"trip_id,omitempty"`
	TripBudget *BudgetSummary `json:"trip_budget,omitempty"`
}
