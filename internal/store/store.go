// Package store is the data access layer for trips, expenses and users.
//
// Two implementations satisfy DataSource: Postgres talks to the remote
// database through pgx, Memory serves an in-process fixture. The server picks
// one at startup; handlers only see the interface. Every call takes the
// request context, so a client that goes away cancels its query.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"SMARTTRIP_BACK-END/internal/models"
)

var (
	// ErrNotFound is returned when a row is absent or owned by another user
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique constraint would be violated
	ErrConflict = errors.New("already exists")
)

// ExpenseFilter narrows ListExpenses. A zero Limit means no limit.
type ExpenseFilter struct {
	TripID *uuid.UUID
	Limit  int
}

// DataSource reads and writes a single user's trips and expenses
type DataSource interface {
	// ListTrips returns the user's trips with their expense amounts, newest start date first
	ListTrips(ctx context.Context, userID uuid.UUID) ([]models.TripWithSpend, error)
	GetTrip(ctx context.Context, userID, tripID uuid.UUID) (models.Trip, error)
	InsertTrip(ctx context.Context, trip models.Trip) (models.Trip, error)
	UpdateTrip(ctx context.Context, trip models.Trip) (models.Trip, error)
	// DeleteTrip removes the trip and its expenses. Deleting a missing trip is not an error.
	DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error

	// ListExpenses returns expenses with their trip title, newest date first
	ListExpenses(ctx context.Context, userID uuid.UUID, filter ExpenseFilter) ([]models.ExpenseWithTrip, error)
	// InsertExpense fails with ErrNotFound unless the trip belongs to the expense's user
	InsertExpense(ctx context.Context, expense models.Expense) (models.Expense, error)
	// DeleteExpense returns the removed expense, or ErrNotFound if there was nothing to remove
	DeleteExpense(ctx context.Context, userID, expenseID uuid.UUID) (models.Expense, error)

	TotalBudget(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	TotalSpent(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)

	Ping(ctx context.Context) error
}

// UserStore persists accounts for the authentication handlers
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) error
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error)
}

// Store is what the server needs from a backend
type Store interface {
	DataSource
	UserStore
	Close()
}
