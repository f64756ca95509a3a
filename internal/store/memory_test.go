package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SMARTTRIP_BACK-END/internal/models"
)

func newTrip(userID uuid.UUID, title string, start time.Time, budget int64) models.Trip {
	return models.Trip{
		UserID:      userID,
		Title:       title,
		Destination: "Somewhere",
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, 5),
		TotalBudget: decimal.NewFromInt(budget),
	}
}

func newExpense(userID, tripID uuid.UUID, amount int64, d time.Time) models.Expense {
	return models.Expense{
		UserID:   userID,
		TripID:   tripID,
		Amount:   decimal.NewFromInt(amount),
		Category: models.CategoryFood,
		Date:     d,
	}
}

func TestMemoryListTripsOrderAndScope(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	alice, bob := uuid.New(), uuid.New()

	older, err := m.InsertTrip(ctx, newTrip(alice, "Older", date(2024, time.June, 1), 100))
	require.NoError(t, err)
	newer, err := m.InsertTrip(ctx, newTrip(alice, "Newer", date(2024, time.September, 1), 100))
	require.NoError(t, err)
	_, err = m.InsertTrip(ctx, newTrip(bob, "Bob's", date(2024, time.July, 1), 100))
	require.NoError(t, err)

	_, err = m.InsertExpense(ctx, newExpense(alice, older.ID, 30, date(2024, time.June, 2)))
	require.NoError(t, err)
	_, err = m.InsertExpense(ctx, newExpense(alice, older.ID, 20, date(2024, time.June, 3)))
	require.NoError(t, err)

	trips, err := m.ListTrips(ctx, alice)
	require.NoError(t, err)
	require.Len(t, trips, 2)
	assert.Equal(t, newer.ID, trips[0].ID)
	assert.Equal(t, older.ID, trips[1].ID)
	assert.Empty(t, trips[0].ExpenseAmounts)
	assert.Len(t, trips[1].ExpenseAmounts, 2)
}

func TestMemoryEmptyUser(t *testing.T) {
	trips, err := NewMemory().ListTrips(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, trips)
	assert.Empty(t, trips)
}

func TestMemoryGetTripScopedToOwner(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	owner := uuid.New()
	trip, err := m.InsertTrip(ctx, newTrip(owner, "Mine", date(2024, time.May, 1), 10))
	require.NoError(t, err)

	_, err = m.GetTrip(ctx, uuid.New(), trip.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := m.GetTrip(ctx, owner, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", got.Title)
}

func TestMemoryDeleteTripCascades(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	user := uuid.New()
	trip, err := m.InsertTrip(ctx, newTrip(user, "Gone", date(2024, time.May, 1), 10))
	require.NoError(t, err)
	_, err = m.InsertExpense(ctx, newExpense(user, trip.ID, 5, date(2024, time.May, 2)))
	require.NoError(t, err)

	require.NoError(t, m.DeleteTrip(ctx, user, trip.ID))
	require.NoError(t, m.DeleteTrip(ctx, user, trip.ID), "second delete is not an error")

	trips, err := m.ListTrips(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, trips)

	expenses, err := m.ListExpenses(ctx, user, ExpenseFilter{TripID: &trip.ID})
	require.NoError(t, err)
	assert.Empty(t, expenses)

	spent, err := m.TotalSpent(ctx, user)
	require.NoError(t, err)
	assert.True(t, spent.IsZero())
}

func TestMemoryInsertExpenseRequiresOwnedTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	owner := uuid.New()
	trip, err := m.InsertTrip(ctx, newTrip(owner, "Mine", date(2024, time.May, 1), 10))
	require.NoError(t, err)

	_, err = m.InsertExpense(ctx, newExpense(uuid.New(), trip.ID, 5, date(2024, time.May, 2)))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = m.InsertExpense(ctx, newExpense(owner, uuid.New(), 5, date(2024, time.May, 2)))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryListExpensesFilterAndLimit(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	user := uuid.New()
	a, _ := m.InsertTrip(ctx, newTrip(user, "A", date(2024, time.May, 1), 10))
	b, _ := m.InsertTrip(ctx, newTrip(user, "B", date(2024, time.June, 1), 10))

	for i := 1; i <= 3; i++ {
		_, err := m.InsertExpense(ctx, newExpense(user, a.ID, int64(i), date(2024, time.May, i)))
		require.NoError(t, err)
	}
	_, err := m.InsertExpense(ctx, newExpense(user, b.ID, 9, date(2024, time.June, 2)))
	require.NoError(t, err)

	all, err := m.ListExpenses(ctx, user, ExpenseFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "B", all[0].TripTitle)
	assert.True(t, all[1].Date.After(all[2].Date))

	onlyA, err := m.ListExpenses(ctx, user, ExpenseFilter{TripID: &a.ID, Limit: 2})
	require.NoError(t, err)
	require.Len(t, onlyA, 2)
	assert.Equal(t, "A", onlyA[0].TripTitle)
	assert.True(t, onlyA[0].Amount.Equal(decimal.NewFromInt(3)))
}

func TestMemoryDeleteExpense(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	user := uuid.New()
	trip, _ := m.InsertTrip(ctx, newTrip(user, "A", date(2024, time.May, 1), 10))
	e, err := m.InsertExpense(ctx, newExpense(user, trip.ID, 4, date(2024, time.May, 1)))
	require.NoError(t, err)

	_, err = m.DeleteExpense(ctx, uuid.New(), e.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	removed, err := m.DeleteExpense(ctx, user, e.ID)
	require.NoError(t, err)
	assert.Equal(t, trip.ID, removed.TripID)

	_, err = m.DeleteExpense(ctx, user, e.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryTotals(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	user := uuid.New()
	m.Seed(user)

	budget, err := m.TotalBudget(ctx, user)
	require.NoError(t, err)
	assert.True(t, budget.Equal(decimal.NewFromInt(10000)), budget.String())

	spent, err := m.TotalSpent(ctx, user)
	require.NoError(t, err)
	assert.True(t, spent.Equal(decimal.NewFromInt(5250)), spent.String())

	other, err := m.TotalBudget(ctx, uuid.New())
	require.NoError(t, err)
	assert.True(t, other.IsZero())
}

func TestMemoryUpdateTrip(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := created
	m := NewMemory(WithClock(func() time.Time { return clock }))
	user := uuid.New()
	trip, err := m.InsertTrip(ctx, newTrip(user, "Draft", date(2024, time.May, 1), 10))
	require.NoError(t, err)

	clock = created.Add(time.Hour)
	trip.Title = "Final"
	updated, err := m.UpdateTrip(ctx, trip)
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, created, updated.CreatedAt)
	assert.Equal(t, clock, updated.UpdatedAt)

	trip.UserID = uuid.New()
	_, err = m.UpdateTrip(ctx, trip)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUsers(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(WithFixtureSeed())
	u := models.User{ID: uuid.New(), Email: "ada@example.com"}

	require.NoError(t, m.CreateUser(ctx, u))
	assert.ErrorIs(t, m.CreateUser(ctx, models.User{ID: uuid.New(), Email: "ADA@example.com"}), ErrConflict)

	got, err := m.GetUserByEmail(ctx, "Ada@Example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = m.GetUserByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	trips, err := m.ListTrips(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, trips, 3, "seeded on signup")
}

func TestMemoryHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemory().ListTrips(ctx, uuid.New())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMigrationURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@h:5432/db", migrationURL("postgres://u:p@h:5432/db"))
	assert.Equal(t, "pgx5://u:p@h/db", migrationURL("postgresql://u:p@h/db"))
	assert.Equal(t, "pgx5://x", migrationURL("pgx5://x"))
}
