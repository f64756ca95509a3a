package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SMARTTRIP_BACK-END/internal/models"
)

// openTestPostgres connects to SMARTTRIP_TEST_DATABASE_URL and migrates it.
// The test is skipped when the variable is unset.
func openTestPostgres(t *testing.T) *Postgres {
	t.Helper()
	dsn := os.Getenv("SMARTTRIP_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("SMARTTRIP_TEST_DATABASE_URL not set")
	}
	require.NoError(t, Migrate(dsn, Up))

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return NewPostgresFromPool(pool)
}

func TestPostgresRoundTrip(t *testing.T) {
	p := openTestPostgres(t)
	ctx := context.Background()

	user := models.User{ID: uuid.New(), Email: uuid.NewString() + "@example.com", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, p.CreateUser(ctx, user))
	assert.ErrorIs(t, p.CreateUser(ctx, models.User{ID: uuid.New(), Email: user.Email}), ErrConflict)

	trip, err := p.InsertTrip(ctx, models.Trip{
		UserID:      user.ID,
		Title:       "Summer in Tokyo",
		Destination: "Tokyo, Japan",
		StartDate:   date(2024, time.July, 15),
		EndDate:     date(2024, time.July, 25),
		TotalBudget: decimal.NewFromInt(3500),
	})
	require.NoError(t, err)

	cash := models.PaymentCash
	for _, amount := range []string{"2000", "100", "0"} {
		_, err := p.InsertExpense(ctx, models.Expense{
			UserID:        user.ID,
			TripID:        trip.ID,
			Amount:        decimal.RequireFromString(amount),
			Category:      models.CategoryFood,
			Date:          date(2024, time.July, 16),
			PaymentMethod: &cash,
		})
		require.NoError(t, err)
	}

	_, err = p.InsertExpense(ctx, models.Expense{UserID: uuid.New(), TripID: trip.ID, Category: models.CategoryFood, Date: date(2024, time.July, 16)})
	assert.ErrorIs(t, err, ErrNotFound)

	trips, err := p.ListTrips(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Len(t, trips[0].ExpenseAmounts, 3)

	spent, err := p.TotalSpent(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, spent.Equal(decimal.NewFromInt(2100)), spent.String())

	expenses, err := p.ListExpenses(ctx, user.ID, ExpenseFilter{TripID: &trip.ID, Limit: 2})
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	assert.Equal(t, "Summer in Tokyo", expenses[0].TripTitle)
	require.NotNil(t, expenses[0].PaymentMethod)
	assert.Equal(t, models.PaymentCash, *expenses[0].PaymentMethod)

	require.NoError(t, p.DeleteTrip(ctx, user.ID, trip.ID))
	_, err = p.GetTrip(ctx, user.ID, trip.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	expenses, err = p.ListExpenses(ctx, user.ID, ExpenseFilter{TripID: &trip.ID})
	require.NoError(t, err)
	assert.Empty(t, expenses)
}
