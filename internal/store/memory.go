package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"SMARTTRIP_BACK-END/internal/models"
)

// Memory is an in-process Store backed by maps.
// It mirrors the Postgres semantics, including the cascade from trips to expenses.
type Memory struct {
	mu       sync.RWMutex
	trips    map[uuid.UUID]models.Trip
	expenses map[uuid.UUID]models.Expense
	users    map[uuid.UUID]models.User
	seed     bool
	now      func() time.Time
}

// MemoryOption configures a Memory store
type MemoryOption func(*Memory)

// WithFixtureSeed gives every newly created user the demo trips
func WithFixtureSeed() MemoryOption {
	return func(m *Memory) { m.seed = true }
}

// WithClock overrides the clock used for created/updated timestamps
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) { m.now = now }
}

func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		trips:    make(map[uuid.UUID]models.Trip),
		expenses: make(map[uuid.UUID]models.Expense),
		users:    make(map[uuid.UUID]models.User),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) ListTrips(ctx context.Context, userID uuid.UUID) ([]models.TripWithSpend, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.TripWithSpend, 0)
	for _, t := range m.trips {
		if t.UserID != userID {
			continue
		}
		amounts := make([]decimal.Decimal, 0)
		for _, e := range m.expenses {
			if e.TripID == t.ID {
				amounts = append(amounts, e.Amount)
			}
		}
		out = append(out, models.TripWithSpend{Trip: t, ExpenseAmounts: amounts})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.After(out[j].StartDate)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) GetTrip(ctx context.Context, userID, tripID uuid.UUID) (models.Trip, error) {
	if err := ctx.Err(); err != nil {
		return models.Trip{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.trips[tripID]
	if !ok || t.UserID != userID {
		return models.Trip{}, ErrNotFound
	}
	return t, nil
}

func (m *Memory) InsertTrip(ctx context.Context, trip models.Trip) (models.Trip, error) {
	if err := ctx.Err(); err != nil {
		return models.Trip{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if trip.ID == uuid.Nil {
		trip.ID = uuid.New()
	}
	if _, exists := m.trips[trip.ID]; exists {
		return models.Trip{}, ErrConflict
	}
	now := m.now()
	trip.CreatedAt, trip.UpdatedAt = now, now
	m.trips[trip.ID] = trip
	return trip, nil
}

func (m *Memory) UpdateTrip(ctx context.Context, trip models.Trip) (models.Trip, error) {
	if err := ctx.Err(); err != nil {
		return models.Trip{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.trips[trip.ID]
	if !ok || cur.UserID != trip.UserID {
		return models.Trip{}, ErrNotFound
	}
	trip.CreatedAt = cur.CreatedAt
	trip.UpdatedAt = m.now()
	m.trips[trip.ID] = trip
	return trip, nil
}

func (m *Memory) DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.trips[tripID]
	if !ok || t.UserID != userID {
		return nil
	}
	delete(m.trips, tripID)
	for id, e := range m.expenses {
		if e.TripID == tripID {
			delete(m.expenses, id)
		}
	}
	return nil
}

func (m *Memory) ListExpenses(ctx context.Context, userID uuid.UUID, filter ExpenseFilter) ([]models.ExpenseWithTrip, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.ExpenseWithTrip, 0)
	for _, e := range m.expenses {
		if e.UserID != userID {
			continue
		}
		if filter.TripID != nil && e.TripID != *filter.TripID {
			continue
		}
		out = append(out, models.ExpenseWithTrip{Expense: e, TripTitle: m.trips[e.TripID].Title})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *Memory) InsertExpense(ctx context.Context, expense models.Expense) (models.Expense, error) {
	if err := ctx.Err(); err != nil {
		return models.Expense{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.trips[expense.TripID]
	if !ok || t.UserID != expense.UserID {
		return models.Expense{}, ErrNotFound
	}
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	expense.CreatedAt = m.now()
	m.expenses[expense.ID] = expense
	return expense, nil
}

func (m *Memory) DeleteExpense(ctx context.Context, userID, expenseID uuid.UUID) (models.Expense, error) {
	if err := ctx.Err(); err != nil {
		return models.Expense{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.expenses[expenseID]
	if !ok || e.UserID != userID {
		return models.Expense{}, ErrNotFound
	}
	delete(m.expenses, expenseID)
	return e, nil
}

func (m *Memory) TotalBudget(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := decimal.Zero
	for _, t := range m.trips {
		if t.UserID == userID {
			total = total.Add(t.TotalBudget)
		}
	}
	return total, nil
}

func (m *Memory) TotalSpent(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := decimal.Zero
	for _, e := range m.expenses {
		if e.UserID == userID {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

func (m *Memory) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *Memory) CreateUser(ctx context.Context, user models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrConflict
		}
	}
	if _, exists := m.users[user.ID]; exists {
		return ErrConflict
	}
	m.users[user.ID] = user
	if m.seed {
		m.seedLocked(user.ID)
	}
	return nil
}

func (m *Memory) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (m *Memory) GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}

// Close is a no-op; it satisfies Store
func (m *Memory) Close() {}

// Seed loads the demo trips and expenses for the given user
func (m *Memory) Seed(userID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seedLocked(userID)
}

func (m *Memory) seedLocked(userID uuid.UUID) {
	now := m.now()
	for _, ft := range fixtureTrips() {
		trip := ft.trip
		trip.ID = uuid.New()
		trip.UserID = userID
		trip.CreatedAt, trip.UpdatedAt = now, now
		m.trips[trip.ID] = trip

		for _, e := range ft.expenses {
			e.ID = uuid.New()
			e.UserID = userID
			e.TripID = trip.ID
			e.CreatedAt = now
			m.expenses[e.ID] = e
		}
	}
}
