package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SMARTTRIP_BACK-END/internal/config"
	"SMARTTRIP_BACK-END/internal/dto"
	"SMARTTRIP_BACK-END/internal/routes"
	"SMARTTRIP_BACK-END/internal/store"
)

// July 20th 2024: Tokyo is active, Paris upcoming, Bali completed
var testNow = time.Date(2024, time.July, 20, 15, 30, 0, 0, time.UTC)

type testEnv struct {
	t   *testing.T
	st  *store.Memory
	cfg *config.Config
	h   http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st := store.NewMemory(store.WithClock(func() time.Time { return testNow }))
	cfg := &config.Config{
		DataSource: config.DataSourceFixture,
		JWT:        config.JWTConfig{Secret: "test-secret", AccessTokenTTL: time.Hour},
		GoogleOAuth: config.GoogleOAuthConfig{
			RedirectURL:         "http://localhost:8080/api/auth/google/callback",
			FrontendCallbackURL: "http://localhost:8081/callback",
		},
	}
	h := routes.SetupRoutes(st, cfg, zerolog.Nop(), routes.Options{Now: func() time.Time { return testNow }})
	return &testEnv{t: t, st: st, cfg: cfg, h: h}
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(e.t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)
	return rec
}

// register creates an account and returns its token and id
func (e *testEnv) register(email string) (string, uuid.UUID) {
	e.t.Helper()
	rec := e.do(http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Email: email, Password: "secret123"})
	require.Equal(e.t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decode[dto.AuthResponse](e.t, rec)
	return resp.Token, uuid.MustParse(resp.User.ID)
}

func (e *testEnv) createTrip(token string, body any) dto.TripResponseEnvelope {
	e.t.Helper()
	rec := e.do(http.MethodPost, "/api/trips", token, body)
	require.Equal(e.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[dto.TripResponseEnvelope](e.t, rec)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

var tokyo = map[string]any{
	"title":        "Summer in Tokyo",
	"destination":  "Tokyo, Japan",
	"start_date":   "2024-07-15",
	"end_date":     "2024-07-25",
	"total_budget": 3500,
}

func TestListTripsEmptyState(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("empty@example.com")

	rec := env.do(http.MethodGet, "/api/trips", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"trips":[]`)

	resp := decode[dto.TripListResponse](t, rec)
	assert.True(t, resp.Empty)
	assert.Zero(t, resp.Count)
}

func TestTripRoutesRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/trips"},
		{http.MethodPost, "/api/trips"},
		{http.MethodGet, "/api/expenses"},
		{http.MethodGet, "/api/dashboard/summary"},
		{http.MethodDelete, "/api/trips/" + uuid.NewString()},
	} {
		rec := env.do(tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestTripLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("ada@example.com")

	created := env.createTrip(token, tokyo)
	assert.Equal(t, "Summer in Tokyo", created.Trip.Title)
	assert.Equal(t, "2024-07-15", created.Trip.StartDate)
	assert.Equal(t, "active", created.Trip.Status)
	assertDecimal(t, "3500", created.Budget.Remaining)
	assertDecimal(t, "0", created.Budget.Spent)

	tripPath := "/api/trips/" + created.Trip.ID

	rec := env.do(http.MethodPost, tripPath+"/expenses", token, map[string]any{
		"amount": 2000, "category": "Travel", "date": "2024-07-15", "payment_method": "Credit Card",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(http.MethodPost, tripPath+"/expenses", token, map[string]any{
		"amount": "100.00", "category": "food", "date": "2024-07-16", "note": "Ramen",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	added := decode[dto.CreateExpenseResponse](t, rec)
	assert.Equal(t, "Food", added.Expense.Category)
	assert.Equal(t, "Summer in Tokyo", added.Expense.TripTitle)
	assertDecimal(t, "2100", added.TripBudget.Spent)
	assertDecimal(t, "1400", added.TripBudget.Remaining)
	assertDecimal(t, "60", added.TripBudget.Percentage)
	assert.Equal(t, "ok", added.TripBudget.Severity)
	assert.False(t, added.TripBudget.OverBudget)

	rec = env.do(http.MethodGet, tripPath, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[dto.TripDetailResponse](t, rec)
	assert.Equal(t, "active", detail.Trip.Status)
	require.Len(t, detail.Expenses, 2)
	assert.Equal(t, "2024-07-16", detail.Expenses[0].Date)
	assertDecimal(t, "2100", detail.Budget.Spent)
	require.Len(t, detail.Categories, 6)
	assert.Equal(t, "Food", detail.Categories[0].Category)
	assertDecimal(t, "100", detail.Categories[0].Amount)
	assertDecimal(t, "4.8", detail.Categories[0].Share)

	rec = env.do(http.MethodGet, "/api/trips", token, nil)
	list := decode[dto.TripListResponse](t, rec)
	require.Equal(t, 1, list.Count)
	assert.False(t, list.Empty)
	assert.Equal(t, 2, list.Trips[0].ExpenseCount)
	assertDecimal(t, "1400", list.Trips[0].Budget.Remaining)
}

func TestFullBudgetIsOver(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("bali@example.com")

	trip := env.createTrip(token, map[string]any{
		"title": "Beach Getaway", "destination": "Bali", "start_date": "2024-06-01", "end_date": "2024-06-10", "total_budget": "2000",
	})
	assert.Equal(t, "completed", trip.Trip.Status)

	rec := env.do(http.MethodPost, "/api/trips/"+trip.Trip.ID+"/expenses", token, map[string]any{
		"amount": 2000, "category": "Stay", "date": "2024-06-02",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode[dto.CreateExpenseResponse](t, rec)
	assertDecimal(t, "100", resp.TripBudget.Percentage)
	assertDecimal(t, "0", resp.TripBudget.Remaining)
	assert.Equal(t, "over", resp.TripBudget.Severity)
	assert.False(t, resp.TripBudget.OverBudget)

	rec = env.do(http.MethodPost, "/api/trips/"+trip.Trip.ID+"/expenses", token, map[string]any{
		"amount": "0.01", "category": "Misc", "date": "2024-06-03",
	})
	resp = decode[dto.CreateExpenseResponse](t, rec)
	assertDecimal(t, "-0.01", resp.TripBudget.Remaining)
	assert.True(t, resp.TripBudget.OverBudget)
}

func TestCreateTripValidation(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("val@example.com")

	tests := []struct {
		name string
		body any
		want string
	}{
		{"missing title", map[string]any{"destination": "Paris", "start_date": "2024-09-10", "end_date": "2024-09-20"}, "title is required"},
		{"blank destination", map[string]any{"title": "Paris", "destination": "  ", "start_date": "2024-09-10", "end_date": "2024-09-20"}, "destination is required"},
		{"missing dates", map[string]any{"title": "Paris", "destination": "Paris"}, "start_date and end_date are required"},
		{"bad date", map[string]any{"title": "Paris", "destination": "Paris", "start_date": "10/09/2024", "end_date": "2024-09-20"}, "start_date must be ISO 8601"},
		{"end before start", map[string]any{"title": "Paris", "destination": "Paris", "start_date": "2024-09-20", "end_date": "2024-09-10"}, "end_date cannot be before start_date"},
		{"negative budget", map[string]any{"title": "Paris", "destination": "Paris", "start_date": "2024-09-10", "end_date": "2024-09-20", "total_budget": -1}, "total_budget cannot be negative"},
		{"missing budget", map[string]any{"title": "Paris", "destination": "Paris", "start_date": "2024-09-10", "end_date": "2024-09-20"}, "total_budget is required"},
		{"null budget", map[string]any{"title": "Paris", "destination": "Paris", "start_date": "2024-09-10", "end_date": "2024-09-20", "total_budget": nil}, "total_budget is required"},
		{"unknown field", `{"name":"Paris"}`, "unknown field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodPost, "/api/trips", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}

	// nothing reached the store
	rec := env.do(http.MethodGet, "/api/trips", token, nil)
	assert.True(t, decode[dto.TripListResponse](t, rec).Empty)
}

func TestAddExpenseValidation(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("exp@example.com")
	trip := env.createTrip(token, tokyo)
	path := "/api/trips/" + trip.Trip.ID + "/expenses"

	tests := []struct {
		name string
		body map[string]any
		want string
	}{
		{"missing amount", map[string]any{"category": "Food", "date": "2024-07-16"}, "amount is required"},
		{"negative amount", map[string]any{"amount": -5, "category": "Food", "date": "2024-07-16"}, "amount cannot be negative"},
		{"unknown category", map[string]any{"amount": 5, "category": "Gifts", "date": "2024-07-16"}, "category is required"},
		{"missing date", map[string]any{"amount": 5, "category": "Food"}, "date is required"},
		{"bad payment method", map[string]any{"amount": 5, "category": "Food", "date": "2024-07-16", "payment_method": "Cheque"}, "payment_method must be one of"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodPost, path, token, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}

	// zero is a valid amount and counts as an expense
	rec := env.do(http.MethodPost, path, token, map[string]any{"amount": 0, "category": "Accommodation", "date": "2024-07-16"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decode[dto.CreateExpenseResponse](t, rec)
	assert.Equal(t, "Stay", resp.Expense.Category)
	assertDecimal(t, "0", resp.TripBudget.Spent)

	rec = env.do(http.MethodGet, "/api/trips/"+trip.Trip.ID, token, nil)
	assert.Len(t, decode[dto.TripDetailResponse](t, rec).Expenses, 1)
}

func TestTripNotFound(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.register("owner@example.com")
	other, _ := env.register("other@example.com")
	trip := env.createTrip(owner, tokyo)

	rec := env.do(http.MethodGet, "/api/trips/"+uuid.NewString(), owner, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Trip not found")

	rec = env.do(http.MethodGet, "/api/trips/"+trip.Trip.ID, other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodPost, "/api/trips/"+trip.Trip.ID+"/expenses", other, map[string]any{"amount": 5, "category": "Food", "date": "2024-07-16"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodGet, "/api/trips/not-a-uuid", owner, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "trip_id must be UUID")
}

func TestUpdateTrip(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("edit@example.com")
	trip := env.createTrip(token, tokyo)
	path := "/api/trips/" + trip.Trip.ID

	rec := env.do(http.MethodPost, path+"/expenses", token, map[string]any{"amount": 2100, "category": "Travel", "date": "2024-07-15"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(http.MethodPatch, path, token, map[string]any{"title": "Tokyo & Kyoto", "total_budget": 2500, "notes": "JR pass"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[dto.TripResponseEnvelope](t, rec)
	assert.Equal(t, "Tokyo & Kyoto", updated.Trip.Title)
	assert.Equal(t, "Tokyo, Japan", updated.Trip.Destination)
	require.NotNil(t, updated.Trip.Notes)
	assert.Equal(t, "JR pass", *updated.Trip.Notes)
	assertDecimal(t, "84", updated.Budget.Percentage)
	assert.Equal(t, "warning", updated.Budget.Severity)

	rec = env.do(http.MethodPut, path, token, map[string]any{"notes": ""})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[dto.TripResponseEnvelope](t, rec).Trip.Notes)

	rec = env.do(http.MethodPatch, path, token, map[string]any{"end_date": "2024-07-01"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "end_date cannot be before start_date")

	rec = env.do(http.MethodPatch, "/api/trips/"+uuid.NewString(), token, map[string]any{"title": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteTripCascades(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("del@example.com")
	trip := env.createTrip(token, tokyo)
	path := "/api/trips/" + trip.Trip.ID

	rec := env.do(http.MethodPost, path+"/expenses", token, map[string]any{"amount": 10, "category": "Food", "date": "2024-07-16"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, path, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodGet, "/api/expenses", token, nil)
	assert.Zero(t, decode[dto.ExpenseListResponse](t, rec).Count)

	rec = env.do(http.MethodGet, "/api/trips", token, nil)
	assert.True(t, decode[dto.TripListResponse](t, rec).Empty)

	// deleting again is not an error
	rec = env.do(http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListExpenses(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.register("list@example.com")
	env.st.Seed(userID)

	rec := env.do(http.MethodGet, "/api/expenses", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	all := decode[dto.ExpenseListResponse](t, rec)
	require.Equal(t, 8, all.Count)
	// newest date first: Paris in September
	assert.Equal(t, "European Adventure", all.Expenses[0].TripTitle)
	assert.Equal(t, "2024-09-10", all.Expenses[0].Date)

	rec = env.do(http.MethodGet, "/api/expenses?limit=3", token, nil)
	assert.Equal(t, 3, decode[dto.ExpenseListResponse](t, rec).Count)

	tripID := all.Expenses[0].TripID
	rec = env.do(http.MethodGet, "/api/expenses?trip_id="+tripID, token, nil)
	byTrip := decode[dto.ExpenseListResponse](t, rec)
	assert.Equal(t, 2, byTrip.Count)
	for _, e := range byTrip.Expenses {
		assert.Equal(t, tripID, e.TripID)
	}

	rec = env.do(http.MethodGet, "/api/expenses?limit=-1", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = env.do(http.MethodGet, "/api/expenses?trip_id=abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteExpense(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("rm@example.com")
	trip := env.createTrip(token, tokyo)

	rec := env.do(http.MethodPost, "/api/trips/"+trip.Trip.ID+"/expenses", token, map[string]any{"amount": 500, "category": "Shopping", "date": "2024-07-18"})
	require.Equal(t, http.StatusCreated, rec.Code)
	expense := decode[dto.CreateExpenseResponse](t, rec).Expense

	rec = env.do(http.MethodDelete, "/api/expenses/"+expense.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[dto.DeleteExpenseResponse](t, rec)
	require.NotNil(t, resp.TripID)
	assert.Equal(t, trip.Trip.ID, *resp.TripID)
	require.NotNil(t, resp.TripBudget)
	assertDecimal(t, "0", resp.TripBudget.Spent)

	rec = env.do(http.MethodDelete, "/api/expenses/"+expense.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[dto.DeleteExpenseResponse](t, rec).TripBudget)

	rec = env.do(http.MethodDelete, "/api/expenses/nope", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardSummary(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.register("dash@example.com")

	rec := env.do(http.MethodGet, "/api/dashboard/summary", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	empty := decode[dto.DashboardSummaryResponse](t, rec)
	assert.Zero(t, empty.TripCount)
	assert.False(t, empty.Budget.HasBudget)
	assert.Equal(t, "ok", empty.Budget.Severity)

	env.st.Seed(userID)
	rec = env.do(http.MethodGet, "/api/dashboard/summary", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[dto.DashboardSummaryResponse](t, rec)
	assert.Equal(t, 3, resp.TripCount)
	assertDecimal(t, "10000", resp.Budget.TotalBudget)
	assertDecimal(t, "5250", resp.Budget.Spent)
	assertDecimal(t, "4750", resp.Budget.Remaining)
	assertDecimal(t, "52.5", resp.Budget.Percentage)
	assert.True(t, resp.Budget.HasBudget)
	assert.Equal(t, "ok", resp.Budget.Severity)
}

func TestDashboardOverview(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.register("overview@example.com")
	env.st.Seed(userID)

	rec := env.do(http.MethodGet, "/api/dashboard/overview", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[dto.DashboardOverviewResponse](t, rec)

	assert.Equal(t, 1, resp.Upcoming)
	assert.Equal(t, 1, resp.Active)
	assert.Equal(t, 1, resp.Completed)
	assertDecimal(t, "5250", resp.Totals.Spent)

	byTitle := map[string]dto.TripListItem{}
	for _, tr := range resp.Trips {
		byTitle[tr.Title] = tr
	}
	assert.Equal(t, "active", byTitle["Summer in Tokyo"].Status)
	assertDecimal(t, "60", byTitle["Summer in Tokyo"].Budget.Percentage)
	assert.Equal(t, "over", byTitle["Beach Getaway"].Budget.Severity)
	assert.Equal(t, "upcoming", byTitle["European Adventure"].Status)

	amounts := map[string]string{}
	for _, c := range resp.Categories {
		amounts[c.Category] = c.Amount.String()
	}
	assert.Equal(t, map[string]string{
		"Food": "85", "Travel": "3100", "Stay": "2020", "Activities": "45", "Shopping": "0", "Misc": "0",
	}, amounts)
}
