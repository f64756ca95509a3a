package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"SMARTTRIP_BACK-END/internal/budget"
	"SMARTTRIP_BACK-END/internal/dto"
	"SMARTTRIP_BACK-END/internal/models"
	"SMARTTRIP_BACK-END/internal/store"
	"SMARTTRIP_BACK-END/internal/utils"
)

// Clock returns the current time; handlers take one so tests can pin "today"
type Clock func() time.Time

func (c Clock) today() time.Time {
	if c == nil {
		return budget.Today(time.Now())
	}
	return budget.Today(c())
}

// requireUser reads the user id set by AuthMiddleware, writing a 401 if absent
func requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
	}
	return userID, ok
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid "+name, name+" must be UUID")
		return uuid.Nil, false
	}
	return id, true
}

// statusClientClosedRequest is recorded for requests whose client went away
const statusClientClosedRequest = 499

// writeStoreError maps a data-access failure onto a response.
// A request whose client went away gets a bare 499 and no body.
func writeStoreError(w http.ResponseWriter, r *http.Request, op string, err error, notFound string) {
	logger := zerolog.Ctx(r.Context()).With().Str("op", op).Logger()
	if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
		logger = logger.With().Stringer("user_id", userID).Logger()
	}

	switch {
	case errors.Is(err, context.Canceled):
		logger.Debug().Err(err).Msg("request cancelled")
		w.WriteHeader(statusClientClosedRequest)
	case errors.Is(err, store.ErrNotFound):
		utils.WriteErrorResponse(w, http.StatusNotFound, "Not Found", notFound)
	case errors.Is(err, store.ErrConflict):
		utils.WriteErrorResponse(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn().Err(err).Msg("data source timed out")
		utils.WriteErrorResponse(w, http.StatusGatewayTimeout, "Timeout", "data source did not respond in time")
	default:
		logger.Error().Err(err).Msg("data source error")
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Database error", err.Error())
	}
}

func validationError(w http.ResponseWriter, msg string) {
	utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation error", msg)
}

// tripBudget loads a trip and its expenses and derives the authoritative budget summary
func tripBudget(ctx context.Context, ds store.DataSource, userID, tripID uuid.UUID) (models.Trip, []models.ExpenseWithTrip, budget.Summary, error) {
	trip, err := ds.GetTrip(ctx, userID, tripID)
	if err != nil {
		return models.Trip{}, nil, budget.Summary{}, err
	}
	expenses, err := ds.ListExpenses(ctx, userID, store.ExpenseFilter{TripID: &tripID})
	if err != nil {
		return models.Trip{}, nil, budget.Summary{}, err
	}
	amounts := make([]decimal.Decimal, len(expenses))
	for i, e := range expenses {
		amounts[i] = e.Amount
	}
	return trip, expenses, budget.Summarize(trip.TotalBudget, budget.SumAmounts(amounts...)), nil
}

func toBudgetSummary(s budget.Summary) dto.BudgetSummary {
	return dto.BudgetSummary{
		TotalBudget: s.Budget,
		Spent:       s.Spent,
		Remaining:   s.Remaining,
		Percentage:  s.Percentage.Round(1),
		HasBudget:   s.HasBudget,
		Severity:    string(s.Severity),
		OverBudget:  s.OverBudget,
	}
}

func toTripResponse(t models.Trip, today time.Time) dto.TripResponse {
	return dto.TripResponse{
		ID:          t.ID.String(),
		Title:       t.Title,
		Destination: t.Destination,
		StartDate:   utils.FormatDate(t.StartDate),
		EndDate:     utils.FormatDate(t.EndDate),
		TotalBudget: t.TotalBudget,
		Notes:       t.Notes,
		Status:      string(budget.TripStatus(t.StartDate, t.EndDate, today)),
		CreatedAt:   utils.FormatTimestamp(t.CreatedAt),
		UpdatedAt:   utils.FormatTimestamp(t.UpdatedAt),
	}
}

func toTripListItem(t models.TripWithSpend, today time.Time) dto.TripListItem {
	return dto.TripListItem{
		TripResponse: toTripResponse(t.Trip, today),
		Budget:       toBudgetSummary(budget.Summarize(t.TotalBudget, budget.SumAmounts(t.ExpenseAmounts...))),
		ExpenseCount: len(t.ExpenseAmounts),
	}
}

func toExpenseResponse(e models.Expense, tripTitle string) dto.ExpenseResponse {
	resp := dto.ExpenseResponse{
		ID:        e.ID.String(),
		TripID:    e.TripID.String(),
		TripTitle: tripTitle,
		Amount:    e.Amount,
		Category:  string(e.Category),
		Date:      utils.FormatDate(e.Date),
		Note:      e.Note,
		CreatedAt: utils.FormatTimestamp(e.CreatedAt),
	}
	if e.PaymentMethod != nil {
		pm := string(*e.PaymentMethod)
		resp.PaymentMethod = &pm
	}
	return resp
}

// categoryBreakdown sums spend per category, in display order, with each
// category's share of the total
func categoryBreakdown(expenses []models.ExpenseWithTrip) []dto.CategorySpend {
	sums := make(map[models.Category]decimal.Decimal, len(models.Categories))
	total := decimal.Zero
	for _, e := range expenses {
		sums[e.Category] = sums[e.Category].Add(e.Amount)
		total = total.Add(e.Amount)
	}

	out := make([]dto.CategorySpend, 0, len(models.Categories))
	for _, c := range models.Categories {
		share, _ := budget.SpendPercentage(sums[c], total)
		out = append(out, dto.CategorySpend{
			Category: string(c),
			Amount:   sums[c],
			Share:    share.Round(1),
		})
	}
	return out
}
