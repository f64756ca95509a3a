package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"SMARTTRIP_BACK-END/internal/dto"
	"SMARTTRIP_BACK-END/internal/store"
	"SMARTTRIP_BACK-END/internal/utils"
)

// maxExpenseLimit caps the limit query parameter
const maxExpenseLimit = 500

// ExpensesHandler manages the account-wide expense list
type ExpensesHandler struct {
	ds store.DataSource
}

// NewExpensesHandler creates a new ExpensesHandler
func NewExpensesHandler(ds store.DataSource) *ExpensesHandler {
	return &ExpensesHandler{ds: ds}
}

// ListExpenses handles GET /api/expenses
// @Summary List expenses
// @Description Expenses of the current user with their trip title, newest date first
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param trip_id query string false "Only expenses of this trip"
// @Param limit query int false "Maximum number of expenses (0 = all)"
// @Success 200 {object} dto.ExpenseListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/expenses [get]
func (h *ExpensesHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	filter, err := parseExpenseFilter(r)
	if err != nil {
		validationError(w, err.Error())
		return
	}

	expenses, err := h.ds.ListExpenses(r.Context(), userID, filter)
	if err != nil {
		writeStoreError(w, r, "list expenses", err, "")
		return
	}

	items := make([]dto.ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		items = append(items, toExpenseResponse(e.Expense, e.TripTitle))
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.ExpenseListResponse{Expenses: items, Count: len(items)})
}

func parseExpenseFilter(r *http.Request) (store.ExpenseFilter, error) {
	var filter store.ExpenseFilter
	q := r.URL.Query()

	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, errors.New("limit must be a non-negative integer")
		}
		filter.Limit = min(n, maxExpenseLimit)
	}
	if v := strings.TrimSpace(q.Get("trip_id")); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, errors.New("trip_id must be UUID")
		}
		filter.TripID = &id
	}
	return filter, nil
}

// DeleteExpense handles DELETE /api/expenses/{expense_id}
// @Summary Delete an expense
// @Description Deleting an expense that does not exist succeeds. When an expense was removed the
// @Description response carries its trip's refreshed budget summary.
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param expense_id path string true "Expense ID"
// @Success 200 {object} dto.DeleteExpenseResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/expenses/{expense_id} [delete]
func (h *ExpensesHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	expenseID, ok := pathUUID(w, r, "expense_id")
	if !ok {
		return
	}

	removed, err := h.ds.DeleteExpense(r.Context(), userID, expenseID)
	if errors.Is(err, store.ErrNotFound) {
		utils.WriteJSONResponse(w, http.StatusOK, dto.DeleteExpenseResponse{Message: "Expense deleted"})
		return
	}
	if err != nil {
		writeStoreError(w, r, "delete expense", err, "")
		return
	}

	resp := dto.DeleteExpenseResponse{Message: "Expense deleted"}
	tripID := removed.TripID.String()
	resp.TripID = &tripID

	_, _, summary, err := tripBudget(r.Context(), h.ds, userID, removed.TripID)
	switch {
	case err == nil:
		s := toBudgetSummary(summary)
		resp.TripBudget = &s
	case errors.Is(err, store.ErrNotFound):
		// trip removed concurrently
	default:
		writeStoreError(w, r, "trip budget", err, "")
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, resp)
}
