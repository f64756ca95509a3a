package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"SMARTTRIP_BACK-END/internal/budget"
	"SMARTTRIP_BACK-END/internal/dto"
	"SMARTTRIP_BACK-END/internal/models"
	"SMARTTRIP_BACK-END/internal/store"
	"SMARTTRIP_BACK-END/internal/utils"
)

// TripsHandler manages trip-related endpoints
type TripsHandler struct {
	ds  store.DataSource
	now Clock
}

// NewTripsHandler creates a new TripsHandler
func NewTripsHandler(ds store.DataSource, now Clock) *TripsHandler {
	return &TripsHandler{ds: ds, now: now}
}

// ListTrips handles GET /api/trips
// @Summary List trips
// @Description Trips of the current user with status and budget summary, newest start date first
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.TripListResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/trips [get]
func (h *TripsHandler) ListTrips(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	trips, err := h.ds.ListTrips(r.Context(), userID)
	if err != nil {
		writeStoreError(w, r, "list trips", err, "")
		return
	}

	today := h.now.today()
	items := make([]dto.TripListItem, 0, len(trips))
	for _, t := range trips {
		items = append(items, toTripListItem(t, today))
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.TripListResponse{
		Trips: items,
		Count: len(items),
		Empty: len(items) == 0,
	})
}

// CreateTrip handles POST /api/trips
// @Summary Create a new trip
// @Tags trips
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateTripRequest true "Trip payload"
// @Success 201 {object} dto.TripResponseEnvelope
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/trips [post]
func (h *TripsHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req dto.CreateTripRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return // Error already handled by DecodeJSONRequest
	}

	trip := models.Trip{
		UserID:      userID,
		Title:       req.Title,
		Destination: req.Destination,
		TotalBudget: decimal.Zero,
		Notes:       req.Notes,
	}
	if req.TotalBudget != nil {
		trip.TotalBudget = *req.TotalBudget
	}
	if req.StartDate != "" {
		start, err := utils.ParseDate(req.StartDate)
		if err != nil {
			validationError(w, "start_date must be ISO 8601 format (YYYY-MM-DD or RFC3339)")
			return
		}
		trip.StartDate = start
	}
	if req.EndDate != "" {
		end, err := utils.ParseDate(req.EndDate)
		if err != nil {
			validationError(w, "end_date must be ISO 8601 format (YYYY-MM-DD or RFC3339)")
			return
		}
		trip.EndDate = end
	}

	trip.Normalize()
	if err := trip.Validate(); err != nil {
		validationError(w, err.Error())
		return
	}
	if req.TotalBudget == nil {
		validationError(w, models.ErrBudgetRequired.Error())
		return
	}

	created, err := h.ds.InsertTrip(r.Context(), trip)
	if err != nil {
		writeStoreError(w, r, "insert trip", err, "")
		return
	}

	utils.WriteJSONResponse(w, http.StatusCreated, dto.TripResponseEnvelope{
		Trip:   toTripResponse(created, h.now.today()),
		Budget: toBudgetSummary(budget.Summarize(created.TotalBudget, decimal.Zero)),
	})
}

// TripDetail handles GET /api/trips/{trip_id}
// @Summary Get trip detail
// @Description Trip with its expenses, budget summary and per-category spend
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Success 200 {object} dto.TripDetailResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/trips/{trip_id} [get]
func (h *TripsHandler) TripDetail(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "trip_id")
	if !ok {
		return
	}

	trip, expenses, summary, err := tripBudget(r.Context(), h.ds, userID, tripID)
	if err != nil {
		writeStoreError(w, r, "trip detail", err, "Trip not found")
		return
	}

	items := make([]dto.ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		items = append(items, toExpenseResponse(e.Expense, ""))
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.TripDetailResponse{
		Trip:       toTripResponse(trip, h.now.today()),
		Budget:     toBudgetSummary(summary),
		Expenses:   items,
		Categories: categoryBreakdown(expenses),
	})
}

// UpdateTrip handles PATCH/PUT /api/trips/{trip_id}
// @Summary Update a trip
// @Description Only provided fields are changed. An empty notes string clears the notes.
// @Tags trips
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Param payload body dto.UpdateTripRequest true "Fields to update"
// @Success 200 {object} dto.TripResponseEnvelope
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/trips/{trip_id} [patch]
func (h *TripsHandler) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "trip_id")
	if !ok {
		return
	}

	var req dto.UpdateTripRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	trip, err := h.ds.GetTrip(r.Context(), userID, tripID)
	if err != nil {
		writeStoreError(w, r, "get trip", err, "Trip not found")
		return
	}

	if err := applyTripUpdate(&trip, req); err != nil {
		validationError(w, err.Error())
		return
	}
	trip.Normalize()
	if err := trip.Validate(); err != nil {
		validationError(w, err.Error())
		return
	}

	if _, err := h.ds.UpdateTrip(r.Context(), trip); err != nil {
		writeStoreError(w, r, "update trip", err, "Trip not found")
		return
	}

	updated, _, summary, err := tripBudget(r.Context(), h.ds, userID, tripID)
	if err != nil {
		writeStoreError(w, r, "trip budget", err, "Trip not found")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.TripResponseEnvelope{
		Trip:   toTripResponse(updated, h.now.today()),
		Budget: toBudgetSummary(summary),
	})
}

func applyTripUpdate(trip *models.Trip, req dto.UpdateTripRequest) error {
	if req.Title != nil {
		trip.Title = *req.Title
	}
	if req.Destination != nil {
		trip.Destination = *req.Destination
	}
	if req.StartDate != nil {
		start, err := utils.ParseDate(*req.StartDate)
		if err != nil {
			return errors.New("start_date must be ISO 8601 format (YYYY-MM-DD or RFC3339)")
		}
		trip.StartDate = start
	}
	if req.EndDate != nil {
		end, err := utils.ParseDate(*req.EndDate)
		if err != nil {
			return errors.New("end_date must be ISO 8601 format (YYYY-MM-DD or RFC3339)")
		}
		trip.EndDate = end
	}
	if req.TotalBudget != nil {
		trip.TotalBudget = *req.TotalBudget
	}
	if req.Notes != nil {
		trip.Notes = req.Notes
	}
	return nil
}

// DeleteTrip handles DELETE /api/trips/{trip_id}
// @Summary Delete a trip
// @Description Removes the trip and all of its expenses. Deleting a trip that does not exist succeeds.
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/trips/{trip_id} [delete]
func (h *TripsHandler) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "trip_id")
	if !ok {
		return
	}

	if err := h.ds.DeleteTrip(r.Context(), userID, tripID); err != nil {
		writeStoreError(w, r, "delete trip", err, "Trip not found")
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.MessageResponse{Message: "Trip deleted"})
}

// AddExpense handles POST /api/trips/{trip_id}/expenses
// @Summary Add an expense to a trip
// @Description Returns the created expense and the trip's refreshed budget summary
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param trip_id path string true "Trip ID"
// @Param payload body dto.CreateExpenseRequest true "Expense payload"
// @Success 201 {object} dto.CreateExpenseResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/trips/{trip_id}/expenses [post]
func (h *TripsHandler) AddExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "trip_id")
	if !ok {
		return
	}

	var req dto.CreateExpenseRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	expense, err := expenseFromRequest(userID, tripID, req)
	if err != nil {
		validationError(w, err.Error())
		return
	}

	created, err := h.ds.InsertExpense(r.Context(), expense)
	if err != nil {
		writeStoreError(w, r, "insert expense", err, "Trip not found")
		return
	}

	trip, _, summary, err := tripBudget(r.Context(), h.ds, userID, tripID)
	if err != nil {
		writeStoreError(w, r, "trip budget", err, "Trip not found")
		return
	}

	utils.WriteJSONResponse(w, http.StatusCreated, dto.CreateExpenseResponse{
		Expense:    toExpenseResponse(created, trip.Title),
		TripBudget: toBudgetSummary(summary),
	})
}

func expenseFromRequest(userID, tripID uuid.UUID, req dto.CreateExpenseRequest) (models.Expense, error) {
	if req.Amount == nil {
		return models.Expense{}, errors.New("amount is required")
	}
	category, err := models.ParseCategory(req.Category)
	if err != nil {
		return models.Expense{}, models.ErrCategoryInvalid
	}
	if req.Date == "" {
		return models.Expense{}, models.ErrDateRequired
	}
	date, err := utils.ParseDate(req.Date)
	if err != nil {
		return models.Expense{}, errors.New("date must be ISO 8601 format (YYYY-MM-DD or RFC3339)")
	}

	e := models.Expense{
		UserID:   userID,
		TripID:   tripID,
		Amount:   *req.Amount,
		Category: category,
		Date:     date,
		Note:     req.Note,
	}
	if req.PaymentMethod != nil && *req.PaymentMethod != "" {
		pm, err := models.ParsePaymentMethod(*req.PaymentMethod)
		if err != nil {
			return models.Expense{}, errors.New("payment_method must be one of Cash, Credit Card, Debit Card, Digital Wallet")
		}
		e.PaymentMethod = &pm
	}
	if e.Note != nil && *e.Note == "" {
		e.Note = nil
	}
	return e, e.Validate()
}
