package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"SMARTTRIP_BACK-END/internal/budget"
	"SMARTTRIP_BACK-END/internal/dto"
	"SMARTTRIP_BACK-END/internal/models"
	"SMARTTRIP_BACK-END/internal/store"
	"SMARTTRIP_BACK-END/internal/utils"
)

// DashboardHandler serves the account-wide aggregates
type DashboardHandler struct {
	ds  store.DataSource
	now Clock
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(ds store.DataSource, now Clock) *DashboardHandler {
	return &DashboardHandler{ds: ds, now: now}
}

// Summary handles GET /api/dashboard/summary
// @Summary Dashboard budget summary
// @Description Total budget across trips against total spend. Both totals must load or the request fails.
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DashboardSummaryResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/dashboard/summary [get]
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var (
		totalBudget, totalSpent decimal.Decimal
		trips                   []models.TripWithSpend
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		totalBudget, err = h.ds.TotalBudget(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		totalSpent, err = h.ds.TotalSpent(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		trips, err = h.ds.ListTrips(ctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		writeStoreError(w, r, "dashboard summary", err, "")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.DashboardSummaryResponse{
		Budget:    toBudgetSummary(budget.Summarize(totalBudget, totalSpent)),
		TripCount: len(trips),
	})
}

// Overview handles GET /api/dashboard/overview
// @Summary Budget overview
// @Description Per-trip budget rows, spend per category and grand totals
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DashboardOverviewResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/dashboard/overview [get]
func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var (
		trips    []models.TripWithSpend
		expenses []models.ExpenseWithTrip
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		trips, err = h.ds.ListTrips(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = h.ds.ListExpenses(ctx, userID, store.ExpenseFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		writeStoreError(w, r, "dashboard overview", err, "")
		return
	}

	today := h.now.today()
	resp := dto.DashboardOverviewResponse{
		Trips:      make([]dto.TripListItem, 0, len(trips)),
		Categories: categoryBreakdown(expenses),
	}
	totalBudget, totalSpent := decimal.Zero, decimal.Zero
	for _, t := range trips {
		item := toTripListItem(t, today)
		resp.Trips = append(resp.Trips, item)
		totalBudget = totalBudget.Add(t.TotalBudget)
		totalSpent = totalSpent.Add(item.Budget.Spent)

		switch budget.Status(item.Status) {
		case budget.StatusUpcoming:
			resp.Upcoming++
		case budget.StatusActive:
			resp.Active++
		case budget.StatusCompleted:
			resp.Completed++
		}
	}
	resp.Totals = toBudgetSummary(budget.Summarize(totalBudget, totalSpent))

	utils.WriteJSONResponse(w, http.StatusOK, resp)
}
