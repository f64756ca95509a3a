package dto

// DashboardSummaryResponse is the account-wide budget summary
type DashboardSummaryResponse struct {
	Budget    BudgetSummary `json:"budget"`
	TripCount int           `json:"trip_count"`
}

// DashboardOverviewResponse feeds the budget overview tab
type DashboardOverviewResponse struct {
	Totals     BudgetSummary   `json:"totals"`
	Trips      []TripListItem  `json:"trips"`
	Categories []CategorySpend `json:"categories"`
	Upcoming   int             `json:"upcoming"`
	Active     int             `json:"active"`
	Completed  int             `json:"completed"`
}
