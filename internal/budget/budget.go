// Package budget derives trip status and spend figures from stored trips and
// expenses. Nothing here touches the database; every handler that reports a
// percentage, remaining amount or status goes through these functions.
package budget

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle stage of a trip relative to the current time
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Severity classifies how much of a budget has been used
type Severity string

const (
	SeverityOK      Severity = "ok"
	SeverityWarning Severity = "warning"
	SeverityOver    Severity = "over"
)

// Thresholds are percentages of the budget and are not configurable.
var (
	WarningThreshold = decimal.NewFromInt(75)
	OverThreshold    = decimal.NewFromInt(90)

	hundred = decimal.NewFromInt(100)
)

// TripStatus returns completed when now is after end, active when now lies in
// [start, end], and upcoming otherwise.
func TripStatus(start, end, now time.Time) Status {
	if now.After(end) {
		return StatusCompleted
	}
	if !now.Before(start) {
		return StatusActive
	}
	return StatusUpcoming
}

// Today truncates now to midnight UTC. Trip dates are stored as calendar
// days, so comparing them against Today keeps a trip active for the whole
// of its last day.
func Today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SpendPercentage returns spent/budget*100. ok is false when budget is zero,
// in which case the percentage is reported as zero.
func SpendPercentage(spent, budget decimal.Decimal) (pct decimal.Decimal, ok bool) {
	if budget.IsZero() {
		return decimal.Zero, false
	}
	return spent.Div(budget).Mul(hundred), true
}

// Remaining is budget minus spent. It is negative once the trip is over budget.
func Remaining(budget, spent decimal.Decimal) decimal.Decimal {
	return budget.Sub(spent)
}

// SeverityFor maps a spend percentage onto a severity tier.
func SeverityFor(pct decimal.Decimal) Severity {
	switch {
	case pct.GreaterThanOrEqual(OverThreshold):
		return SeverityOver
	case pct.GreaterThanOrEqual(WarningThreshold):
		return SeverityWarning
	default:
		return SeverityOK
	}
}

// SumAmounts adds the given amounts exactly.
func SumAmounts(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Summary bundles the derived spend figures for one budget
type Summary struct {
	Budget     decimal.Decimal
	Spent      decimal.Decimal
	Remaining  decimal.Decimal
	Percentage decimal.Decimal
	// HasBudget is false when the budget is zero and Percentage is meaningless.
	HasBudget  bool
	Severity   Severity
	OverBudget bool
}

// Summarize computes every derived figure for a budget and its spend.
// A zero budget with any spend is over; a zero budget with no spend is ok.
func Summarize(budget, spent decimal.Decimal) Summary {
	pct, ok := SpendPercentage(spent, budget)
	sev := SeverityFor(pct)
	if !ok && spent.IsPositive() {
		sev = SeverityOver
	}
	remaining := Remaining(budget, spent)
	return Summary{
		Budget:     budget,
		Spent:      spent,
		Remaining:  remaining,
		Percentage: pct,
		HasBudget:  ok,
		Severity:   sev,
		OverBudget: remaining.IsNegative(),
	}
}
