package store

import (
	"time"

	"github.com/shopspring/decimal"

	"SMARTTRIP_BACK-END/internal/models"
)

type fixtureTrip struct {
	trip     models.Trip
	expenses []models.Expense
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func payPtr(p models.PaymentMethod) *models.PaymentMethod { return &p }

func fixtureExpense(amount int64, c models.Category, d time.Time, note string, pm models.PaymentMethod) models.Expense {
	return models.Expense{
		Amount:        decimal.NewFromInt(amount),
		Category:      c,
		Date:          d,
		Note:          strPtr(note),
		PaymentMethod: payPtr(pm),
	}
}

// fixtureTrips is the demo data served by the fixture data source.
// Tokyo spends 2100 of 3500, Paris 1150 of 4500 and Bali exactly its 2000.
func fixtureTrips() []fixtureTrip {
	return []fixtureTrip{
		{
			trip: models.Trip{
				Title:       "Summer in Tokyo",
				Destination: "Tokyo, Japan",
				StartDate:   date(2024, time.July, 15),
				EndDate:     date(2024, time.July, 25),
				TotalBudget: decimal.NewFromInt(3500),
			},
			expenses: []models.Expense{
				fixtureExpense(1850, models.CategoryTravel, date(2024, time.July, 15), "Round-trip flights to Narita", models.PaymentCreditCard),
				fixtureExpense(120, models.CategoryStay, date(2024, time.July, 15), "Hotel Park Hyatt - Night 1", models.PaymentCreditCard),
				fixtureExpense(85, models.CategoryFood, date(2024, time.July, 16), "Dinner at Ichiran Ramen", models.PaymentCreditCard),
				fixtureExpense(45, models.CategoryActivities, date(2024, time.July, 17), "Sensoji Temple tour", models.PaymentCash),
			},
		},
		{
			trip: models.Trip{
				Title:       "European Adventure",
				Destination: "Paris, France",
				StartDate:   date(2024, time.September, 10),
				EndDate:     date(2024, time.September, 20),
				TotalBudget: decimal.NewFromInt(4500),
			},
			expenses: []models.Expense{
				fixtureExpense(450, models.CategoryTravel, date(2024, time.September, 10), "Round-trip flight tickets", models.PaymentDebitCard),
				fixtureExpense(700, models.CategoryStay, date(2024, time.September, 10), "Apartment deposit", models.PaymentDebitCard),
			},
		},
		{
			trip: models.Trip{
				Title:       "Beach Getaway",
				Destination: "Bali, Indonesia",
				StartDate:   date(2024, time.June, 1),
				EndDate:     date(2024, time.June, 10),
				TotalBudget: decimal.NewFromInt(2000),
			},
			expenses: []models.Expense{
				fixtureExpense(800, models.CategoryTravel, date(2024, time.June, 1), "Flights to Denpasar", models.PaymentDigitalWallet),
				fixtureExpense(1200, models.CategoryStay, date(2024, time.June, 2), "Villa rental", models.PaymentCreditCard),
			},
		},
	}
}
