package routes

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "SMARTTRIP_BACK-END/docs" // registers the swagger spec
	"SMARTTRIP_BACK-END/internal/config"
	"SMARTTRIP_BACK-END/internal/handlers"
	"SMARTTRIP_BACK-END/internal/middleware"
	"SMARTTRIP_BACK-END/internal/store"
)

// Options tweak the router for tests
type Options struct {
	// Now overrides the clock used to derive trip status
	Now handlers.Clock
}

// SetupRoutes builds every handler over the given store and returns the
// application's root handler, wrapped in request logging and panic recovery.
func SetupRoutes(st store.Store, cfg *config.Config, logger zerolog.Logger, opts Options) http.Handler {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	healthHandler := handlers.NewHealthHandler(st, cfg.DataSource)
	authHandler := handlers.NewAuthHandler(st, &cfg.JWT)
	googleAuthHandler := handlers.NewGoogleAuthHandler(st, cfg)
	tripsHandler := handlers.NewTripsHandler(st, now)
	expensesHandler := handlers.NewExpensesHandler(st)
	dashboardHandler := handlers.NewDashboardHandler(st, now)

	auth := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.AuthMiddleware(h, &cfg.JWT)
	}

	mux := http.NewServeMux()

	// Health check routes
	mux.HandleFunc("GET /healthz", healthHandler.HealthCheck)
	mux.HandleFunc("GET /livez", healthHandler.LivenessCheck)
	mux.HandleFunc("GET /readyz", healthHandler.ReadinessCheck)

	// Authentication routes
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/auth/me", auth(authHandler.Me))
	mux.HandleFunc("POST /api/auth/logout", auth(authHandler.Logout))
	mux.HandleFunc("GET /api/auth/google/login", googleAuthHandler.GoogleLogin)
	mux.HandleFunc("GET /api/auth/google/callback", googleAuthHandler.GoogleCallback)

	// Trip routes
	mux.HandleFunc("GET /api/trips", auth(tripsHandler.ListTrips))
	mux.HandleFunc("POST /api/trips", auth(tripsHandler.CreateTrip))
	mux.HandleFunc("GET /api/trips/{trip_id}", auth(tripsHandler.TripDetail))
	mux.HandleFunc("PATCH /api/trips/{trip_id}", auth(tripsHandler.UpdateTrip))
	mux.HandleFunc("PUT /api/trips/{trip_id}", auth(tripsHandler.UpdateTrip))
	mux.HandleFunc("DELETE /api/trips/{trip_id}", auth(tripsHandler.DeleteTrip))
	mux.HandleFunc("POST /api/trips/{trip_id}/expenses", auth(tripsHandler.AddExpense))

	// Expense routes
	mux.HandleFunc("GET /api/expenses", auth(expensesHandler.ListExpenses))
	mux.HandleFunc("DELETE /api/expenses/{expense_id}", auth(expensesHandler.DeleteExpense))

	// Dashboard routes
	mux.HandleFunc("GET /api/dashboard/summary", auth(dashboardHandler.Summary))
	mux.HandleFunc("GET /api/dashboard/overview", auth(dashboardHandler.Overview))

	// Swagger documentation
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Root route
	mux.HandleFunc("GET /{$}", rootHandler)

	return middleware.RequestLogger(logger)(middleware.Recoverer(mux))
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("SmartTrip backend is running."))
}
