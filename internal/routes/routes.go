package routes

import (
	"net/http"

	"github.com/goalweek/goalweek/internal/app"
	"github.com/goalweek/goalweek/internal/handler"
	"github.com/goalweek/goalweek/internal/metrics"
	"github.com/goalweek/goalweek/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	goal := handler.NewGoalHandler(app.GoalService)
	health := handler.NewHealthHandler(app.Store)

	mux := http.NewServeMux()

	// Goals
	mux.HandleFunc("POST /goals", goal.Create)
	mux.HandleFunc("POST /completions", goal.CreateCompletion)
	mux.HandleFunc("GET /pending-goals", goal.PendingGoals)
	mux.HandleFunc("GET /summary", goal.Summary)

	// Operations
	mux.HandleFunc("GET /health", health.Health)
	mux.Handle("GET /metrics", metrics.Handler())

	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.RequestLogging,
		metrics.InstrumentHandler,
		middleware.CORS(app.Cfg.CORSOrigin),
		middleware.RateLimit(app.RateLimiter),
	)
}
