package main

import (
	"net/http"

	"github.com/rs/zerolog"

	httphandlers "github.com/chikhaoui-amine/LifeOS-web-app-sub002/internal/interfaces/http"
	"github.com/chikhaoui-amine/LifeOS-web-app-sub002/internal/shared/config"
	"github.com/chikhaoui-amine/LifeOS-web-app-sub002/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config, log zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", httphandlers.HandleHealth)

	// Ledger routes
	mux.HandleFunc("/api/accounts", deps.AccountHandler.HandleAccounts)
	mux.HandleFunc("/api/accounts/{id}", deps.AccountHandler.HandleAccountByID)
	mux.HandleFunc("/api/transactions", deps.TransactionHandler.HandleTransactions)
	mux.HandleFunc("/api/transactions/{id}", deps.TransactionHandler.HandleTransactionByID)
	mux.HandleFunc("/api/budgets", deps.BudgetHandler.HandleBudgets)
	mux.HandleFunc("/api/budgets/{id}", deps.BudgetHandler.HandleBudgetByID)
	mux.HandleFunc("/api/goals", deps.GoalHandler.HandleGoals)
	mux.HandleFunc("/api/goals/{id}", deps.GoalHandler.HandleGoalByID)
	mux.HandleFunc("/api/settings/currency", deps.SettingsHandler.HandleCurrency)
	mux.HandleFunc("/api/summary", deps.SettingsHandler.HandleSummary)

	// Apply global middleware
	handler := middleware.Logging(log)(middleware.CORS(cfg.Server.AllowedHosts)(mux))

	// Request tracing when telemetry is on
	if cfg.Telemetry.Enabled {
		handler = middleware.Tracing(handler)
	}

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(middleware.SecureCookies(handler))
		log.Info().Msg("TLS security middleware enabled (HSTS + SecureCookies)")
	}

	return handler
}
