// Package api exposes the ledger over HTTP/JSON.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tmodak/settleup/internal/auth"
	"github.com/tmodak/settleup/internal/ledger"
	"github.com/tmodak/settleup/internal/middleware"
	"github.com/tmodak/settleup/internal/service"
)

// Server holds the wired handlers for the ledger API.
type Server struct {
	ledger *service.LedgerService
	authn  *auth.PasswordAuthenticator
	tokens *auth.JWTManager
}

// New creates a Server over the given service and auth components.
func New(ledgerSvc *service.LedgerService, authn *auth.PasswordAuthenticator, tokens *auth.JWTManager) *Server {
	return &Server{ledger: ledgerSvc, authn: authn, tokens: tokens}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)

	// Protected routes - require a resolved identity
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(s.tokens))

		r.Get("/balance", s.handleGetBalance)
		r.Get("/balance/summary", s.handleGetDebtSummary)
		r.Post("/transactions/{id}/settle", s.handleSettleSingle)
		r.Post("/transactions/{id}/received", s.handleMarkReceived)
		r.Post("/settlements", s.handleSettleBetweenUsers)
		r.Post("/bills/{id}/split", s.handleRegenerateBill)
	})

	return r
}

// writeJSON serializes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps a ledger error to its HTTP status.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, ledger.ErrAlreadyPaid), errors.Is(err, ledger.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrInconsistentSplit):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// decode parses a JSON body into dst.
func decode(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
