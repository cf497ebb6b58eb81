package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/tmodak/settleup/internal/api"
	"github.com/tmodak/settleup/internal/auth"
	"github.com/tmodak/settleup/internal/service"
	"github.com/tmodak/settleup/internal/storage/sqlite"
	"github.com/tmodak/settleup/pkg/logging"
)

const defaultPort = "8080"

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logging.Setup()

	dbPath := getEnv("DB_PATH", "./data/ledger.db")
	port := getEnv("PORT", defaultPort)
	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("storage initialized", "database", dbPath)

	ledgerSvc := service.NewLedgerService(store)
	authn := auth.NewPasswordAuthenticator(store)
	tokens := auth.NewJWTManager(jwtSecret, 24*time.Hour)

	server := api.New(ledgerSvc, authn, tokens)

	addr := fmt.Sprintf(":%s", port)
	slog.Info("server starting", "address", addr)
	if err := http.ListenAndServe(addr, server.Router()); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
