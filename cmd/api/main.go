package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/openledgerhq/ledgerd/internal/account"
	accountStore "github.com/openledgerhq/ledgerd/internal/account/store"
	"github.com/openledgerhq/ledgerd/internal/audit"
	auditStore "github.com/openledgerhq/ledgerd/internal/audit/store"
	"github.com/openledgerhq/ledgerd/internal/config"
	"github.com/openledgerhq/ledgerd/internal/database"
	ledgerdHttp "github.com/openledgerhq/ledgerd/internal/http"
	accountHandler "github.com/openledgerhq/ledgerd/internal/http/account"
	importHandler "github.com/openledgerhq/ledgerd/internal/http/importcsv"
	journalHandler "github.com/openledgerhq/ledgerd/internal/http/journal"
	ledgerHandler "github.com/openledgerhq/ledgerd/internal/http/ledger"
	reportHandler "github.com/openledgerhq/ledgerd/internal/http/report"
	"github.com/openledgerhq/ledgerd/internal/importer"
	"github.com/openledgerhq/ledgerd/internal/journal"
	journalStore "github.com/openledgerhq/ledgerd/internal/journal/store"
	"github.com/openledgerhq/ledgerd/internal/ledger"
	ledgerStore "github.com/openledgerhq/ledgerd/internal/ledger/store"
	"github.com/openledgerhq/ledgerd/internal/report"
	reportStore "github.com/openledgerhq/ledgerd/internal/report/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()

	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("failed to apply schema", "error", err)
		os.Exit(1)
	}

	auditService := audit.NewService(auditStore.New(db))

	var (
		accountService = account.NewService(accountStore.New(db), auditService)
		journalService = journal.NewService(journalStore.New(db), auditService)
		ledgerService  = ledger.NewService(ledgerStore.New(db))
		reportService  = report.NewService(reportStore.New(db))
		importService  = importer.NewService(journalService)
	)

	if err := accountService.SeedDefaults(ctx); err != nil {
		slog.Error("failed to seed default accounts", "error", err)
		os.Exit(1)
	}

	var (
		accountsH = accountHandler.NewHandler(accountService)
		journalH  = journalHandler.NewHandler(journalService)
		ledgerH   = ledgerHandler.NewHandler(ledgerService)
		reportsH  = reportHandler.NewHandler(reportService)
		importH   = importHandler.NewHandler(importService)
	)

	router := ledgerdHttp.New(accountsH, journalH, ledgerH, reportsH, importH, ledgerdHttp.Options{
		AuthSecret:     cfg.Auth.Secret,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "addr", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
