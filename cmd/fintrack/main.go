package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/auth"
	"fintrack/internal/cli"
	apphttp "fintrack/internal/http"
	"fintrack/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	// SQLite repository runs migrations on startup
	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// AMQP client for publishing transaction events (optional)
	var events *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		events, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer events.Close()
		logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided, transaction events will not be published")
	}

	// Wire services
	transactions := services.NewTransactionService(repo, repo, events)
	dashboards := services.NewDashboardService(repo, repo)
	budgets := services.NewBudgetService(repo, repo)

	// Wire authentication
	authSvc := auth.NewService(repo)
	sessions := auth.NewSessionStore(cfg.SessionTTL)
	defer sessions.Shutdown()

	var google *auth.GoogleVerifier
	if cfg.GoogleSignInEnabled() {
		google = auth.NewGoogleVerifier(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
		logger.Info("Google sign-in enabled")
	} else {
		logger.Info("Google sign-in disabled - no GOOGLE_CLIENT_ID provided")
	}

	srv, err := apphttp.NewServer(cfg, apphttp.Deps{
		Dashboards:   dashboards,
		Transactions: transactions,
		Budgets:      budgets,
		Auth:         authSvc,
		Sessions:     sessions,
		Google:       google,
		DB:           repo,
	})
	if err != nil {
		logger.Error("Failed to initialize HTTP server", "error", err)
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	logger.Info("Starting fintrack server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
