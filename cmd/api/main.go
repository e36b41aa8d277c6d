package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fitcash/internal/config"
	"fitcash/internal/gateway/upi"
	handler "fitcash/internal/handler/http"
	"fitcash/internal/notifier"
	"fitcash/internal/port"
	"fitcash/internal/repository/migration"
	"fitcash/internal/repository/postgresql"
	"fitcash/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration:", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Logger.LoggerLevel),
	}))

	db, err := sql.Open("postgres", cfg.DB.DatabaseURL)
	if err != nil {
		log.Fatal("failed to open database:", err)
	}
	db.SetMaxOpenConns(cfg.DB.MaxOpenConnection)
	db.SetMaxIdleConns(cfg.DB.MaxIdleConnection)
	db.SetConnMaxLifetime(cfg.DB.ConnectionLifetime)

	if err := db.Ping(); err != nil {
		log.Fatal("failed to ping database:", err)
	}

	if err := migration.RunMigrations(db); err != nil {
		log.Fatal("failed to run migrations:", err)
	}

	attemptRepo := postgresql.NewAttemptRepository(db)
	ledgerRepo := postgresql.NewLedgerRepository(db)
	withdrawalRepo := postgresql.NewWithdrawalRepository(db)

	ledgerService := service.NewLedgerService(ledgerRepo, withdrawalRepo, logger)
	eligibilityService := service.NewEligibilityService(ledgerService, withdrawalRepo)
	attemptService := service.NewAttemptService(attemptRepo, ledgerRepo)

	gateway := upi.NewClient(
		cfg.Gateway.BaseURL,
		cfg.Gateway.ClientID,
		cfg.Gateway.ClientSecret,
		cfg.Gateway.Timeout,
		cfg.Gateway.Bypass,
	)
	if cfg.Gateway.Bypass {
		logger.Warn("payout gateway bypass mode enabled, transfers are simulated")
	}

	var notify port.Notifier
	if cfg.Notifier.Enabled {
		notify = notifier.NewSMSNotifier(cfg.Notifier.BaseURL, cfg.Notifier.APIKey, cfg.Notifier.Sender)
	} else {
		notify = notifier.NewNoopNotifier(logger)
	}

	withdrawalService := service.NewWithdrawalService(
		withdrawalRepo, ledgerRepo, eligibilityService, gateway, notify, logger)

	h := handler.NewHandler(
		withdrawalService, attemptService, ledgerService, eligibilityService,
		cfg.Token.AuthToken, logger)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      h.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Server.Port)
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
			server.Close()
		}
	}
}

func logLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
