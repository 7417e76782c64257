// Package main provides the entry point for the userledger service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dfirmansy/userledger/internal/auth"
	"github.com/dfirmansy/userledger/internal/config"
	"github.com/dfirmansy/userledger/internal/database"
	"github.com/dfirmansy/userledger/internal/handlers"
	"github.com/dfirmansy/userledger/internal/logging"
	"github.com/dfirmansy/userledger/internal/middleware"
	"github.com/dfirmansy/userledger/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// Build information (set during build)
	Version   = "dev"
	BuildTime = ""
)

func main() {
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	logger := logging.NewStructuredLogger(appConfig.Logging.Level, "userledger", Version).WithServiceContext()
	logStartupEvents(logger, appConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewConnectionPool(appConfig)
	if err != nil {
		logger.Error("Failed to create database connection pool", logging.FieldError, err)
		log.Fatalf("FATAL: Failed to create database connection pool: %v", err)
	}
	defer pool.Close()

	if err := database.ValidateConnection(ctx, pool); err != nil {
		logger.Error("Database connection validation failed", logging.FieldError, err)
		log.Fatalf("FATAL: Database connection validation failed: %v", err)
	}

	logger.Database("connection established")

	logger.Startup("Running database migrations...")
	migrationRunner := database.NewMigrationRunner(pool, "./migrations", logger)
	if err := migrationRunner.RunMigrations(ctx); err != nil {
		logger.Error("Database migration failed", logging.FieldError, err)
		log.Fatalf("FATAL: Database migration failed: %v", err)
	}

	server := setupHTTPServer(appConfig, pool, logger)

	go func() {
		logger.Startup("HTTP server starting",
			"host", appConfig.Server.Host,
			"port", appConfig.Server.Port,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed to start", logging.FieldError, err)
			log.Fatalf("FATAL: HTTP server failed to start: %v", err)
		}
	}()

	logger.Startup("userledger service started successfully")

	gracefulShutdown(server, pool, appConfig.Application.ShutdownTimeout, logger)
}

// setupHTTPServer wires repositories, services, and handlers and returns a
// configured HTTP server.
func setupHTTPServer(appConfig *config.Config, pool *pgxpool.Pool, logger *logging.Logger) *http.Server {
	userRepo := database.NewUserRepository(pool, logger)
	transferRepo := database.NewTransferRepository(pool, logger)

	userService := service.NewUserService(userRepo, logger, appConfig.Auth.BcryptCost)
	transferService := service.NewTransferService(transferRepo, userRepo, logger)

	tokenIssuer := auth.NewTokenIssuer(
		[]byte(appConfig.Auth.JWTSecret),
		time.Duration(appConfig.Auth.TokenTTLMinutes)*time.Minute,
	)
	authenticator := auth.NewPasswordAuthenticator(userRepo, tokenIssuer, logger)
	guard := auth.NewGuard(
		auth.NewMemoryLockoutStore(),
		authenticator,
		appConfig.Auth.LockoutMaxAttempts,
		time.Duration(appConfig.Auth.LockoutWindowMin)*time.Minute,
	)

	userHandler := handlers.NewUserHandler(userService, logger)
	transferHandler := handlers.NewTransferHandler(transferService, logger)
	authHandler := handlers.NewAuthHandler(guard, logger)

	healthHandler := handlers.NewHealthHandler("userledger", Version, logger)
	healthHandler.AddChecker(database.NewHealthChecker(pool))

	requireAuth := middleware.AuthenticationMiddleware(tokenIssuer, logger)

	mux := http.NewServeMux()
	mux.Handle("GET /health", healthHandler)
	mux.HandleFunc("POST /login", authHandler.Login)

	mux.Handle("GET /users", requireAuth(http.HandlerFunc(userHandler.List)))
	mux.Handle("POST /users", requireAuth(http.HandlerFunc(userHandler.Create)))
	mux.Handle("GET /users/{id}", requireAuth(http.HandlerFunc(userHandler.Get)))
	mux.Handle("PUT /users/{id}", requireAuth(http.HandlerFunc(userHandler.Update)))
	mux.Handle("DELETE /users/{id}", requireAuth(http.HandlerFunc(userHandler.Delete)))
	mux.Handle("POST /users/{id}/change-password", requireAuth(http.HandlerFunc(userHandler.ChangePassword)))

	mux.Handle("GET /transfers", requireAuth(http.HandlerFunc(transferHandler.List)))
	mux.Handle("POST /transfers", requireAuth(http.HandlerFunc(transferHandler.Create)))
	mux.Handle("GET /transfers/{id}", requireAuth(http.HandlerFunc(transferHandler.Get)))
	mux.Handle("PUT /transfers/{id}", requireAuth(http.HandlerFunc(transferHandler.Update)))
	mux.Handle("DELETE /transfers/{id}", requireAuth(http.HandlerFunc(transferHandler.Delete)))

	// Order matters: rate limiting first, then request ID, then logging.
	handler := http.Handler(mux)
	handler = middleware.NewErrorHandler(logger, handler)
	handler = middleware.NewLoggingMiddleware(logger, handler)
	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.RateLimitMiddleware(
		logger,
		float64(appConfig.Application.RateLimitPerMin)/60.0,
		appConfig.Application.RateLimitBurst,
	)(handler)

	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", appConfig.Server.Host, appConfig.Server.Port),
		Handler:      handler,
		ReadTimeout:  time.Duration(appConfig.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(appConfig.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(appConfig.Server.IdleTimeout) * time.Second,
	}
}

// gracefulShutdown drains in-flight requests before closing the pool.
func gracefulShutdown(server *http.Server, pool *pgxpool.Pool, shutdownTimeout int, logger *logging.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	logger.Startup("Received signal, initiating graceful shutdown", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(shutdownTimeout)*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", logging.FieldError, err)
	} else {
		logger.Startup("HTTP server shutdown completed")
	}

	pool.Close()
	logger.Startup("userledger service shutdown completed")
}

// logStartupEvents logs startup information
func logStartupEvents(logger *logging.Logger, cfg *config.Config) {
	logger.Startup("userledger service starting up",
		"version", Version,
		"environment", cfg.Application.Environment,
		"log_level", cfg.Logging.Level,
		"server_port", cfg.Server.Port,
		"server_host", cfg.Server.Host,
		"db_host", cfg.Database.Host,
		"db_name", cfg.Database.Database,
	)
}
