// Package entrypoint wires the application together and runs the HTTP
// server with graceful shutdown.
package entrypoint

import (
	"context"
	"crypto/rand"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/avolkov/libtrack/internal/config"
	"github.com/avolkov/libtrack/internal/database"
	"github.com/avolkov/libtrack/internal/database/books"
	"github.com/avolkov/libtrack/internal/database/borrowers"
	"github.com/avolkov/libtrack/internal/database/categories"
	"github.com/avolkov/libtrack/internal/database/directory"
	"github.com/avolkov/libtrack/internal/database/loans"
	http_controllers "github.com/avolkov/libtrack/internal/http"
	"github.com/avolkov/libtrack/internal/integrity"
	"github.com/avolkov/libtrack/internal/lending"
	"github.com/avolkov/libtrack/internal/logging"
	"github.com/avolkov/libtrack/internal/maintenance"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Dur("timeout", timeout).Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server shutdown failed")
	}

	log.Info().Msg("server exited")
}

// Run builds the application from configuration and serves it.
func Run(cfg *config.Config, version string) {
	logging.Init(os.Getenv("ENV"))
	log.Info().Str("version", version).Msg("starting library tracker")

	db, err := database.NewDatabase(cfg.Database.Path, retryPolicy(cfg))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("error closing database")
		}
	}()

	lifecycle := lending.NewService(db, cfg.Loans.PeriodDays)
	guard := integrity.NewGuard(db)

	sqlDB, err := db.SQLDB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get SQL DB for sessions")
	}
	sessionManager, err := http_controllers.NewSessionManager(sqlDB, cfg.Session.Lifetime, cfg.Session.SecureCookies)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize session manager")
	}

	csrfSecret := []byte(cfg.Session.CSRFSecret)
	if len(csrfSecret) == 0 {
		csrfSecret = make([]byte, 32)
		if _, err := rand.Read(csrfSecret); err != nil {
			log.Fatal().Err(err).Msg("failed to generate CSRF secret")
		}
		log.Info().Msg("generated CSRF secret (set CSRF_SECRET to persist across restarts)")
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:       db,
		Books:          books.NewRepository(db),
		Borrowers:      borrowers.NewRepository(db),
		Categories:     categories.NewRepository(db),
		Directory:      directory.NewRepository(db),
		Loans:          loans.NewRepository(db),
		Lifecycle:      lifecycle,
		Guard:          guard,
		SessionManager: sessionManager,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Session.SecureCookies,
		TemplatesPath:  cfg.UI.TemplatesPath,
		StaticPath:     cfg.UI.StaticPath,
		Version:        version,
	})

	var scheduler *maintenance.Scheduler
	if cfg.Maintenance.Enabled {
		scheduler = maintenance.NewScheduler(db, lifecycle, cfg.Maintenance.Schedule)
		if err := scheduler.Start(); err != nil {
			log.Fatal().Err(err).Msg("failed to start maintenance scheduler")
		}
	}

	onShutdown := func(ctx context.Context) {
		if scheduler != nil {
			scheduler.Stop()
		}
	}

	Serve(router, cfg, onShutdown)
}

func retryPolicy(cfg *config.Config) database.RetryPolicy {
	policy := database.DefaultRetryPolicy()
	if cfg.Retry.MaxAttempts > 0 {
		policy.MaxAttempts = cfg.Retry.MaxAttempts
	}
	if cfg.Retry.InitialDelay > 0 {
		policy.InitialDelay = cfg.Retry.InitialDelay
	}
	if cfg.Retry.Backoff > 0 {
		policy.Backoff = cfg.Retry.Backoff
	}
	if cfg.Database.BusyTimeout > 0 {
		policy.BusyTimeout = cfg.Database.BusyTimeout
	}
	return policy
}
