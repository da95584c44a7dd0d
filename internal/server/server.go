// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/zblogs/zblogs-api/internal/apperror"
	"codeberg.org/zblogs/zblogs-api/internal/config"
	"codeberg.org/zblogs/zblogs-api/internal/database"
	"codeberg.org/zblogs/zblogs-api/internal/handlers"
	"codeberg.org/zblogs/zblogs-api/internal/i18n"
	"codeberg.org/zblogs/zblogs-api/internal/metrics"
	"codeberg.org/zblogs/zblogs-api/internal/middleware"
	"codeberg.org/zblogs/zblogs-api/internal/repository"
	"codeberg.org/zblogs/zblogs-api/internal/services/auth"
	"codeberg.org/zblogs/zblogs-api/internal/services/email"
	"codeberg.org/zblogs/zblogs-api/internal/services/maintenance"
	"codeberg.org/zblogs/zblogs-api/internal/services/otp"
	"codeberg.org/zblogs/zblogs-api/internal/services/session"
	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"
	"github.com/vinovest/sqlx"
)

// App holds the services served by the HTTP router.
type App struct {
	DB       *sqlx.DB
	Sessions *session.Manager
	Auth     *auth.Service
	OTP      *otp.Service
}

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
		"email_provider", cfg.Email.Provider,
		"otp_store", cfg.OTP.Store,
	)

	// Database
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	// i18n
	if initErr := i18n.Init(); initErr != nil {
		return fmt.Errorf("failed to init i18n: %w", initErr)
	}

	repo := repository.New(db)
	accounts, err := repo.CountAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to count accounts: %w", err)
	}
	slog.Info("database_ready", "dsn", cfg.Database.DSN, "accounts", accounts)

	store, purger, closeStore, err := openOTPStore(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer closeStore()

	// Email
	if cfg.Email.Provider == config.EmailProviderBrevo &&
		(cfg.Email.Brevo.APIKey == "" || cfg.Email.Brevo.FromAddress == "") {
		slog.Warn("brevo_not_configured", "hint", "set BREVO_API_KEY and BREVO_FROM_EMAIL; emails will fail")
	}
	mailer, err := email.NewMailer(cfg.Email)
	if err != nil {
		return fmt.Errorf("failed to create mailer: %w", err)
	}
	notifier := email.NewNotifier(mailer)
	defer notifier.Close()

	sessions, err := session.NewManager(&cfg.Session, cfg.Session.Secure)
	if err != nil {
		return fmt.Errorf("failed to create session manager: %w", err)
	}

	authSvc := auth.NewService(repo)
	if adminErr := authSvc.EnsureAdmin(ctx, cfg.Admin.Email); adminErr != nil {
		return fmt.Errorf("failed to ensure admin: %w", adminErr)
	}

	// Maintenance
	cleaner := maintenance.NewCleaner(purger, maintenance.WithSchedule(cfg.OTP.PurgeSchedule))
	if startErr := cleaner.Start(); startErr != nil {
		return fmt.Errorf("failed to start maintenance: %w", startErr)
	}
	defer func() {
		<-cleaner.Stop().Done()
	}()

	e := newRouter(cfg, &App{
		DB:       db,
		Sessions: sessions,
		Auth:     authSvc,
		OTP:      otp.NewService(repo, store, notifier),
	})

	return startWithGracefulShutdown(ctx, e, cfg)
}

// openOTPStore selects the code store. Redis expires keys itself, so the
// returned purger is nil for it.
func openOTPStore(ctx context.Context, cfg *config.Config, db *sqlx.DB) (otp.Store, maintenance.Purger, func(), error) {
	switch cfg.OTP.Store {
	case config.OTPStoreRedis:
		client, err := repository.OpenRedis(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		closeFn := func() {
			if err := client.Close(); err != nil {
				slog.Error("failed to close redis", "error", err)
			}
		}
		return repository.NewRedisOTPStore(client, repository.WithOTPTTL(cfg.OTP.TTL)), nil, closeFn, nil
	default:
		store := repository.NewOTPStore(db, repository.WithOTPTTL(cfg.OTP.TTL))
		return store, store, func() {}, nil
	}
}

func newRouter(cfg *config.Config, app *App) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apperror.HTTPErrorHandler

	setupMiddleware(e, cfg, app.Sessions)
	setupRoutes(e, app)

	return e
}

func setupRoutes(e *echo.Echo, app *App) {
	h := handlers.New(app.DB)
	authH := handlers.NewAuth(app.Auth, app.Sessions)
	userH := handlers.NewUser(app.Auth)

	e.GET("/health", h.Health)
	e.GET("/test", h.Test)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()), middleware.RequireAdmin)

	api := e.Group("/api")
	handlers.NewOTP(app.OTP).Routes(api.Group("/otp"), middleware.RequireAuth)
	api.POST("/auth/signin", authH.Signin)
	api.POST("/user/signout", authH.Signout)
	api.PUT("/user/update/:userId", userH.Update, middleware.RequireAuth)
}

func startWithGracefulShutdown(ctx context.Context, e *echo.Echo, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		slog.Info("Server running", "url", cfg.Server.BaseURL)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down server")
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	slog.Info("server stopped")
	return nil
}
