package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/userdir/internal/users/http"
	"github.com/aussiebroadwan/userdir/internal/users/service"
	"github.com/aussiebroadwan/userdir/internal/users/store"
	"github.com/aussiebroadwan/userdir/internal/users/store/drivers/postgres"
	"github.com/aussiebroadwan/userdir/internal/users/store/drivers/sqlite"
	"github.com/aussiebroadwan/userdir/pkg/cryptox"
	"github.com/aussiebroadwan/userdir/pkg/httpx"
	"github.com/aussiebroadwan/userdir/pkg/slogx"
)

// BuildVersion is overridden at build time with
// -ldflags "-X github.com/aussiebroadwan/userdir/internal/users/app.BuildVersion=...".
var BuildVersion = "v0.1.0"

const bootstrapTimeout = 30 * time.Second

// Application encapsulates the user directory service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	db      store.Store
	metrics *httpx.Metrics

	userService      *service.UserService
	bootstrapService *service.BootstrapService
	statsService     *service.StatsService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
// The schema is migrated and the administrator seeded before it returns.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "users-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		metrics: httpx.NewMetrics(httpapi.MetricsNamespace),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)
	if err := cryptox.LoadPepper(); err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()

	if err := app.bootstrap(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initHTTP()

	return app, nil
}

// Handler exposes the fully wired router.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.statsService.Start()

	app.logger.Info("users service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.statsService.Stop()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down users service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.statsService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("users service stopped")
	return nil
}

// initDatabase opens the configured store driver.
func (app *Application) initDatabase() error {
	var (
		db  store.Store
		err error
	)
	switch app.cfg.DatabaseDriver {
	case DriverPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), bootstrapTimeout)
		defer cancel()
		db, err = postgres.NewStore(ctx, app.cfg.DSN())
	case DriverSQLite, "":
		db, err = sqlite.NewStore(app.cfg.DSN())
	default:
		err = fmt.Errorf("unknown database driver %q", app.cfg.DatabaseDriver)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	app.db = db
	app.logger.Info("database opened", "driver", app.cfg.DatabaseDriver)
	return nil
}

func (app *Application) initServices() {
	app.userService = &service.UserService{
		Store:  app.db,
		Hasher: cryptox.Argon2Hasher{},
	}
	app.bootstrapService = &service.BootstrapService{
		Store: app.db,
		Users: app.userService,
		Data:  app.cfg.Bootstrap(),
	}
	app.statsService = service.NewStatsService(
		app.db,
		app.logger,
		app.cfg.StatsInterval,
		app.metrics.Registerer(),
	)
}

// bootstrap migrates the schema and seeds the administrator.
func (app *Application) bootstrap() error {
	ctx, cancel := context.WithTimeout(context.Background(), bootstrapTimeout)
	defer cancel()
	ctx = slogx.WithContext(ctx, app.logger.With("component", "bootstrap"))

	created, err := app.bootstrapService.Run(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}

	app.logger.Info("bootstrap complete", "admin_created", created)
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		BuildVersion,
		app.db,
		app.metrics,
		app.cfg.RateLimits,
		app.logger,
	)
	router.UserService = app.userService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
