package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	apiMiddleware "github.com/phrazzld/tatame-api/internal/api/middleware"
	"github.com/phrazzld/tatame-api/internal/config"
	"github.com/phrazzld/tatame-api/internal/events"
	"github.com/phrazzld/tatame-api/internal/metrics"
	"github.com/phrazzld/tatame-api/internal/platform/database"
	"github.com/phrazzld/tatame-api/internal/platform/mailer"
	"github.com/phrazzld/tatame-api/internal/platform/sqlstore"
	"github.com/phrazzld/tatame-api/internal/service"
	"github.com/phrazzld/tatame-api/internal/service/auth"
	"github.com/prometheus/client_golang/prometheus"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *database.DB
	clock  service.Clock

	// Observability
	registry  *prometheus.Registry
	collector *metrics.Collector

	// Service layer
	jwtService    auth.JWTService
	accounts      service.AccountService
	profiles      service.ProfileService
	sessions      *service.SessionService
	techniques    *service.TechniqueService
	goals         *service.GoalService
	subscriptions *service.SubscriptionService

	// Event system
	eventEmitter *events.InMemoryEventEmitter

	// Throttling for the public auth routes
	limiter *apiMiddleware.RateLimiter
}

// appOption customizes an application before its services are built.
type appOption func(*application)

// withClock replaces the wall clock.
func withClock(clock service.Clock) appOption {
	return func(app *application) { app.clock = clock }
}

// newApplication creates a new application instance with all dependencies
// initialized. The configuration, logger and an open, migrated database are
// established by the caller.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *database.DB,
	opts ...appOption,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(app)
	}

	// Metrics and the lifecycle event subscribers
	app.registry = metrics.NewRegistry()
	app.collector = metrics.NewCollector(app.registry)
	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(app.collector)
	app.eventEmitter.RegisterHandler(events.NewAuditLogger(logger))

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	// Stores
	d := db.Backend.Dialect
	users := sqlstore.NewUserStore(db.DB, d, logger)
	profiles := sqlstore.NewProfileStore(db.DB, d, logger)
	sessions := sqlstore.NewSessionStore(db.DB, d, logger)
	techniques := sqlstore.NewTechniqueStore(db.DB, d, logger)
	goals := sqlstore.NewGoalStore(db.DB, d, logger)
	resets := sqlstore.NewPasswordResetStore(db.DB, d, logger)
	revoked := sqlstore.NewRevokedTokenStore(db.DB, d, logger)

	// Record services share the default quota policy
	app.sessions = service.NewSessionService(sessions, nil, app.eventEmitter, app.clock, logger)
	app.techniques = service.NewTechniqueService(techniques, nil, app.eventEmitter, logger)
	app.goals = service.NewGoalService(goals, nil, app.eventEmitter, app.clock, logger)

	app.profiles, err = service.NewProfileService(profiles, users, app.clock, logger,
		app.sessions, app.techniques, app.goals)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile service: %w", err)
	}

	app.accounts, err = service.NewAccountService(
		service.AccountStores{
			DB:       db.DB,
			Users:    users,
			Profiles: profiles,
			Resets:   resets,
			Revoked:  revoked,
		},
		app.jwtService,
		auth.NewBcryptVerifier(cfg.Auth.BcryptCost),
		mailer.NewLogMailer(cfg.Auth.ResetURL, logger),
		cfg.Auth,
		app.clock,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create account service: %w", err)
	}

	app.subscriptions = service.NewSubscriptionService(cfg.Payment)
	app.limiter = apiMiddleware.NewRateLimiter(apiMiddleware.RateLimiterConfigFrom(cfg.RateLimit))

	logger.InfoContext(ctx, "Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns when ctx is cancelled or the server fails.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.limiter != nil {
		app.limiter.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("Application shutdown completed")
}
