package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/petbnb/marketplace/internal/api/handler"
	"github.com/petbnb/marketplace/internal/core/ports"
	"github.com/petbnb/marketplace/internal/core/service"
	"github.com/petbnb/marketplace/internal/infrastructure/db/memory"
	mongodb "github.com/petbnb/marketplace/internal/infrastructure/db/mongo"
	"github.com/petbnb/marketplace/internal/infrastructure/db/postgres"
	redisdb "github.com/petbnb/marketplace/internal/infrastructure/db/redis"
	"github.com/petbnb/marketplace/internal/pkg/config"
	"github.com/petbnb/marketplace/internal/seed"
	"github.com/petbnb/marketplace/pkg/logger"
)

// app holds the wired services and everything that has to be released on
// shutdown.
type app struct {
	cfg *config.Config
	log zerolog.Logger

	auth     ports.AuthService
	listings ports.ListingService
	bookings ports.BookingService

	idempotency  ports.IdempotencyStore
	healthChecks []handler.DependencyCheck

	closers []func(context.Context) error
}

type repositories struct {
	users    ports.UserRepository
	listings ports.ListingRepository
	bookings ports.BookingRepository
}

func initLogger(cfg *config.Config, stderr io.Writer) zerolog.Logger {
	return logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "petbnb",
		Output:  stderr,
	})
}

// newApp opens the configured storage backends and builds the services.
// Call close when done, also after an error.
func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log}

	policy, err := service.ParseStatusPolicy(cfg.Booking.StatusPolicy)
	if err != nil {
		return a, err
	}

	repos, err := a.openStorage(ctx)
	if err != nil {
		return a, err
	}

	if cfg.Redis.Addr != "" {
		client, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return a, err
		}
		a.closers = append(a.closers, func(context.Context) error { return client.Close() })
		a.idempotency = redisdb.NewIdempotencyStore(client, cfg.Redis.IdempotencyTTL)
		a.healthChecks = append(a.healthChecks, handler.DependencyCheck{Name: "redis", Ping: redisdb.Pinger(client)})
		log.Info().Str("addr", cfg.Redis.Addr).Msg("idempotency keys enabled")
	}

	opts := []service.Option{
		service.WithStatusPolicy(policy),
		service.WithOverlapRejection(cfg.Booking.RejectOverlap),
	}
	a.auth = service.NewAuthService(repos.users, cfg.JWTSecret, cfg.TokenTTL, logger.Component("auth"), opts...)
	a.listings = service.NewListingService(repos.listings, repos.bookings, repos.users, logger.Component("listings"), opts...)
	a.bookings = service.NewBookingService(repos.bookings, repos.listings, repos.users, logger.Component("bookings"), opts...)
	return a, nil
}

func (a *app) openStorage(ctx context.Context) (repositories, error) {
	switch a.cfg.Storage {
	case config.StorageMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: a.cfg.Mongo.URI, Database: a.cfg.Mongo.Database})
		if err != nil {
			return repositories{}, err
		}
		a.closers = append(a.closers, client.Disconnect)
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			return repositories{}, err
		}
		a.healthChecks = append(a.healthChecks, handler.DependencyCheck{Name: "mongo", Ping: mongodb.Pinger(db)})
		a.log.Info().Str("database", a.cfg.Mongo.Database).Msg("using mongo storage")
		return repositories{
			users:    mongodb.NewUserRepository(db),
			listings: mongodb.NewListingRepository(db),
			bookings: mongodb.NewBookingRepository(db),
		}, nil

	case config.StoragePostgres:
		db, err := openPostgres(ctx, a.cfg)
		if err != nil {
			return repositories{}, err
		}
		a.closers = append(a.closers, func(context.Context) error { return db.Close() })

		mg, err := postgres.NewMigrator(db, logger.Component("migrate"))
		if err != nil {
			return repositories{}, err
		}
		if err := mg.Up(); err != nil {
			return repositories{}, err
		}
		a.healthChecks = append(a.healthChecks, handler.DependencyCheck{Name: "postgres", Ping: db.Ping})
		a.log.Info().Msg("using postgres storage")
		return repositories{
			users:    postgres.NewUserRepository(db),
			listings: postgres.NewListingRepository(db),
			bookings: postgres.NewBookingRepository(db),
		}, nil

	default:
		store := memory.NewStore()
		a.log.Warn().Msg("using in-memory storage, data is lost on restart")
		return repositories{
			users:    store.Users(),
			listings: store.Listings(),
			bookings: store.Bookings(),
		}, nil
	}
}

func openPostgres(ctx context.Context, cfg *config.Config) (*postgres.DB, error) {
	return postgres.Open(ctx, postgres.Config{URL: cfg.Postgres.URL}, logger.Component("postgres"))
}

func (a *app) seed(ctx context.Context) (seed.Summary, error) {
	return seed.Run(ctx, seed.Services{
		Auth:     a.auth,
		Listings: a.listings,
		Bookings: a.bookings,
	}, logger.Component("seed"))
}

// close releases backends in reverse order of opening.
func (a *app) close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("close backends: %w", err)
	}
	return nil
}
