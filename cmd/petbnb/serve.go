package main

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/petbnb/marketplace/internal/api"
	"github.com/petbnb/marketplace/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(stderr io.Writer) *cobra.Command {
	var withSeed bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), stderr, withSeed)
		},
	}
	cmd.Flags().BoolVar(&withSeed, "seed", false, "load the demo accounts, listings and bookings before serving")
	return cmd
}

func serve(ctx context.Context, stderr io.Writer, withSeed bool) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	log := initLogger(cfg, stderr)

	a, err := newApp(ctx, cfg, log)
	defer func() {
		if cerr := a.close(context.Background()); cerr != nil {
			log.Error().Err(cerr).Msg("shutdown")
		}
	}()
	if err != nil {
		return err
	}

	if withSeed {
		if _, err := a.seed(ctx); err != nil {
			return err
		}
	}

	e, err := api.NewRouter(api.Dependencies{
		Auth:         a.auth,
		Listings:     a.listings,
		Bookings:     a.bookings,
		Idempotency:  a.idempotency,
		HealthChecks: a.healthChecks,
		JWTSecret:    cfg.JWTSecret,
		CORSOrigins:  cfg.CORSOrigins,
		Logger:       logger.Component("http"),
	})
	if err != nil {
		return err
	}

	addr := net.JoinHostPort("", cfg.Port)
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("storage", cfg.Storage).Msg("petbnb API listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
