package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/petbnb/marketplace/internal/pkg/config"
	"github.com/petbnb/marketplace/internal/seed"
)

func newSeedCommand(stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo accounts, listings and bookings",
		Long: "Load the demo accounts, listings and bookings into the configured storage.\n" +
			"Every demo account uses the password " + seed.DemoPassword + ".",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd.Context(), stdout, stderr)
		},
	}
}

func runSeed(ctx context.Context, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if cfg.Storage == config.StorageMemory {
		return fmt.Errorf("seed: in-memory storage does not outlive this command, use serve --seed instead")
	}
	log := initLogger(cfg, stderr)

	a, err := newApp(ctx, cfg, log)
	defer func() {
		if cerr := a.close(context.Background()); cerr != nil {
			log.Error().Err(cerr).Msg("close")
		}
	}()
	if err != nil {
		return err
	}

	sum, err := a.seed(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "created %d users, %d listings, %d bookings\n", sum.Users, sum.Listings, sum.Bookings)
	return err
}
