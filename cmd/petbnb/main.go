// Command petbnb runs the PetBnB marketplace API and its maintenance tasks.
//
//	@title						PetBnB Marketplace API
//	@version					1.0
//	@description				Listings and bookings between pet owners and sitters.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/petbnb/marketplace/internal/pkg/config"
)

// loadConfig is swapped in tests to feed a fixed environment.
var loadConfig = config.Load

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "petbnb",
		Short:         "PetBnB marketplace API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.AddCommand(
		newServeCommand(stderr),
		newMigrateCommand(stdout, stderr),
		newSeedCommand(stdout, stderr),
	)
	return root
}
