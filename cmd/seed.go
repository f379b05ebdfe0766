package main

import (
	"context"

	"modulith/internal/config"
	"modulith/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// seedCommand constructs the 'seed' subcommand that runs the installed
// domains' seeders once and exits. Seeders are idempotent, so re-running the
// command is safe.
func seedCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seeds the installed domains' initial data",
		Run: func(_ *cobra.Command, _ []string) {
			ctx := context.Background()

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			reg, _ := getRegistry(ctx, cfg, strg)

			if err := reg.Seed(ctx, strg); err != nil {
				logger.Fatal(ctx, "could not seed domains", zap.Error(err))
			}

			logger.Info(ctx, "seeding finished")
		},
	}

	return cmd
}
