package cli

import (
	"context"
	"fmt"

	"butterfly-quiz-service/internal/config"
	"butterfly-quiz-service/internal/game"
	"github.com/spf13/cobra"
)

// NewSeedCmd loads the starter catalog into the configured item store.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the starter butterfly catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath, cmd)
		},
	}
}

func runSeed(ctx context.Context, configPath string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL != "" {
		if err := migrateSchema(ctx, cfg); err != nil {
			return err
		}
	}
	cfg.Catalog.Seed = false

	st, err := buildStack(ctx, cfg, game.RealClock{})
	if err != nil {
		return err
	}
	defer st.Close()

	inserted, existing, err := st.catalog.Seed(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "inserted %d items, %d already present\n", inserted, existing)
	return nil
}
