package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goalweek/goalweek/internal/app"
	"github.com/goalweek/goalweek/internal/config"
)

// Root builds the goalctl command tree.
func Root() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "goalctl",
		Short:         "Administer weekly goals from the command line",
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(MigrateCmd())
	rootCmd.AddCommand(GoalsCmd())
	rootCmd.AddCommand(CompleteCmd())
	rootCmd.AddCommand(PendingCmd())
	rootCmd.AddCommand(SummaryCmd())
	rootCmd.AddCommand(ReportCmd())

	return rootCmd
}

// withApp loads configuration, opens the app and closes it after fn.
func withApp(ctx context.Context, fn func(a *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(a)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
