package cmd

import (
	"github.com/spf13/cobra"

	"github.com/goalweek/goalweek/internal/app"
)

func ReportCmd() *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Weekly report tools",
	}

	reportCmd.AddCommand(&cobra.Command{
		Use:   "send",
		Short: "Archive this week's summary and send the digest now",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				summary, err := a.ReportService.SendWeeklyReport(cmd.Context())
				if summary != nil {
					if printErr := printJSON(cmd, map[string]any{"summary": summary}); printErr != nil {
						return printErr
					}
				}
				return err
			})
		},
	})

	return reportCmd
}
