package cmd

import (
	"github.com/spf13/cobra"

	"github.com/goalweek/goalweek/internal/app"
)

func GoalsCmd() *cobra.Command {
	goalsCmd := &cobra.Command{
		Use:   "goals",
		Short: "Create, list and show goals",
	}

	var (
		title     string
		frequency int
	)
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a goal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				goal, err := a.GoalService.CreateGoal(cmd.Context(), title, frequency)
				if err != nil {
					return err
				}
				return printJSON(cmd, map[string]any{"goal": goal})
			})
		},
	}
	createCmd.Flags().StringVar(&title, "title", "", "goal title")
	createCmd.Flags().IntVar(&frequency, "frequency", 1, "desired completions per week (1-7)")
	_ = createCmd.MarkFlagRequired("title")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List goals that exist this week",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				goals, err := a.GoalService.Goals(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd, map[string]any{"goals": goals})
			})
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <goal-id>",
		Short: "Show a single goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				goal, err := a.GoalService.Goal(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd, map[string]any{"goal": goal})
			})
		},
	}

	goalsCmd.AddCommand(createCmd, listCmd, showCmd)
	return goalsCmd
}

func CompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <goal-id>",
		Short: "Record a completion of a goal for the current week",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				snapshot, err := a.GoalService.RecordCompletion(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd, map[string]any{"goalCompletion": snapshot})
			})
		},
	}
}

func PendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "Show this week's goals with their completion counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				pending, err := a.GoalService.PendingGoals(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd, map[string]any{"pendingGoals": pending})
			})
		},
	}
}

func SummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show this week's completions grouped by day",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				summary, err := a.GoalService.WeekSummary(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd, map[string]any{"summary": summary})
			})
		},
	}
}
