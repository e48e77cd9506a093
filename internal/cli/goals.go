package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tradejournal/internal/models"
)

// addGoalCommands adds goal evaluation and management commands.
func addGoalCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newGoalsCmd(app))

	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Goal management",
		Long:  "Create and remove trading goals.",
	}
	cmd.AddCommand(newGoalAddCmd(app))
	cmd.AddCommand(newGoalRemoveCmd(app))
	rootCmd.AddCommand(cmd)
}

func newGoalsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Show a user's goals with current value and status",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			user, err := requireUser(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			engine, err := app.engine(ctx)
			if err != nil {
				return err
			}
			goals, err := engine.EvaluatedGoals(ctx, user)
			if err != nil {
				output.Error("Failed to evaluate goals: %v", err)
				return err
			}

			if output.IsJSON() {
				if goals == nil {
					goals = []models.EvaluatedGoal{}
				}
				return output.JSON(goals)
			}

			if len(goals) == 0 {
				output.Info("No goals set for %s.", user)
				output.Dim("Tip: tradejournal goal add --user %s --type monthly_profit --target 5000 --timeframe monthly", user)
				return nil
			}

			output.Bold("Goals - %s", user)
			table := NewTable(output, "ID", "Type", "Timeframe", "Target", "Current", "Progress", "Status")
			for _, g := range goals {
				table.AddRow(
					g.ID,
					string(g.Type),
					string(g.Timeframe),
					formatGoalValue(g.Type, g.TargetValue),
					formatGoalValue(g.Type, g.CurrentValue),
					fmt.Sprintf("%.0f%%", g.ProgressPct),
					output.GoalStatus(string(g.Status)),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().String("user", "", "user ID")
	return cmd
}

func formatGoalValue(t models.GoalType, v float64) string {
	switch t {
	case models.GoalWinRate, models.GoalConsistency:
		return fmt.Sprintf("%.1f%%", v)
	case models.GoalMaxTradesPerDay:
		return fmt.Sprintf("%.0f", v)
	default:
		return FormatMoney(v)
	}
}

func newGoalAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a goal",
		Long: `Add a goal for a user.

Types: monthly_profit, win_rate, consistency, max_daily_loss, max_trades_per_day.
Timeframes: daily, weekly, monthly, yearly, all_time.`,
		Example: `  tradejournal goal add --user alice --type win_rate --target 55 --timeframe monthly
  tradejournal goal add --user alice --type max_daily_loss --target 500 --timeframe daily`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			user, err := requireUser(cmd)
			if err != nil {
				return err
			}
			goalType, _ := cmd.Flags().GetString("type")
			target, _ := cmd.Flags().GetFloat64("target")
			timeframe, _ := cmd.Flags().GetString("timeframe")

			ctx, cancel := commandContext(cmd)
			defer cancel()
			s, err := app.dataStore(ctx)
			if err != nil {
				return err
			}

			goal := &models.Goal{
				UserID:      user,
				Type:        models.GoalType(strings.ToLower(goalType)),
				TargetValue: target,
				Timeframe:   models.GoalTimeframe(strings.ToLower(timeframe)),
				CreatedAt:   app.clock(),
			}
			if err := s.SaveGoal(ctx, goal); err != nil {
				output.Error("Failed to save goal: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(goal)
			}
			output.Success("✓ Goal %s added", goal.ID)
			return nil
		},
	}

	cmd.Flags().String("user", "", "user ID")
	cmd.Flags().String("type", "", "goal type")
	cmd.Flags().Float64("target", 0, "target value (percent for win_rate and consistency)")
	cmd.Flags().String("timeframe", string(models.TimeframeAllTime), "evaluation window")
	cmd.MarkFlagRequired("type")
	cmd.MarkFlagRequired("target")
	return cmd
}

func newGoalRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <goal-id>",
		Aliases: []string{"remove"},
		Short:   "Remove a goal",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			user, err := requireUser(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			s, err := app.dataStore(ctx)
			if err != nil {
				return err
			}

			if err := s.DeleteGoal(ctx, user, args[0]); err != nil {
				output.Error("Failed to remove goal: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]string{"removed": args[0]})
			}
			output.Success("✓ Goal %s removed", args[0])
			return nil
		},
	}

	cmd.Flags().String("user", "", "user ID")
	return cmd
}
