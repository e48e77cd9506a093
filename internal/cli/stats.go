package cli

import (
	"time"

	"github.com/spf13/cobra"

	"tradejournal/internal/store"
	"tradejournal/pkg/utils"
)

// addStatsCommands adds aggregate maintenance commands.
func addStatsCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Precomputed aggregate maintenance",
		Long: `Rebuild and inspect the precomputed daily, monthly and trade statistics
tables that reports read first.`,
	}

	cmd.AddCommand(newStatsRecomputeCmd(app))
	cmd.AddCommand(newStatsStatusCmd(app))

	rootCmd.AddCommand(cmd)
}

func newStatsRecomputeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recompute",
		Short: "Rebuild aggregates from closed trades",
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

			result, err := utils.RetryWithResult(ctx, busyRetry(), func() (*store.RecomputeResult, error) {
				return s.RecomputeAggregates(ctx, user)
			})
			if err != nil {
				output.Error("Recompute failed: %v", err)
				return err
			}
			app.Logger.Info().
				Str("user_id", user).
				Int("trades", result.Trades).
				Int("days", result.Days).
				Dur("elapsed", result.Elapsed).
				Msg("Aggregates recomputed")

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"userId":    result.UserID,
					"trades":    result.Trades,
					"days":      result.Days,
					"months":    result.Months,
					"elapsedMs": result.Elapsed.Milliseconds(),
				})
			}
			output.Success("✓ Rebuilt %d days and %d months from %d trades in %s",
				result.Days, result.Months, result.Trades, FormatDuration(result.Elapsed))
			return nil
		},
	}

	cmd.Flags().String("user", "", "user ID")
	return cmd
}

func newStatsStatusCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether aggregates are up to date",
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

			status, err := s.AggregateStatus(ctx, user)
			if err != nil {
				output.Error("Failed to read aggregate status: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"userId":         status.UserID,
					"lastTradeWrite": status.LastTradeWrite,
					"lastRecompute":  status.LastRecompute,
					"stale":          status.Stale,
				})
			}

			output.Bold("Aggregates - %s", user)
			output.Printf("  Last trade write: %s\n", formatStamp(status.LastTradeWrite))
			output.Printf("  Last recompute:   %s\n", formatStamp(status.LastRecompute))
			if status.Stale {
				output.Warning("⚠ Stale: run 'tradejournal stats recompute --user %s'", user)
			} else {
				output.Success("✓ Up to date")
			}
			return nil
		},
	}

	cmd.Flags().String("user", "", "user ID")
	return cmd
}

func formatStamp(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.UTC().Format("2006-01-02 15:04:05 MST")
}
