package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tradejournal/internal/models"
	"tradejournal/internal/store"
	"tradejournal/internal/workpool"
)

// addTradeCommands adds closed trade commands.
func addTradeCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Closed trade management",
		Long:  "Record closed trades, one at a time or in bulk.",
	}

	cmd.AddCommand(newTradeAddCmd(app))
	cmd.AddCommand(newTradeImportCmd(app))

	rootCmd.AddCommand(cmd)
}

func newTradeAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a closed trade",
		Long: `Record a closed trade. When --pnl is omitted the realized P&L is derived
from the prices, quantity and side, less --fees.`,
		Example: `  tradejournal trade add --user alice --symbol AAPL --qty 10 --entry 180 --exit 184.5
  tradejournal trade add --user alice --symbol ES --side SHORT --pnl -250 --closed 2026-10-16T15:45:00Z`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			user, err := requireUser(cmd)
			if err != nil {
				return err
			}
			trade, err := tradeFromFlags(cmd, user, app.clock())
			if err != nil {
				return err
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()
			s, err := app.dataStore(ctx)
			if err != nil {
				return err
			}
			if err := s.SaveTrade(ctx, trade); err != nil {
				output.Error("Failed to save trade: %v", err)
				return err
			}

			noRecompute, _ := cmd.Flags().GetBool("no-recompute")
			if !noRecompute {
				if err := app.recompute(ctx, s, user); err != nil {
					output.Error("Failed to recompute aggregates: %v", err)
					return err
				}
			}

			if output.IsJSON() {
				return output.JSON(trade)
			}
			output.Success("✓ Trade %s recorded: %s %s %s", trade.ID, trade.Side, trade.Symbol, output.FormatPnL(trade.TotalReturn))
			return nil
		},
	}

	cmd.Flags().String("user", "", "user ID")
	cmd.Flags().String("symbol", "", "instrument symbol")
	cmd.Flags().String("side", string(models.SideLong), "LONG or SHORT")
	cmd.Flags().Float64("qty", 0, "quantity")
	cmd.Flags().Float64("entry", 0, "average entry price")
	cmd.Flags().Float64("exit", 0, "average exit price")
	cmd.Flags().Float64("fees", 0, "fees and commissions")
	cmd.Flags().Float64("pnl", 0, "realized P&L net of fees (overrides price-derived P&L)")
	cmd.Flags().Float64("volume", 0, "capital committed (default qty × entry)")
	cmd.Flags().String("opened", "", "open time, RFC 3339 or YYYY-MM-DD (default: close time)")
	cmd.Flags().String("closed", "", "close time, RFC 3339 or YYYY-MM-DD (default: now)")
	cmd.Flags().String("strategy", "", "strategy tag")
	cmd.Flags().Bool("no-recompute", false, "skip rebuilding daily and monthly aggregates")
	cmd.MarkFlagRequired("symbol")
	return cmd
}

func tradeFromFlags(cmd *cobra.Command, user string, now time.Time) (*models.ClosedTrade, error) {
	flags := cmd.Flags()
	symbol, _ := flags.GetString("symbol")
	side, _ := flags.GetString("side")
	qty, _ := flags.GetFloat64("qty")
	entry, _ := flags.GetFloat64("entry")
	exit, _ := flags.GetFloat64("exit")
	fees, _ := flags.GetFloat64("fees")
	volume, _ := flags.GetFloat64("volume")
	openedStr, _ := flags.GetString("opened")
	closedStr, _ := flags.GetString("closed")
	strategy, _ := flags.GetString("strategy")

	closedAt := now.UTC()
	if closedStr != "" {
		t, err := parseTimestamp(closedStr)
		if err != nil {
			return nil, fmt.Errorf("invalid --closed: %w", err)
		}
		closedAt = t
	}
	openedAt := closedAt
	if openedStr != "" {
		t, err := parseTimestamp(openedStr)
		if err != nil {
			return nil, fmt.Errorf("invalid --opened: %w", err)
		}
		openedAt = t
	}

	trade := &models.ClosedTrade{
		UserID:     user,
		Symbol:     strings.ToUpper(symbol),
		Side:       models.TradeSide(strings.ToUpper(side)),
		Quantity:   qty,
		EntryPrice: entry,
		ExitPrice:  exit,
		OpenedAt:   openedAt,
		ClosedAt:   closedAt,
		Volume:     volume,
		Strategy:   strategy,
	}
	if trade.Volume == 0 {
		trade.Volume = qty * entry
	}

	if flags.Changed("pnl") {
		trade.TotalReturn, _ = flags.GetFloat64("pnl")
	} else {
		trade.TotalReturn = grossPnL(trade.Side, qty, entry, exit) - fees
	}
	return trade, nil
}

// grossPnL is the price-derived P&L before fees.
func grossPnL(side models.TradeSide, qty, entry, exit float64) float64 {
	if side == models.SideShort {
		return (entry - exit) * qty
	}
	return (exit - entry) * qty
}

// parseTimestamp accepts RFC 3339 timestamps or bare calendar dates.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	return models.ParseDate(s)
}

func newTradeImportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Bulk import closed trades from a JSON lines file",
		Long: `Import closed trades from a file holding one JSON object per line, in
the same shape as 'trade add --json' prints. Use '-' to read standard input.
Trades are written in batches; aggregates are rebuilt for every imported user.`,
		Example: `  tradejournal trade import trades.jsonl
  cat export.jsonl | tradejournal trade import - --user alice`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			user, _ := cmd.Flags().GetString("user")
			batchSize, _ := cmd.Flags().GetInt("batch-size")
			skipInvalid, _ := cmd.Flags().GetBool("skip-invalid")
			noRecompute, _ := cmd.Flags().GetBool("no-recompute")

			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()
			s, err := app.dataStore(ctx)
			if err != nil {
				return err
			}

			result, importErr := importTrades(ctx, s, in, importOptions{
				UserOverride: user,
				BatchSize:    batchSize,
				SkipInvalid:  skipInvalid,
			})

			// Committed batches are rebuilt even when the import stopped early.
			if !noRecompute {
				for _, u := range result.Users {
					if err := app.recompute(ctx, s, u); err != nil {
						output.Error("Failed to recompute aggregates for %s: %v", u, err)
						if importErr != nil {
							return fmt.Errorf("%w (recompute for %s also failed: %v)", importErr, u, err)
						}
						return err
					}
				}
			}
			if importErr != nil {
				output.Error("Import stopped after %d trades: %v", result.Imported, importErr)
				return importErr
			}

			if output.IsJSON() {
				return output.JSON(result)
			}
			output.Success("✓ Imported %d trades for %d user(s)", result.Imported, len(result.Users))
			if result.Skipped > 0 {
				output.Warning("Skipped %d invalid line(s)", result.Skipped)
			}
			return nil
		},
	}

	cmd.Flags().String("user", "", "assign every imported trade to this user")
	cmd.Flags().Int("batch-size", 500, "trades per write transaction")
	cmd.Flags().Bool("skip-invalid", false, "skip malformed lines instead of stopping")
	cmd.Flags().Bool("no-recompute", false, "skip rebuilding daily and monthly aggregates")
	return cmd
}

type importOptions struct {
	UserOverride string
	BatchSize    int
	SkipInvalid  bool
}

// ImportResult summarizes a bulk import.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Users    []string `json:"users"`
}

// importTrades streams JSON lines into the store through a batch processor.
// Batches written before an error stay committed and their users are
// reported in the result alongside the error.
func importTrades(ctx context.Context, s store.DataStore, in io.Reader, opts importOptions) (ImportResult, error) {
	result := ImportResult{Users: []string{}}
	users := make(map[string]struct{})

	batch := workpool.NewBatchProcessor(opts.BatchSize, func(trades []models.ClosedTrade) error {
		if err := s.SaveTrades(ctx, trades); err != nil {
			return err
		}
		result.Imported += len(trades)
		for _, t := range trades {
			if _, ok := users[t.UserID]; !ok {
				users[t.UserID] = struct{}{}
				result.Users = append(result.Users, t.UserID)
			}
		}
		sort.Strings(result.Users)
		return nil
	})

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var trade models.ClosedTrade
		if err := json.Unmarshal([]byte(line), &trade); err != nil {
			if opts.SkipInvalid {
				result.Skipped++
				continue
			}
			return result, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if opts.UserOverride != "" {
			trade.UserID = opts.UserOverride
		}
		trade.Side = models.TradeSide(strings.ToUpper(string(trade.Side)))

		if err := batch.Add(trade); err != nil {
			return result, fmt.Errorf("batch ending at line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return result, err
	}
	if err := batch.Flush(); err != nil {
		return result, fmt.Errorf("final batch: %w", err)
	}
	return result, nil
}
