package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tradejournal/internal/analytics"
	"tradejournal/internal/models"
)

// addReportCommands adds the performance report command.
func addReportCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newReportCmd(app))
}

func newReportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show a user's performance report",
		Long: `Compute the full performance report for a user: equity and drawdown,
daily velocity, edge, projections, monthly breakdown and journal insights.`,
		Example: `  tradejournal report --user alice
  tradejournal report --user alice --curve
  tradejournal report --user alice --json`,
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
			report, err := engine.PerformanceReport(ctx, user)
			if err != nil {
				output.Error("Failed to compute report: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(report)
			}

			if status, err := app.Store.AggregateStatus(ctx, user); err == nil && status.Stale {
				output.Warning("⚠ Trades changed since the last recompute. Run 'tradejournal stats recompute --user %s'.", user)
				output.Println()
			}

			showCurve, _ := cmd.Flags().GetBool("curve")
			renderReport(output, report, showCurve)
			return nil
		},
	}

	cmd.Flags().String("user", "", "user ID")
	cmd.Flags().Bool("curve", false, "include the daily equity curve")
	return cmd
}

func renderReport(output *Output, r *analytics.Report, showCurve bool) {
	output.Bold("Performance Report - %s", r.UserID)
	output.Dim("Generated %s  •  daily: %s  •  monthly: %s",
		r.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"), r.Sources.Daily, r.Sources.Monthly)
	output.Println()

	if r.NoData {
		output.Info("No trading data recorded for %s yet.", r.UserID)
		output.Dim("Tip: add trades with 'tradejournal trade add' or 'tradejournal trade import'.")
		return
	}

	var finalEquity float64
	if n := len(r.EquityCurve); n > 0 {
		finalEquity = r.EquityCurve[n-1].Equity
	}
	dd := r.DrawdownMeta
	output.Box("Equity", []string{
		fmt.Sprintf("Net P&L:          %s", output.FormatPnL(finalEquity)),
		fmt.Sprintf("Max Drawdown:     %s", output.Red(FormatMoney(dd.MaxDrawdownAbs))),
		fmt.Sprintf("Drawdown Window:  %s", FormatWindow(dd.MaxDrawdownWindow.Start, dd.MaxDrawdownWindow.End)),
		fmt.Sprintf("Longest Drawdown: %d days (%s)", dd.MaxDrawdownDurationDays,
			FormatWindow(dd.MaxDrawdownDurationWindow.Start, dd.MaxDrawdownDurationWindow.End)),
		fmt.Sprintf("Recovery Factor:  %s", FormatRatio(dd.RecoveryFactor)),
	})
	output.Println()

	v := r.Velocity
	lines := []string{
		fmt.Sprintf("Trading Days:     %d (%s green / %s red / %d flat)", v.TradingDays,
			output.Green(strconv.Itoa(v.GreenDays)), output.Red(strconv.Itoa(v.RedDays)), v.FlatDays),
		fmt.Sprintf("Green Rate:       %.1f%%", v.GreenRate*100),
		fmt.Sprintf("Avg Daily:        %s", output.FormatPnL(v.AvgDaily)),
		fmt.Sprintf("Median Daily:     %s", output.FormatPnL(v.MedianDaily)),
		fmt.Sprintf("Trades/Day:       %.2f", v.AvgTradesPerActive),
	}
	if v.BestDay != nil {
		lines = append(lines, fmt.Sprintf("Best Day:         %s on %s", output.FormatPnL(v.BestDay.NetPnl), FormatDate(v.BestDay.Date)))
	}
	if v.WorstDay != nil {
		lines = append(lines, fmt.Sprintf("Worst Day:        %s on %s", output.FormatPnL(v.WorstDay.NetPnl), FormatDate(v.WorstDay.Date)))
	}
	lines = append(lines,
		fmt.Sprintf("Month to Date:    %s", output.FormatPnL(v.MonthToDate)),
		fmt.Sprintf("Year to Date:     %s", output.FormatPnL(v.YearToDate)),
	)
	output.Box("Velocity", lines)
	output.Println()

	e := r.Edge
	output.Box("Edge", []string{
		fmt.Sprintf("Expectancy:       %s per trade", output.FormatPnL(e.Expectancy)),
		fmt.Sprintf("Break-even Win %%: %.1f%%", e.BreakEvenWinRate*100),
		fmt.Sprintf("Daily Std Dev:    %s", FormatMoney(e.DailyStd)),
		fmt.Sprintf("Downside Dev:     %s", FormatMoney(e.DownsideDev)),
		fmt.Sprintf("Sharpe-like:      %s", FormatRatio(e.SharpeLike)),
		fmt.Sprintf("Sortino-like:     %s", FormatRatio(e.SortinoLike)),
	})
	output.Println()

	renderProjections(output, r.Projections)
	renderMonthly(output, r.Monthly)
	renderJournal(output, r.Journal.Insights)

	if showCurve {
		output.Bold("Equity Curve")
		table := NewTable(output, "Date", "Equity", "Drawdown")
		for _, p := range r.EquityCurve {
			table.AddRow(FormatDate(p.Date), output.FormatPnL(p.Equity), FormatMoney(p.Drawdown))
		}
		table.Render()
		output.Println()
	}
}

func renderProjections(output *Output, p analytics.Projections) {
	mc := p.MonteCarlo
	output.Bold("Projections")
	output.Dim("%d bootstrap paths, seed %d", mc.Simulations, mc.Seed)
	table := NewTable(output, "Horizon", "Linear", "Expected", "Median", "P10", "P90", "P(profit)")
	for _, h := range mc.Horizons {
		table.AddRow(
			fmt.Sprintf("%dd", h.HorizonDays),
			output.FormatPnL(p.Simple[analytics.HorizonKey(h.HorizonDays)]),
			output.FormatPnL(h.Expected),
			output.FormatPnL(h.Median),
			output.FormatPnL(h.P10),
			output.FormatPnL(h.P90),
			fmt.Sprintf("%.1f%%", h.ProbProfit*100),
		)
	}
	table.Render()
	output.Println()
}

func renderMonthly(output *Output, months []models.MonthlyRollup) {
	if len(months) == 0 {
		return
	}
	output.Bold("Monthly")
	table := NewTable(output, "Month", "Net P&L", "Trades", "Win %", "Green", "Red", "Best", "Worst")
	for _, m := range months {
		winPct := "-"
		if m.TradeCount > 0 {
			winPct = fmt.Sprintf("%.1f%%", float64(m.WinCount)/float64(m.TradeCount)*100)
		}
		table.AddRow(
			models.MonthKey(m.Month),
			output.FormatPnL(m.NetPnl),
			strconv.Itoa(m.TradeCount),
			winPct,
			strconv.Itoa(m.GreenDays),
			strconv.Itoa(m.RedDays),
			FormatPnL(m.BestDay),
			FormatPnL(m.WorstDay),
		)
	}
	table.Render()
	output.Println()
}

func renderJournal(output *Output, insights []analytics.JournalFieldInsights) {
	var found bool
	for _, ins := range insights {
		if len(ins.Groups) > 0 {
			found = true
			break
		}
	}
	if !found {
		output.Dim("No journal entries overlap the trading days.")
		return
	}

	output.Bold("Journal Insights")
	for _, ins := range insights {
		if len(ins.Groups) == 0 {
			continue
		}
		output.Printf("  %s\n", ins.Label)
		table := NewTable(output, "    Answer", "Days", "Avg P&L", "Green %")
		for _, g := range ins.Groups {
			table.AddRow(
				"    "+TruncateString(g.Label, 24),
				strconv.Itoa(g.N),
				output.FormatPnL(g.AvgPnl),
				fmt.Sprintf("%.0f%%", g.GreenRate*100),
			)
		}
		table.Render()
		output.Println()
	}
}
