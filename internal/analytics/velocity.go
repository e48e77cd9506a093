package analytics

import (
	"math"
	"time"

	"tradejournal/internal/models"
)

// DayResult is a single day's outcome.
type DayResult struct {
	Date   time.Time `json:"date"`
	NetPnl float64   `json:"netPnl"`
}

// VelocitySummary summarizes the distribution of daily P&L.
type VelocitySummary struct {
	TradingDays        int        `json:"tradingDays"`
	AvgDaily           float64    `json:"avgDaily"`
	MedianDaily        float64    `json:"medianDaily"`
	GreenDays          int        `json:"greenDays"`
	RedDays            int        `json:"redDays"`
	FlatDays           int        `json:"flatDays"`
	GreenRate          float64    `json:"greenRate"`
	AvgTradesPerActive float64    `json:"avgTradesPerActiveDay"`
	BestDay            *DayResult `json:"bestDay,omitempty"`
	WorstDay           *DayResult `json:"worstDay,omitempty"`
	MonthToDate        float64    `json:"monthToDate"`
	YearToDate         float64    `json:"yearToDate"`
}

// EdgeSummary holds per-trade expectancy and same-unit risk ratios.
// Ratios are not annualized.
type EdgeSummary struct {
	Expectancy       float64 `json:"expectancy"`
	BreakEvenWinRate float64 `json:"breakEvenWinRate"`
	DailyStd         float64 `json:"dailyStd"`
	DownsideDev      float64 `json:"downsideDev"`
	SharpeLike       float64 `json:"sharpeLike"`
	SortinoLike      float64 `json:"sortinoLike"`
}

// ComputeVelocity aggregates the daily series. Month- and year-to-date sums
// filter the series to now's UTC month and year.
func ComputeVelocity(daily []models.DailyPnlPoint, now time.Time) VelocitySummary {
	v := VelocitySummary{TradingDays: len(daily)}
	if len(daily) == 0 {
		return v
	}

	pnls := netPnls(daily)
	v.AvgDaily = mean(pnls)
	v.MedianDaily = median(pnls)

	now = now.UTC()
	var trades, activeDays int
	best, worst := daily[0], daily[0]
	for _, d := range daily {
		switch {
		case d.NetPnl > 0:
			v.GreenDays++
		case d.NetPnl < 0:
			v.RedDays++
		default:
			v.FlatDays++
		}
		if d.TradeCount > 0 {
			activeDays++
			trades += d.TradeCount
		}
		if d.NetPnl > best.NetPnl {
			best = d
		}
		if d.NetPnl < worst.NetPnl {
			worst = d
		}
		if d.Date.Year() == now.Year() {
			v.YearToDate += d.NetPnl
			if d.Date.Month() == now.Month() {
				v.MonthToDate += d.NetPnl
			}
		}
	}

	v.GreenRate = safeDiv(float64(v.GreenDays), float64(len(daily)))
	v.AvgTradesPerActive = safeDiv(float64(trades), float64(activeDays))
	v.BestDay = &DayResult{Date: best.Date, NetPnl: best.NetPnl}
	v.WorstDay = &DayResult{Date: worst.Date, NetPnl: worst.NetPnl}
	return v
}

// ComputeEdge combines trade-level aggregates with daily dispersion. Win
// rate and average win/loss come from stats as-is; stats may be nil.
func ComputeEdge(daily []models.DailyPnlPoint, stats *models.TradeStats) EdgeSummary {
	var e EdgeSummary

	pnls := netPnls(daily)
	m := mean(pnls)
	e.DailyStd = sampleStdDev(pnls)
	e.DownsideDev = downsideDeviation(pnls)
	e.SharpeLike = safeDiv(m, e.DailyStd)
	e.SortinoLike = safeDiv(m, e.DownsideDev)

	if stats != nil && stats.TotalTrades > 0 {
		winRate := normalizeWinRate(stats.WinRate)
		avgWin := math.Abs(stats.AvgWin)
		avgLoss := math.Abs(stats.AvgLoss)
		e.Expectancy = winRate*avgWin - (1-winRate)*avgLoss
		e.BreakEvenWinRate = safeDiv(avgLoss, avgWin+avgLoss)
	}
	return e
}

// normalizeWinRate accepts a fraction, or a percentage from older rows.
func normalizeWinRate(r float64) float64 {
	if r > 1 {
		r /= 100
	}
	return math.Max(0, math.Min(1, r))
}
