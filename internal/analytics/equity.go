package analytics

import (
	"time"

	"tradejournal/internal/models"
)

// EquityCurvePoint is the running equity and drawdown after one day.
type EquityCurvePoint struct {
	Date     time.Time `json:"date"`
	Equity   float64   `json:"equity"`
	Drawdown float64   `json:"drawdown"`
}

// DateWindow is an inclusive pair of calendar days. Both are zero when empty.
type DateWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DrawdownSummary describes the deepest and the longest drawdown.
// The two windows are tracked independently and may differ.
type DrawdownSummary struct {
	MaxDrawdownAbs            float64    `json:"maxDrawdownAbs"`
	MaxDrawdownWindow         DateWindow `json:"maxDrawdownWindow"`
	MaxDrawdownDurationDays   int        `json:"maxDrawdownDurationDays"`
	MaxDrawdownDurationWindow DateWindow `json:"maxDrawdownDurationWindow"`
	RecoveryFactor            float64    `json:"recoveryFactor"`
}

// BuildEquityCurve walks an ascending daily series once. Equity starts at 0
// and so does the peak, so a losing first day is already in drawdown.
//
// A drawdown episode starts at the index of the peak it falls from and ends
// on the first day equity makes a new high. Durations are counted in series
// points, not calendar days.
func BuildEquityCurve(daily []models.DailyPnlPoint) ([]EquityCurvePoint, DrawdownSummary) {
	curve := make([]EquityCurvePoint, len(daily))
	var summary DrawdownSummary
	if len(daily) == 0 {
		return curve, summary
	}

	var (
		equity, peak float64
		peakIdx      = -1
		inDrawdown   bool
		episodeStart int

		minDrawdown      float64
		minStart, minEnd = -1, -1
		maxDuration      int
		durStart, durEnd = -1, -1
	)

	closeEpisode := func(end int) {
		if d := end - episodeStart; d > maxDuration {
			maxDuration = d
			durStart, durEnd = episodeStart, end
		}
		inDrawdown = false
	}

	for i, p := range daily {
		equity += p.NetPnl
		if equity > peak {
			peak = equity
			if inDrawdown {
				closeEpisode(i)
			}
			peakIdx = i
		} else if !inDrawdown {
			inDrawdown = true
			episodeStart = peakIdx
			if episodeStart < 0 {
				episodeStart = 0
			}
		}

		dd := equity - peak
		if dd < minDrawdown {
			minDrawdown = dd
			minStart, minEnd = episodeStart, i
		}

		curve[i] = EquityCurvePoint{Date: p.Date, Equity: equity, Drawdown: dd}
	}
	if inDrawdown {
		closeEpisode(len(daily) - 1)
	}

	if minStart >= 0 {
		summary.MaxDrawdownAbs = -minDrawdown
		summary.MaxDrawdownWindow = DateWindow{Start: daily[minStart].Date, End: daily[minEnd].Date}
	}
	summary.MaxDrawdownDurationDays = maxDuration
	if durStart >= 0 {
		summary.MaxDrawdownDurationWindow = DateWindow{Start: daily[durStart].Date, End: daily[durEnd].Date}
	}
	summary.RecoveryFactor = safeDiv(equity, summary.MaxDrawdownAbs)

	return curve, summary
}
