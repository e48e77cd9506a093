package analytics

import (
	"math"
	"time"

	apperrors "tradejournal/internal/errors"
	"tradejournal/internal/models"
)

// GoalThreshold holds the status multipliers for one goal type.
//
// Higher-is-better: on_track when current >= target*OnTrackRatio, broken
// when current < target*BrokenRatio. Lower-is-better: on_track when
// current < target*OnTrackRatio, broken when current >= target*BrokenRatio.
type GoalThreshold struct {
	OnTrackRatio float64
	BrokenRatio  float64
}

// GoalThresholds maps goal types to their thresholds.
type GoalThresholds map[models.GoalType]GoalThreshold

// DefaultGoalThresholds returns the unconfirmed working defaults.
func DefaultGoalThresholds() GoalThresholds {
	return GoalThresholds{
		models.GoalMonthlyProfit:   {OnTrackRatio: 0.9, BrokenRatio: 0.5},
		models.GoalWinRate:         {OnTrackRatio: 0.9, BrokenRatio: 0.5},
		models.GoalConsistency:     {OnTrackRatio: 0.9, BrokenRatio: 0.5},
		models.GoalMaxDailyLoss:    {OnTrackRatio: 0.9, BrokenRatio: 1.0},
		models.GoalMaxTradesPerDay: {OnTrackRatio: 0.9, BrokenRatio: 1.0},
	}
}

// GoalEvaluator derives current values and statuses from the daily series.
// It never mutates goals.
type GoalEvaluator struct {
	thresholds GoalThresholds
}

// NewGoalEvaluator creates an evaluator. Types missing from th fall back to
// the defaults.
func NewGoalEvaluator(th GoalThresholds) *GoalEvaluator {
	merged := DefaultGoalThresholds()
	for t, v := range th {
		merged[t] = v
	}
	return &GoalEvaluator{thresholds: merged}
}

// Evaluate annotates one goal as of now.
func (e *GoalEvaluator) Evaluate(goal models.Goal, daily []models.DailyPnlPoint, now time.Time) (models.EvaluatedGoal, error) {
	if !goal.Type.Valid() {
		return models.EvaluatedGoal{}, apperrors.NewGoalError(goal.ID, "unknown goal type "+string(goal.Type))
	}
	window, err := GoalWindow(goal.Timeframe, now)
	if err != nil {
		return models.EvaluatedGoal{}, apperrors.NewGoalError(goal.ID, err.Error())
	}

	current := GoalCurrentValue(goal.Type, filterDaily(daily, window))
	th := e.thresholds[goal.Type]

	return models.EvaluatedGoal{
		Goal:         goal,
		CurrentValue: current,
		Status:       GoalStatusFor(goal.Type, current, goal.TargetValue, th),
		ProgressPct:  GoalProgressPct(goal.Type, current, goal.TargetValue),
	}, nil
}

// EvaluateAll evaluates every goal, returning the evaluable ones in input
// order and one error per goal that could not be evaluated.
func (e *GoalEvaluator) EvaluateAll(goals []models.Goal, daily []models.DailyPnlPoint, now time.Time) ([]models.EvaluatedGoal, []error) {
	out := make([]models.EvaluatedGoal, 0, len(goals))
	var errs []error
	for _, g := range goals {
		eg, err := e.Evaluate(g, daily, now)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, eg)
	}
	return out, errs
}

// GoalStatusFor applies the polarity-specific thresholds.
func GoalStatusFor(t models.GoalType, current, target float64, th GoalThreshold) models.GoalStatus {
	if t.HigherIsBetter() {
		switch {
		case current >= target*th.OnTrackRatio:
			return models.GoalOnTrack
		case current < target*th.BrokenRatio:
			return models.GoalBroken
		default:
			return models.GoalAtRisk
		}
	}
	switch {
	case current >= target*th.BrokenRatio:
		return models.GoalBroken
	case current < target*th.OnTrackRatio:
		return models.GoalOnTrack
	default:
		return models.GoalAtRisk
	}
}

// GoalProgressPct is the display progress in [0, 100]. A zero target yields 0.
func GoalProgressPct(t models.GoalType, current, target float64) float64 {
	if target == 0 {
		return 0
	}
	var pct float64
	if t.HigherIsBetter() {
		pct = math.Min(current/target, 1.0) * 100
	} else {
		if current >= target {
			return 0
		}
		pct = (target - current) / target * 100
	}
	return math.Max(0, math.Min(100, pct))
}

// GoalCurrentValue computes the measured value of a goal type over a window.
func GoalCurrentValue(t models.GoalType, daily []models.DailyPnlPoint) float64 {
	switch t {
	case models.GoalMonthlyProfit:
		var total float64
		for _, d := range daily {
			total += d.NetPnl
		}
		return total
	case models.GoalWinRate:
		var wins, trades int
		for _, d := range daily {
			wins += d.WinCount
			trades += d.TradeCount
		}
		return safeDiv(float64(wins), float64(trades)) * 100
	case models.GoalConsistency:
		var green, active int
		for _, d := range daily {
			if d.TradeCount == 0 {
				continue
			}
			active++
			if d.NetPnl > 0 {
				green++
			}
		}
		return safeDiv(float64(green), float64(active)) * 100
	case models.GoalMaxDailyLoss:
		var worst float64
		for _, d := range daily {
			if -d.NetPnl > worst {
				worst = -d.NetPnl
			}
		}
		return worst
	case models.GoalMaxTradesPerDay:
		var most int
		for _, d := range daily {
			if d.TradeCount > most {
				most = d.TradeCount
			}
		}
		return float64(most)
	}
	return 0
}

// GoalWindow returns the UTC day range a timeframe covers as of now.
// Weeks start on Monday.
func GoalWindow(tf models.GoalTimeframe, now time.Time) (models.DateRange, error) {
	today := models.UTCDate(now)
	switch tf {
	case models.TimeframeDaily:
		return models.DateRange{Start: today, End: today}, nil
	case models.TimeframeWeekly:
		offset := (int(today.Weekday()) + 6) % 7
		return models.DateRange{Start: today.AddDate(0, 0, -offset), End: today}, nil
	case models.TimeframeMonthly:
		return models.DateRange{Start: models.MonthStart(today), End: today}, nil
	case models.TimeframeYearly:
		return models.DateRange{Start: time.Date(today.Year(), 1, 1, 0, 0, 0, 0, time.UTC), End: today}, nil
	case models.TimeframeAllTime, "":
		return models.DateRange{End: today}, nil
	}
	return models.DateRange{}, apperrors.NewValidationError("timeframe", tf, "unknown timeframe")
}

func filterDaily(daily []models.DailyPnlPoint, r models.DateRange) []models.DailyPnlPoint {
	out := make([]models.DailyPnlPoint, 0, len(daily))
	for _, d := range daily {
		if r.Contains(d.Date) {
			out = append(out, d)
		}
	}
	return out
}
