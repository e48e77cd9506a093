package models

import "time"

// GoalType identifies what a goal measures.
type GoalType string

const (
	GoalMonthlyProfit   GoalType = "monthly_profit"
	GoalWinRate         GoalType = "win_rate"
	GoalConsistency     GoalType = "consistency"
	GoalMaxDailyLoss    GoalType = "max_daily_loss"
	GoalMaxTradesPerDay GoalType = "max_trades_per_day"
)

// HigherIsBetter reports the polarity of the goal type.
func (t GoalType) HigherIsBetter() bool {
	switch t {
	case GoalMaxDailyLoss, GoalMaxTradesPerDay:
		return false
	default:
		return true
	}
}

// Valid reports whether t is a known goal type.
func (t GoalType) Valid() bool {
	switch t {
	case GoalMonthlyProfit, GoalWinRate, GoalConsistency, GoalMaxDailyLoss, GoalMaxTradesPerDay:
		return true
	}
	return false
}

// GoalTimeframe selects the window a goal is measured over.
type GoalTimeframe string

const (
	TimeframeDaily   GoalTimeframe = "daily"
	TimeframeWeekly  GoalTimeframe = "weekly"
	TimeframeMonthly GoalTimeframe = "monthly"
	TimeframeYearly  GoalTimeframe = "yearly"
	TimeframeAllTime GoalTimeframe = "all_time"
)

// Valid reports whether tf is a known timeframe.
func (tf GoalTimeframe) Valid() bool {
	switch tf {
	case TimeframeDaily, TimeframeWeekly, TimeframeMonthly, TimeframeYearly, TimeframeAllTime:
		return true
	}
	return false
}

// GoalStatus is the derived state of a goal.
type GoalStatus string

const (
	GoalOnTrack GoalStatus = "on_track"
	GoalAtRisk  GoalStatus = "at_risk"
	GoalBroken  GoalStatus = "broken"
)

// Goal is a user-owned target.
type Goal struct {
	ID          string        `json:"id"`
	UserID      string        `json:"userId"`
	Type        GoalType      `json:"type"`
	TargetValue float64       `json:"targetValue"`
	Timeframe   GoalTimeframe `json:"timeframe"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// EvaluatedGoal is a goal annotated with its current value at read time.
type EvaluatedGoal struct {
	Goal
	CurrentValue float64    `json:"currentValue"`
	Status       GoalStatus `json:"status"`
	ProgressPct  float64    `json:"progressPct"`
}
