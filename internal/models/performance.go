package models

import "time"

// DailyPnlPoint is one calendar day's aggregate trading outcome.
// Date is always a UTC midnight.
type DailyPnlPoint struct {
	Date        time.Time `json:"date"`
	NetPnl      float64   `json:"netPnl"`
	TradeCount  int       `json:"tradeCount"`
	WinCount    int       `json:"winCount"`
	LossCount   int       `json:"lossCount"`
	TotalVolume float64   `json:"totalVolume"`
}

// MonthlyRollup is one calendar month's aggregate.
// Month is the first day of the month at UTC midnight.
type MonthlyRollup struct {
	Month      time.Time `json:"month"`
	NetPnl     float64   `json:"netPnl"`
	TradeCount int       `json:"tradeCount"`
	WinCount   int       `json:"winCount"`
	LossCount  int       `json:"lossCount"`
	GreenDays  int       `json:"greenDays"`
	RedDays    int       `json:"redDays"`
	BestDay    float64   `json:"bestDay"`
	WorstDay   float64   `json:"worstDay"`
}

// TradeStats is the aggregate trade-level statistics row for a user.
// WinRate is a fraction in [0,1]; AvgLoss is a positive magnitude.
type TradeStats struct {
	TotalPnl    float64 `json:"totalPnl"`
	WinRate     float64 `json:"winRate"`
	AvgWin      float64 `json:"avgWin"`
	AvgLoss     float64 `json:"avgLoss"`
	TotalTrades int     `json:"totalTrades"`
}
