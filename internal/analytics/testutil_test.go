package analytics

import (
	"context"
	"time"

	"tradejournal/internal/models"
)

var baseDay = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

// seriesOf builds consecutive daily points starting at baseDay.
func seriesOf(pnls ...float64) []models.DailyPnlPoint {
	out := make([]models.DailyPnlPoint, len(pnls))
	for i, p := range pnls {
		pt := models.DailyPnlPoint{Date: baseDay.AddDate(0, 0, i), NetPnl: p, TradeCount: 1}
		switch {
		case p > 0:
			pt.WinCount = 1
		case p < 0:
			pt.LossCount = 1
		}
		out[i] = pt
	}
	return out
}

type fakeSource struct {
	daily   []models.DailyPnlPoint
	monthly []models.MonthlyRollup
	stats   *models.TradeStats
	trades  []models.ClosedTrade
	journal []models.JournalEntry
	goals   []models.Goal

	dailyErr   error
	statsErr   error
	tradesErr  error
	journalErr error
	goalsErr   error

	journalRange models.DateRange
}

func (f *fakeSource) FetchDailyPerformance(ctx context.Context, userID string) ([]models.DailyPnlPoint, error) {
	return f.daily, f.dailyErr
}

func (f *fakeSource) FetchMonthlyPerformance(ctx context.Context, userID string) ([]models.MonthlyRollup, error) {
	return f.monthly, nil
}

func (f *fakeSource) FetchAggregateTradeStats(ctx context.Context, userID string) (*models.TradeStats, error) {
	return f.stats, f.statsErr
}

func (f *fakeSource) FetchClosedTrades(ctx context.Context, userID string) ([]models.ClosedTrade, error) {
	return f.trades, f.tradesErr
}

func (f *fakeSource) FetchJournalEntries(ctx context.Context, userID string, r models.DateRange) ([]models.JournalEntry, error) {
	f.journalRange = r
	return f.journal, f.journalErr
}

func (f *fakeSource) FetchGoals(ctx context.Context, userID string) ([]models.Goal, error) {
	return f.goals, f.goalsErr
}
