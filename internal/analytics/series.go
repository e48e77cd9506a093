package analytics

import (
	"context"
	"sort"

	"tradejournal/internal/models"
)

// SeriesTier records which strategy produced a normalized series.
type SeriesTier string

const (
	TierPrecomputed  SeriesTier = "precomputed"
	TierDailyDerived SeriesTier = "daily_derived"
	TierTradeDerived SeriesTier = "trade_derived"
	TierNone         SeriesTier = "none"
)

// Series is the canonical in-memory input of the engine.
type Series struct {
	Daily       []models.DailyPnlPoint
	Monthly     []models.MonthlyRollup
	DailyTier   SeriesTier
	MonthlyTier SeriesTier
}

// DailyResolver is one link in the daily series chain. An empty result
// passes control to the next resolver; an error aborts the chain.
type DailyResolver interface {
	Tier() SeriesTier
	ResolveDaily(ctx context.Context, userID string) ([]models.DailyPnlPoint, error)
}

// MonthlyResolver is one link in the monthly series chain.
type MonthlyResolver interface {
	Tier() SeriesTier
	ResolveMonthly(ctx context.Context, userID string, daily []models.DailyPnlPoint) ([]models.MonthlyRollup, error)
}

// Normalizer resolves a Series by walking its resolver chains in order.
type Normalizer struct {
	Daily   []DailyResolver
	Monthly []MonthlyResolver
}

// NewNormalizer builds the standard chains: precomputed then trade-derived
// for daily points, precomputed then daily-derived for monthly rollups.
func NewNormalizer(src Source) *Normalizer {
	return &Normalizer{
		Daily: []DailyResolver{
			precomputedDaily{src: src},
			tradeDerivedDaily{src: src},
		},
		Monthly: []MonthlyResolver{
			precomputedMonthly{src: src},
			dailyDerivedMonthly{},
		},
	}
}

// Resolve produces the date-ascending daily and monthly series for a user.
func (n *Normalizer) Resolve(ctx context.Context, userID string) (Series, error) {
	s := Series{DailyTier: TierNone, MonthlyTier: TierNone}

	for _, r := range n.Daily {
		daily, err := r.ResolveDaily(ctx, userID)
		if err != nil {
			return Series{}, err
		}
		if len(daily) > 0 {
			s.Daily = NormalizeDaily(daily)
			s.DailyTier = r.Tier()
			break
		}
	}

	for _, r := range n.Monthly {
		monthly, err := r.ResolveMonthly(ctx, userID, s.Daily)
		if err != nil {
			return Series{}, err
		}
		if len(monthly) > 0 {
			s.Monthly = NormalizeMonthly(monthly)
			s.MonthlyTier = r.Tier()
			break
		}
	}

	return s, nil
}

type precomputedDaily struct{ src Source }

func (precomputedDaily) Tier() SeriesTier { return TierPrecomputed }

func (r precomputedDaily) ResolveDaily(ctx context.Context, userID string) ([]models.DailyPnlPoint, error) {
	points, err := r.src.FetchDailyPerformance(ctx, userID)
	if err != nil {
		return nil, storeErr("daily_performance", userID, err)
	}
	return points, nil
}

type tradeDerivedDaily struct{ src Source }

func (tradeDerivedDaily) Tier() SeriesTier { return TierTradeDerived }

func (r tradeDerivedDaily) ResolveDaily(ctx context.Context, userID string) ([]models.DailyPnlPoint, error) {
	trades, err := r.src.FetchClosedTrades(ctx, userID)
	if err != nil {
		return nil, storeErr("trades", userID, err)
	}
	return DailyFromTrades(trades), nil
}

type precomputedMonthly struct{ src Source }

func (precomputedMonthly) Tier() SeriesTier { return TierPrecomputed }

func (r precomputedMonthly) ResolveMonthly(ctx context.Context, userID string, _ []models.DailyPnlPoint) ([]models.MonthlyRollup, error) {
	rows, err := r.src.FetchMonthlyPerformance(ctx, userID)
	if err != nil {
		return nil, storeErr("monthly_performance", userID, err)
	}
	return rows, nil
}

type dailyDerivedMonthly struct{}

func (dailyDerivedMonthly) Tier() SeriesTier { return TierDailyDerived }

func (dailyDerivedMonthly) ResolveMonthly(_ context.Context, _ string, daily []models.DailyPnlPoint) ([]models.MonthlyRollup, error) {
	return MonthlyFromDaily(daily), nil
}

// DailyFromTrades groups closed trades by the UTC calendar day they closed on.
// Trades without a close time are dropped.
func DailyFromTrades(trades []models.ClosedTrade) []models.DailyPnlPoint {
	byDay := make(map[string]*models.DailyPnlPoint)
	for _, t := range trades {
		if t.ClosedAt.IsZero() {
			continue
		}
		day := models.UTCDate(t.ClosedAt)
		key := models.DateKey(day)
		p, ok := byDay[key]
		if !ok {
			p = &models.DailyPnlPoint{Date: day}
			byDay[key] = p
		}
		p.NetPnl += t.TotalReturn
		p.TradeCount++
		p.TotalVolume += t.Volume
		switch {
		case t.TotalReturn > 0:
			p.WinCount++
		case t.TotalReturn < 0:
			p.LossCount++
		}
	}

	out := make([]models.DailyPnlPoint, 0, len(byDay))
	for _, p := range byDay {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// MonthlyFromDaily rolls daily points up by UTC year-month. Win and loss
// counts are summed from the daily aggregates, not recomputed from trades.
func MonthlyFromDaily(daily []models.DailyPnlPoint) []models.MonthlyRollup {
	var out []models.MonthlyRollup
	idx := make(map[string]int)
	for _, d := range daily {
		key := models.MonthKey(d.Date)
		i, ok := idx[key]
		if !ok {
			out = append(out, models.MonthlyRollup{
				Month:    models.MonthStart(d.Date),
				BestDay:  d.NetPnl,
				WorstDay: d.NetPnl,
			})
			i = len(out) - 1
			idx[key] = i
		}
		m := &out[i]
		m.NetPnl += d.NetPnl
		m.TradeCount += d.TradeCount
		m.WinCount += d.WinCount
		m.LossCount += d.LossCount
		switch {
		case d.NetPnl > 0:
			m.GreenDays++
		case d.NetPnl < 0:
			m.RedDays++
		}
		if d.NetPnl > m.BestDay {
			m.BestDay = d.NetPnl
		}
		if d.NetPnl < m.WorstDay {
			m.WorstDay = d.NetPnl
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out
}

// NormalizeDaily pins dates to UTC midnight, merges duplicate days and sorts ascending.
func NormalizeDaily(points []models.DailyPnlPoint) []models.DailyPnlPoint {
	out := make([]models.DailyPnlPoint, 0, len(points))
	idx := make(map[string]int, len(points))
	for _, p := range points {
		if p.Date.IsZero() {
			continue
		}
		p.Date = models.UTCDate(p.Date)
		key := models.DateKey(p.Date)
		if i, ok := idx[key]; ok {
			m := &out[i]
			m.NetPnl += p.NetPnl
			m.TradeCount += p.TradeCount
			m.WinCount += p.WinCount
			m.LossCount += p.LossCount
			m.TotalVolume += p.TotalVolume
			continue
		}
		idx[key] = len(out)
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// NormalizeMonthly pins months to their first UTC day and sorts ascending.
func NormalizeMonthly(rows []models.MonthlyRollup) []models.MonthlyRollup {
	out := make([]models.MonthlyRollup, 0, len(rows))
	for _, r := range rows {
		if r.Month.IsZero() {
			continue
		}
		r.Month = models.MonthStart(r.Month)
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out
}

func netPnls(daily []models.DailyPnlPoint) []float64 {
	out := make([]float64, len(daily))
	for i, d := range daily {
		out[i] = d.NetPnl
	}
	return out
}
