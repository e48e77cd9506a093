package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	apperrors "tradejournal/internal/errors"
	"tradejournal/internal/models"
)

type recordingObserver struct {
	reports  int
	tier     SeriesTier
	noData   bool
	goals    int
	invalid  int
	failures []string
}

func (o *recordingObserver) ObserveReport(tier SeriesTier, noData bool, _ time.Duration) {
	o.reports++
	o.tier = tier
	o.noData = noData
}

func (o *recordingObserver) ObserveGoals(evaluated, invalid int, _ time.Duration) {
	o.goals += evaluated
	o.invalid += invalid
}

func (o *recordingObserver) ObserveFailure(operation string) {
	o.failures = append(o.failures, operation)
}

func newTestEngine(src Source) (*Engine, *recordingObserver) {
	opts := DefaultOptions()
	opts.Simulations = 200
	obs := &recordingObserver{}
	now := baseDay.AddDate(0, 0, 3).Add(10 * time.Hour)
	e := NewEngine(src, opts, nil, zerolog.Nop()).
		WithClock(func() time.Time { return now }).
		WithObserver(obs)
	return e, obs
}

func TestPerformanceReportScenario(t *testing.T) {
	src := &fakeSource{
		daily: seriesOf(100, 200, -300, 50),
		stats: &models.TradeStats{TotalPnl: 50, WinRate: 0.75, AvgWin: 116.67, AvgLoss: 300, TotalTrades: 4},
		journal: []models.JournalEntry{
			journalOn(2, map[models.JournalField]string{models.FieldRevengeTrading: "Yes"}),
		},
	}
	e, obs := newTestEngine(src)

	r, err := e.PerformanceReport(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}

	if r.NoData {
		t.Fatal("expected data")
	}
	wantEquity := []float64{100, 300, 0, 50}
	wantDD := []float64{0, 0, -300, -250}
	for i, p := range r.EquityCurve {
		if p.Equity != wantEquity[i] || p.Drawdown != wantDD[i] {
			t.Errorf("point %d = %+v", i, p)
		}
	}
	if r.DrawdownMeta.MaxDrawdownAbs != 300 || r.DrawdownMeta.MaxDrawdownDurationDays != 2 {
		t.Errorf("drawdown meta = %+v", r.DrawdownMeta)
	}
	if r.Sources.Daily != TierPrecomputed || r.Sources.Monthly != TierDailyDerived || len(r.Monthly) != 1 {
		t.Errorf("sources = %+v, monthly = %d", r.Sources, len(r.Monthly))
	}
	if !src.journalRange.Start.Equal(baseDay) || !src.journalRange.End.Equal(baseDay.AddDate(0, 0, 3)) {
		t.Errorf("journal range = %+v", src.journalRange)
	}
	if r.Edge.Expectancy == 0 {
		t.Error("expected non-zero expectancy")
	}
	if obs.reports != 1 || obs.tier != TierPrecomputed || obs.noData {
		t.Errorf("observer = %+v", obs)
	}

	again, err := e.PerformanceReport(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if again.Projections.MonteCarlo.At(30) != r.Projections.MonteCarlo.At(30) {
		t.Error("identical input should project identically")
	}
}

func TestPerformanceReportNoData(t *testing.T) {
	src := &fakeSource{statsErr: errors.New("must not be called")}
	e, obs := newTestEngine(src)

	r, err := e.PerformanceReport(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}

	if !r.NoData || len(r.EquityCurve) != 0 || len(r.Monthly) != 0 {
		t.Errorf("expected empty report, got %+v", r)
	}
	if r.Velocity.AvgDaily != 0 || r.Edge.SharpeLike != 0 {
		t.Errorf("expected zero summaries: %+v %+v", r.Velocity, r.Edge)
	}
	if d30 := r.Projections.MonteCarlo.At(30); d30.ProbProfit != 0 || len(r.Projections.MonteCarlo.Band) != 30 {
		t.Errorf("projection = %+v", r.Projections.MonteCarlo)
	}
	if r.Monthly == nil || r.EquityCurve == nil {
		t.Error("lists should be empty, not nil")
	}
	if !obs.noData || obs.tier != TierNone {
		t.Errorf("observer = %+v", obs)
	}
}

func TestPerformanceReportStoreFailure(t *testing.T) {
	cases := map[string]*fakeSource{
		"daily":   {dailyErr: errors.New("connection refused")},
		"trades":  {tradesErr: errors.New("connection refused")},
		"stats":   {daily: seriesOf(1), statsErr: errors.New("timeout")},
		"journal": {daily: seriesOf(1), journalErr: errors.New("timeout")},
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			e, obs := newTestEngine(src)

			r, err := e.PerformanceReport(context.Background(), "u1")

			if r != nil {
				t.Error("no partial report on failure")
			}
			if !errors.Is(err, apperrors.ErrStoreUnavailable) {
				t.Errorf("expected store unavailable, got %v", err)
			}
			if len(obs.failures) != 1 || obs.failures[0] != "report" {
				t.Errorf("failures = %v", obs.failures)
			}
		})
	}
}

func TestPerformanceReportRequiresUser(t *testing.T) {
	e, _ := newTestEngine(&fakeSource{})
	if _, err := e.PerformanceReport(context.Background(), ""); !errors.Is(err, apperrors.ErrInputValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestEvaluatedGoals(t *testing.T) {
	src := &fakeSource{
		daily: seriesOf(100, 200, -300, 50),
		goals: []models.Goal{
			{ID: "loss", Type: models.GoalMaxDailyLoss, TargetValue: 500, Timeframe: models.TimeframeWeekly},
			{ID: "bogus", Type: "unknown", TargetValue: 1, Timeframe: models.TimeframeWeekly},
			{ID: "profit", Type: models.GoalMonthlyProfit, TargetValue: 100, Timeframe: models.TimeframeMonthly},
		},
	}
	e, obs := newTestEngine(src)

	goals, err := e.EvaluatedGoals(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}

	if len(goals) != 2 || goals[0].ID != "loss" || goals[1].ID != "profit" {
		t.Fatalf("goals = %+v", goals)
	}
	if goals[0].CurrentValue != 300 || goals[0].Status != models.GoalOnTrack {
		t.Errorf("loss goal = %+v", goals[0])
	}
	if goals[1].CurrentValue != 50 || goals[1].Status != models.GoalAtRisk || goals[1].ProgressPct != 50 {
		t.Errorf("profit goal = %+v", goals[1])
	}
	if obs.goals != 2 || obs.invalid != 1 {
		t.Errorf("observer = %+v", obs)
	}
}

func TestEvaluatedGoalsEmptyAndFailure(t *testing.T) {
	e, _ := newTestEngine(&fakeSource{})
	goals, err := e.EvaluatedGoals(context.Background(), "u1")
	if err != nil || goals == nil || len(goals) != 0 {
		t.Errorf("goals = %v, err = %v", goals, err)
	}

	e, _ = newTestEngine(&fakeSource{goalsErr: errors.New("down")})
	if _, err := e.EvaluatedGoals(context.Background(), "u1"); !errors.Is(err, apperrors.ErrStoreUnavailable) {
		t.Errorf("expected store unavailable, got %v", err)
	}
}
