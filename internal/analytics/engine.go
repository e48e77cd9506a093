package analytics

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	apperrors "tradejournal/internal/errors"
	"tradejournal/internal/logging"
	"tradejournal/internal/models"
	"tradejournal/internal/workpool"
)

// Source is the storage collaborator the engine reads from. Daily points
// are returned ascending by date; a user without aggregate stats yields nil.
type Source interface {
	FetchDailyPerformance(ctx context.Context, userID string) ([]models.DailyPnlPoint, error)
	FetchMonthlyPerformance(ctx context.Context, userID string) ([]models.MonthlyRollup, error)
	FetchAggregateTradeStats(ctx context.Context, userID string) (*models.TradeStats, error)
	FetchClosedTrades(ctx context.Context, userID string) ([]models.ClosedTrade, error)
	FetchJournalEntries(ctx context.Context, userID string, dateRange models.DateRange) ([]models.JournalEntry, error)
	FetchGoals(ctx context.Context, userID string) ([]models.Goal, error)
}

// Observer receives timing and outcome of engine calls.
type Observer interface {
	ObserveReport(tier SeriesTier, noData bool, duration time.Duration)
	ObserveGoals(evaluated, invalid int, duration time.Duration)
	ObserveFailure(operation string)
}

// Engine fetches a user's data through a Source and runs the Analyzer.
// It holds no per-request state and is safe for concurrent use.
type Engine struct {
	source     Source
	normalizer *Normalizer
	analyzer   *Analyzer
	goals      *GoalEvaluator
	logger     zerolog.Logger
	observer   Observer
	now        func() time.Time
}

// NewEngine creates an engine. pool may be nil for serial projections.
func NewEngine(source Source, opts Options, pool *workpool.WorkerPool, logger zerolog.Logger) *Engine {
	return &Engine{
		source:     source,
		normalizer: NewNormalizer(source),
		analyzer:   NewAnalyzer(opts, pool),
		goals:      NewGoalEvaluator(opts.Goals),
		logger:     logging.WithOperation(logger, "analytics"),
		now:        time.Now,
	}
}

// WithClock overrides the evaluation time source.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// WithObserver attaches an observer.
func (e *Engine) WithObserver(o Observer) *Engine {
	e.observer = o
	return e
}

// PerformanceReport computes the report for a user. Any storage failure
// fails the whole request; a user without data gets a NoData report.
func (e *Engine) PerformanceReport(ctx context.Context, userID string) (*Report, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("user_id", userID, "required")
	}
	start := time.Now()
	log := logging.WithUser(e.logger, userID)

	series, err := e.normalizer.Resolve(ctx, userID)
	if err != nil {
		e.fail("report")
		return nil, err
	}
	log.Debug().
		Str("daily_tier", string(series.DailyTier)).
		Str("monthly_tier", string(series.MonthlyTier)).
		Int("days", len(series.Daily)).
		Msg("Series resolved")

	in := Input{UserID: userID, Series: series, Now: e.now()}

	if len(series.Daily) > 0 {
		in.Stats, err = e.source.FetchAggregateTradeStats(ctx, userID)
		if err != nil {
			e.fail("report")
			return nil, storeErr("trade_stats", userID, err)
		}

		dateRange := models.DateRange{Start: series.Daily[0].Date, End: lastDate(series.Daily)}
		in.Journal, err = e.source.FetchJournalEntries(ctx, userID, dateRange)
		if err != nil {
			e.fail("report")
			return nil, storeErr("journal", userID, err)
		}
	}

	report := e.analyzer.Analyze(in)
	log.Debug().
		Str("seed", strconv.FormatUint(report.Projections.MonteCarlo.Seed, 16)).
		Int("journal_entries", len(in.Journal)).
		Msg("Projection seeded")

	elapsed := time.Since(start)
	logging.LogReport(log, userID, len(series.Daily), report.NoData, elapsed)
	if e.observer != nil {
		e.observer.ObserveReport(series.DailyTier, report.NoData, elapsed)
	}
	return report, nil
}

// EvaluatedGoals annotates every goal of a user with its current value and
// status. Goals that cannot be evaluated are logged and left out.
func (e *Engine) EvaluatedGoals(ctx context.Context, userID string) ([]models.EvaluatedGoal, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("user_id", userID, "required")
	}
	start := time.Now()
	log := logging.WithUser(e.logger, userID)

	goals, err := e.source.FetchGoals(ctx, userID)
	if err != nil {
		e.fail("goals")
		return nil, storeErr("goals", userID, err)
	}
	if len(goals) == 0 {
		return []models.EvaluatedGoal{}, nil
	}

	series, err := e.normalizer.Resolve(ctx, userID)
	if err != nil {
		e.fail("goals")
		return nil, err
	}

	evaluated, errs := e.goals.EvaluateAll(goals, series.Daily, e.now())
	for _, gerr := range errs {
		log.Warn().Err(gerr).Msg("Skipping goal")
	}

	if e.observer != nil {
		e.observer.ObserveGoals(len(evaluated), len(errs), time.Since(start))
	}
	return evaluated, nil
}

func (e *Engine) fail(operation string) {
	if e.observer != nil {
		e.observer.ObserveFailure(operation)
	}
}

func storeErr(dataType, userID string, err error) error {
	return apperrors.StoreError(dataType, userID, err)
}
