// Package analytics implements the performance analytics engine: it turns a
// user's daily P&L series into equity and drawdown curves, distribution and
// edge statistics, seeded bootstrap projections, journal correlations and
// goal statuses. Everything is computed on demand and never persisted.
package analytics

import (
	"time"

	"tradejournal/internal/models"
	"tradejournal/internal/workpool"
)

// Options configures the engine.
type Options struct {
	Simulations    int
	Horizons       []int
	BandHorizon    int
	ParallelChunks int
	JournalFields  []models.JournalField
	Goals          GoalThresholds
}

// DefaultOptions returns the standard engine configuration.
func DefaultOptions() Options {
	return Options{
		Simulations:    3000,
		Horizons:       []int{30, 90, 252},
		BandHorizon:    30,
		ParallelChunks: 12,
		JournalFields:  models.TrackedJournalFields,
		Goals:          DefaultGoalThresholds(),
	}
}

// Input is everything one report is computed from.
type Input struct {
	UserID  string
	Series  Series
	Stats   *models.TradeStats
	Journal []models.JournalEntry
	Now     time.Time
}

// SeriesSources reports which tier produced each series.
type SeriesSources struct {
	Daily   SeriesTier `json:"daily"`
	Monthly SeriesTier `json:"monthly"`
}

// JournalSection wraps the per-field insights.
type JournalSection struct {
	Insights []JournalFieldInsights `json:"insights"`
}

// Report is the aggregate result handed to presentation layers. When NoData
// is set every summary is zero-valued and every list is empty.
type Report struct {
	UserID       string                 `json:"userId"`
	GeneratedAt  time.Time              `json:"generatedAt"`
	NoData       bool                   `json:"noData"`
	Sources      SeriesSources          `json:"sources"`
	EquityCurve  []EquityCurvePoint     `json:"equityCurve"`
	DrawdownMeta DrawdownSummary        `json:"drawdownMeta"`
	Velocity     VelocitySummary        `json:"velocity"`
	Edge         EdgeSummary            `json:"edge"`
	Projections  Projections            `json:"projections"`
	Journal      JournalSection         `json:"journal"`
	Monthly      []models.MonthlyRollup `json:"monthly"`
}

// Analyzer is the pure computation over an already-fetched Input.
type Analyzer struct {
	opts      Options
	projector *Projector
}

// NewAnalyzer creates an analyzer. pool may be nil.
func NewAnalyzer(opts Options, pool *workpool.WorkerPool) *Analyzer {
	if opts.JournalFields == nil {
		opts.JournalFields = models.TrackedJournalFields
	}
	return &Analyzer{opts: opts, projector: NewProjector(opts, pool)}
}

// Analyze computes the full report. It treats in as an immutable snapshot.
func (a *Analyzer) Analyze(in Input) *Report {
	daily := in.Series.Daily
	r := &Report{
		UserID:      in.UserID,
		GeneratedAt: in.Now.UTC(),
		NoData:      len(daily) == 0,
		Sources:     SeriesSources{Daily: in.Series.DailyTier, Monthly: in.Series.MonthlyTier},
		Monthly:     in.Series.Monthly,
	}
	if r.Monthly == nil {
		r.Monthly = []models.MonthlyRollup{}
	}

	r.EquityCurve, r.DrawdownMeta = BuildEquityCurve(daily)
	r.Velocity = ComputeVelocity(daily, in.Now)

	if r.NoData {
		r.Monthly = []models.MonthlyRollup{}
	} else {
		r.Edge = ComputeEdge(daily, in.Stats)
	}

	seed := SeedFor(in.UserID, lastDate(daily), len(daily))
	r.Projections = a.projector.Project(netPnls(daily), seed)
	r.Journal = JournalSection{Insights: CorrelateJournal(in.Journal, daily, a.opts.JournalFields)}

	return r
}

func lastDate(daily []models.DailyPnlPoint) time.Time {
	if len(daily) == 0 {
		return time.Time{}
	}
	return daily[len(daily)-1].Date
}
