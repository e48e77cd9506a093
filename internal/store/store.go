// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"tradejournal/internal/analytics"
	"tradejournal/internal/models"
)

// DataStore defines the interface for data persistence. The read side is
// the analytics Source; the write side feeds it.
type DataStore interface {
	analytics.Source

	// Trades
	SaveTrade(ctx context.Context, trade *models.ClosedTrade) error
	SaveTrades(ctx context.Context, trades []models.ClosedTrade) error

	// Journal
	SaveJournalEntry(ctx context.Context, entry *models.JournalEntry) error

	// Goals
	SaveGoal(ctx context.Context, goal *models.Goal) error
	DeleteGoal(ctx context.Context, userID, goalID string) error

	// Aggregates
	RecomputeAggregates(ctx context.Context, userID string) (*RecomputeResult, error)
	AggregateStatus(ctx context.Context, userID string) (*AggregateStatus, error)

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}

// RecomputeResult reports the rows rebuilt by RecomputeAggregates.
type RecomputeResult struct {
	UserID  string
	Trades  int
	Days    int
	Months  int
	Elapsed time.Duration
}

// AggregateStatus tells whether the precomputed tables reflect the latest
// trade writes for a user.
type AggregateStatus struct {
	UserID         string
	LastTradeWrite time.Time
	LastRecompute  time.Time
	Stale          bool
}
