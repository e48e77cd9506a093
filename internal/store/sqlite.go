package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	apperrors "tradejournal/internal/errors"
	"tradejournal/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db          *sql.DB
	mu          sync.RWMutex
	recomputeAt map[string]time.Time
	now         func() time.Time
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool for concurrent access
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{
		db:          db,
		recomputeAt: make(map[string]time.Time),
		now:         time.Now,
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// IsBusy reports whether err is SQLite lock contention, which another
// attempt may get past.
func IsBusy(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked
	}
	return false
}

// initSchema creates all required tables and indexes. Calendar dates are
// TEXT in YYYY-MM-DD (months YYYY-MM), timestamps TEXT in RFC 3339 UTC.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Closed trades
	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		symbol TEXT NOT NULL,
		side TEXT NOT NULL DEFAULT '',
		quantity REAL NOT NULL DEFAULT 0,
		entry_price REAL NOT NULL DEFAULT 0,
		exit_price REAL NOT NULL DEFAULT 0,
		opened_at TEXT NOT NULL DEFAULT '',
		closed_at TEXT NOT NULL DEFAULT '',
		closed_date TEXT NOT NULL DEFAULT '',
		total_return REAL NOT NULL DEFAULT 0,
		volume REAL NOT NULL DEFAULT 0,
		strategy TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	-- Per-day aggregates derived from trades
	CREATE TABLE IF NOT EXISTS daily_performance (
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		net_pnl REAL NOT NULL,
		trade_count INTEGER NOT NULL,
		win_count INTEGER NOT NULL,
		loss_count INTEGER NOT NULL,
		total_volume REAL NOT NULL,
		PRIMARY KEY (user_id, date)
	);

	-- Per-month aggregates derived from daily_performance
	CREATE TABLE IF NOT EXISTS monthly_performance (
		user_id TEXT NOT NULL,
		month TEXT NOT NULL,
		net_pnl REAL NOT NULL,
		trade_count INTEGER NOT NULL,
		win_count INTEGER NOT NULL,
		loss_count INTEGER NOT NULL,
		green_days INTEGER NOT NULL,
		red_days INTEGER NOT NULL,
		best_day REAL NOT NULL,
		worst_day REAL NOT NULL,
		PRIMARY KEY (user_id, month)
	);

	-- Lifetime trade statistics
	CREATE TABLE IF NOT EXISTS trade_stats (
		user_id TEXT PRIMARY KEY,
		total_pnl REAL NOT NULL,
		win_rate REAL NOT NULL,
		avg_win REAL NOT NULL,
		avg_loss REAL NOT NULL,
		total_trades INTEGER NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Daily journal, one entry per user and day
	CREATE TABLE IF NOT EXISTS journal (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		trading_quality TEXT NOT NULL DEFAULT '',
		revenge_trading TEXT NOT NULL DEFAULT '',
		overtrading TEXT NOT NULL DEFAULT '',
		sleep_quality TEXT NOT NULL DEFAULT '',
		caffeine TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE(user_id, date)
	);

	-- Goals
	CREATE TABLE IF NOT EXISTS goals (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		type TEXT NOT NULL,
		target_value REAL NOT NULL,
		timeframe TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Aggregate freshness per user
	CREATE TABLE IF NOT EXISTS aggregate_status (
		user_id TEXT PRIMARY KEY,
		last_trade_write TEXT NOT NULL DEFAULT '',
		last_recompute TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_trades_user_closed ON trades(user_id, closed_date);
	CREATE INDEX IF NOT EXISTS idx_journal_user_date ON journal(user_id, date);
	CREATE INDEX IF NOT EXISTS idx_goals_user ON goals(user_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Ping checks that the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// ============================================================================
// Trades Methods
// ============================================================================

const insertTradeSQL = `
	INSERT OR REPLACE INTO trades (id, user_id, symbol, side, quantity, entry_price, exit_price, opened_at, closed_at, closed_date, total_return, volume, strategy, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// SaveTrade saves a closed trade. An empty ID is assigned a new UUID.
func (s *SQLiteStore) SaveTrade(ctx context.Context, trade *models.ClosedTrade) error {
	if err := validateTrade(trade); err != nil {
		return err
	}
	if trade.ID == "" {
		trade.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, insertTradeSQL, tradeArgs(trade, s.now())...); err != nil {
		return fmt.Errorf("failed to save trade: %w", err)
	}
	if err := s.touchTradeWrite(ctx, tx, trade.UserID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SaveTrades saves a batch of closed trades in one transaction. The batch
// is rejected as a whole if any trade is invalid.
func (s *SQLiteStore) SaveTrades(ctx context.Context, trades []models.ClosedTrade) error {
	if len(trades) == 0 {
		return nil
	}
	for i := range trades {
		if err := validateTrade(&trades[i]); err != nil {
			return apperrors.Wrapf(err, "trade %d", i)
		}
		if trades[i].ID == "" {
			trades[i].ID = uuid.NewString()
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertTradeSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := s.now()
	users := make(map[string]struct{})
	for i := range trades {
		if _, err := stmt.ExecContext(ctx, tradeArgs(&trades[i], now)...); err != nil {
			return fmt.Errorf("failed to insert trade: %w", err)
		}
		users[trades[i].UserID] = struct{}{}
	}
	for userID := range users {
		if err := s.touchTradeWrite(ctx, tx, userID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func validateTrade(t *models.ClosedTrade) error {
	if strings.TrimSpace(t.UserID) == "" {
		return apperrors.NewValidationError("user_id", t.UserID, "required")
	}
	if strings.TrimSpace(t.Symbol) == "" {
		return apperrors.NewValidationError("symbol", t.Symbol, "required")
	}
	if t.Side != "" && t.Side != models.SideLong && t.Side != models.SideShort {
		return apperrors.NewValidationError("side", t.Side, "must be LONG or SHORT")
	}
	return nil
}

func tradeArgs(t *models.ClosedTrade, now time.Time) []interface{} {
	closedDate := ""
	if !t.ClosedAt.IsZero() {
		closedDate = models.DateKey(t.ClosedAt)
	}
	return []interface{}{
		t.ID, t.UserID, strings.ToUpper(t.Symbol), string(t.Side), t.Quantity, t.EntryPrice, t.ExitPrice,
		formatTime(t.OpenedAt), formatTime(t.ClosedAt), closedDate, t.TotalReturn, t.Volume, t.Strategy,
		formatTime(now),
	}
}

// FetchClosedTrades returns a user's trades ordered by close time.
func (s *SQLiteStore) FetchClosedTrades(ctx context.Context, userID string) ([]models.ClosedTrade, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, symbol, side, quantity, entry_price, exit_price, opened_at, closed_at, total_return, volume, strategy
		FROM trades
		WHERE user_id = ?
		ORDER BY closed_at ASC, id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []models.ClosedTrade
	for rows.Next() {
		var t models.ClosedTrade
		var side, openedAt, closedAt string
		if err := rows.Scan(&t.ID, &t.UserID, &t.Symbol, &side, &t.Quantity, &t.EntryPrice, &t.ExitPrice, &openedAt, &closedAt, &t.TotalReturn, &t.Volume, &t.Strategy); err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		t.Side = models.TradeSide(side)
		t.OpenedAt = parseTime(openedAt)
		t.ClosedAt = parseTime(closedAt)
		trades = append(trades, t)
	}

	return trades, rows.Err()
}

// ============================================================================
// Performance Methods
// ============================================================================

// FetchDailyPerformance returns the precomputed daily series, ascending.
// Rows with an unparseable date are skipped.
func (s *SQLiteStore) FetchDailyPerformance(ctx context.Context, userID string) ([]models.DailyPnlPoint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, net_pnl, trade_count, win_count, loss_count, total_volume
		FROM daily_performance
		WHERE user_id = ?
		ORDER BY date ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily performance: %w", err)
	}
	defer rows.Close()

	var points []models.DailyPnlPoint
	for rows.Next() {
		var p models.DailyPnlPoint
		var date string
		if err := rows.Scan(&date, &p.NetPnl, &p.TradeCount, &p.WinCount, &p.LossCount, &p.TotalVolume); err != nil {
			return nil, fmt.Errorf("failed to scan daily performance: %w", err)
		}
		d, err := models.ParseDate(date)
		if err != nil {
			continue
		}
		p.Date = d
		points = append(points, p)
	}

	return points, rows.Err()
}

// FetchMonthlyPerformance returns the precomputed monthly rollups, ascending.
func (s *SQLiteStore) FetchMonthlyPerformance(ctx context.Context, userID string) ([]models.MonthlyRollup, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT month, net_pnl, trade_count, win_count, loss_count, green_days, red_days, best_day, worst_day
		FROM monthly_performance
		WHERE user_id = ?
		ORDER BY month ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly performance: %w", err)
	}
	defer rows.Close()

	var rollups []models.MonthlyRollup
	for rows.Next() {
		var m models.MonthlyRollup
		var month string
		if err := rows.Scan(&month, &m.NetPnl, &m.TradeCount, &m.WinCount, &m.LossCount, &m.GreenDays, &m.RedDays, &m.BestDay, &m.WorstDay); err != nil {
			return nil, fmt.Errorf("failed to scan monthly performance: %w", err)
		}
		t, err := time.ParseInLocation(models.MonthLayout, month, time.UTC)
		if err != nil {
			continue
		}
		m.Month = t
		rollups = append(rollups, m)
	}

	return rollups, rows.Err()
}

// FetchAggregateTradeStats returns the lifetime statistics row, or nil when
// none has been computed.
func (s *SQLiteStore) FetchAggregateTradeStats(ctx context.Context, userID string) (*models.TradeStats, error) {
	var st models.TradeStats
	err := s.db.QueryRowContext(ctx, `
		SELECT total_pnl, win_rate, avg_win, avg_loss, total_trades
		FROM trade_stats
		WHERE user_id = ?
	`, userID).Scan(&st.TotalPnl, &st.WinRate, &st.AvgWin, &st.AvgLoss, &st.TotalTrades)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trade stats: %w", err)
	}
	return &st, nil
}

// RecomputeAggregates rebuilds daily_performance, monthly_performance and
// trade_stats for a user from the trades table in one transaction.
// Trades are bucketed by UTC close date; trades without a close time are ignored.
func (s *SQLiteStore) RecomputeAggregates(ctx context.Context, userID string) (*RecomputeResult, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("user_id", userID, "required")
	}
	start := time.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"daily_performance", "monthly_performance", "trade_stats"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE user_id = ?", userID); err != nil {
			return nil, fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO daily_performance (user_id, date, net_pnl, trade_count, win_count, loss_count, total_volume)
		SELECT user_id, closed_date,
			SUM(total_return),
			COUNT(*),
			SUM(CASE WHEN total_return > 0 THEN 1 ELSE 0 END),
			SUM(CASE WHEN total_return < 0 THEN 1 ELSE 0 END),
			SUM(volume)
		FROM trades
		WHERE user_id = ? AND closed_date != ''
		GROUP BY user_id, closed_date
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild daily performance: %w", err)
	}
	days, _ := res.RowsAffected()

	res, err = tx.ExecContext(ctx, `
		INSERT INTO monthly_performance (user_id, month, net_pnl, trade_count, win_count, loss_count, green_days, red_days, best_day, worst_day)
		SELECT user_id, substr(date, 1, 7),
			SUM(net_pnl),
			SUM(trade_count),
			SUM(win_count),
			SUM(loss_count),
			SUM(CASE WHEN net_pnl > 0 THEN 1 ELSE 0 END),
			SUM(CASE WHEN net_pnl < 0 THEN 1 ELSE 0 END),
			MAX(net_pnl),
			MIN(net_pnl)
		FROM daily_performance
		WHERE user_id = ?
		GROUP BY user_id, substr(date, 1, 7)
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild monthly performance: %w", err)
	}
	months, _ := res.RowsAffected()

	now := formatTime(s.now())
	_, err = tx.ExecContext(ctx, `
		INSERT INTO trade_stats (user_id, total_pnl, win_rate, avg_win, avg_loss, total_trades, updated_at)
		SELECT user_id,
			SUM(total_return),
			CAST(SUM(CASE WHEN total_return > 0 THEN 1 ELSE 0 END) AS REAL) / COUNT(*),
			COALESCE(AVG(CASE WHEN total_return > 0 THEN total_return END), 0),
			COALESCE(ABS(AVG(CASE WHEN total_return < 0 THEN total_return END)), 0),
			COUNT(*),
			?
		FROM trades
		WHERE user_id = ? AND closed_date != ''
		GROUP BY user_id
	`, now, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild trade stats: %w", err)
	}

	var trades int
	if err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM trades WHERE user_id = ? AND closed_date != ''
	`, userID).Scan(&trades); err != nil {
		return nil, fmt.Errorf("failed to count trades: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO aggregate_status (user_id, last_recompute) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET last_recompute = excluded.last_recompute
	`, userID, now); err != nil {
		return nil, fmt.Errorf("failed to record recompute: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.mu.Lock()
	s.recomputeAt[userID] = parseTime(now)
	s.mu.Unlock()

	return &RecomputeResult{
		UserID:  userID,
		Trades:  trades,
		Days:    int(days),
		Months:  int(months),
		Elapsed: time.Since(start),
	}, nil
}

// ============================================================================
// Aggregate Status Methods
// ============================================================================

func (s *SQLiteStore) touchTradeWrite(ctx context.Context, tx *sql.Tx, userID string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO aggregate_status (user_id, last_trade_write) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET last_trade_write = excluded.last_trade_write
	`, userID, formatTime(s.now()))
	if err != nil {
		return fmt.Errorf("failed to record trade write: %w", err)
	}
	return nil
}

// AggregateStatus reports whether trades were written after the last
// recompute. A user with trades but no recompute is stale.
func (s *SQLiteStore) AggregateStatus(ctx context.Context, userID string) (*AggregateStatus, error) {
	var lastWrite, lastRecompute string
	err := s.db.QueryRowContext(ctx, `
		SELECT last_trade_write, last_recompute FROM aggregate_status WHERE user_id = ?
	`, userID).Scan(&lastWrite, &lastRecompute)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get aggregate status: %w", err)
	}

	status := &AggregateStatus{
		UserID:         userID,
		LastTradeWrite: parseTime(lastWrite),
		LastRecompute:  parseTime(lastRecompute),
	}

	s.mu.RLock()
	if t, ok := s.recomputeAt[userID]; ok && t.After(status.LastRecompute) {
		status.LastRecompute = t
	}
	s.mu.RUnlock()

	status.Stale = !status.LastTradeWrite.IsZero() && status.LastTradeWrite.After(status.LastRecompute)
	return status, nil
}

// ============================================================================
// Journal Methods
// ============================================================================

// SaveJournalEntry saves a journal entry, replacing any existing entry for
// the same user and day. The date is normalized to YYYY-MM-DD.
func (s *SQLiteStore) SaveJournalEntry(ctx context.Context, entry *models.JournalEntry) error {
	if strings.TrimSpace(entry.UserID) == "" {
		return apperrors.NewValidationError("user_id", entry.UserID, "required")
	}
	day, err := models.ParseDate(entry.Date)
	if err != nil {
		return apperrors.NewValidationError("date", entry.Date, err.Error())
	}
	entry.Date = models.DateKey(day)
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := s.now()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO journal (id, user_id, date, trading_quality, revenge_trading, overtrading, sleep_quality, caffeine, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.UserID, entry.Date,
		entry.Answer(models.FieldTradingQuality),
		entry.Answer(models.FieldRevengeTrading),
		entry.Answer(models.FieldOvertrading),
		entry.Answer(models.FieldSleepQuality),
		entry.Answer(models.FieldCaffeine),
		entry.Notes, formatTime(entry.CreatedAt), formatTime(entry.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to save journal entry: %w", err)
	}
	return nil
}

// FetchJournalEntries returns a user's journal entries within an inclusive
// date range, ascending. Zero range bounds are open.
func (s *SQLiteStore) FetchJournalEntries(ctx context.Context, userID string, dateRange models.DateRange) ([]models.JournalEntry, error) {
	query := `SELECT id, user_id, date, trading_quality, revenge_trading, overtrading, sleep_quality, caffeine, notes, created_at, updated_at
		FROM journal WHERE user_id = ?`
	args := []interface{}{userID}

	if !dateRange.Start.IsZero() {
		query += " AND date >= ?"
		args = append(args, models.DateKey(dateRange.Start))
	}
	if !dateRange.End.IsZero() {
		query += " AND date <= ?"
		args = append(args, models.DateKey(dateRange.End))
	}
	query += " ORDER BY date ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var entries []models.JournalEntry
	for rows.Next() {
		var e models.JournalEntry
		var quality, revenge, overtrading, sleep, caffeine, createdAt, updatedAt string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Date, &quality, &revenge, &overtrading, &sleep, &caffeine, &e.Notes, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		e.Answers = make(map[models.JournalField]string)
		for field, v := range map[models.JournalField]string{
			models.FieldTradingQuality: quality,
			models.FieldRevengeTrading: revenge,
			models.FieldOvertrading:    overtrading,
			models.FieldSleepQuality:   sleep,
			models.FieldCaffeine:       caffeine,
		} {
			if v != "" {
				e.Answers[field] = v
			}
		}
		e.CreatedAt = parseTime(createdAt)
		e.UpdatedAt = parseTime(updatedAt)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// ============================================================================
// Goals Methods
// ============================================================================

// SaveGoal validates and saves a goal.
func (s *SQLiteStore) SaveGoal(ctx context.Context, goal *models.Goal) error {
	if strings.TrimSpace(goal.UserID) == "" {
		return apperrors.NewValidationError("user_id", goal.UserID, "required")
	}
	if !goal.Type.Valid() {
		return apperrors.NewValidationError("type", goal.Type, "unknown goal type")
	}
	if goal.Timeframe == "" {
		goal.Timeframe = models.TimeframeAllTime
	}
	if !goal.Timeframe.Valid() {
		return apperrors.NewValidationError("timeframe", goal.Timeframe, "unknown timeframe")
	}
	if goal.TargetValue <= 0 {
		return apperrors.NewValidationError("target_value", goal.TargetValue, "must be positive")
	}
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = s.now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO goals (id, user_id, type, target_value, timeframe, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, goal.ID, goal.UserID, string(goal.Type), goal.TargetValue, string(goal.Timeframe), formatTime(goal.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to save goal: %w", err)
	}
	return nil
}

// DeleteGoal removes a goal owned by userID.
func (s *SQLiteStore) DeleteGoal(ctx context.Context, userID, goalID string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM goals WHERE id = ? AND user_id = ?
	`, goalID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("goal %s: %w", goalID, apperrors.ErrDataNotFound)
	}
	return nil
}

// FetchGoals returns a user's goals, oldest first. Stored types are
// returned as-is; unknown types are left for the evaluator to reject.
func (s *SQLiteStore) FetchGoals(ctx context.Context, userID string) ([]models.Goal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, type, target_value, timeframe, created_at
		FROM goals
		WHERE user_id = ?
		ORDER BY created_at ASC, id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		var g models.Goal
		var goalType, timeframe, createdAt string
		if err := rows.Scan(&g.ID, &g.UserID, &goalType, &g.TargetValue, &timeframe, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		g.Type = models.GoalType(goalType)
		g.Timeframe = models.GoalTimeframe(timeframe)
		g.CreatedAt = parseTime(createdAt)
		goals = append(goals, g)
	}

	return goals, rows.Err()
}
