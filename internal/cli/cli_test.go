package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradejournal/internal/analytics"
	"tradejournal/internal/config"
	apperrors "tradejournal/internal/errors"
	"tradejournal/internal/models"
)

var testNow = time.Date(2026, 10, 16, 18, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := config.Default()
	cfg.Store.Path = filepath.Join(t.TempDir(), "journal.db")
	cfg.Analytics.Simulations = 200
	cfg.Analytics.Workers = 2

	app := &App{
		Config: cfg,
		Logger: zerolog.Nop(),
		now:    func() time.Time { return testNow },
	}
	t.Cleanup(func() { app.Close() })
	return app
}

func run(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, app *App, args ...string) string {
	t.Helper()
	out, err := run(t, app, args...)
	require.NoError(t, err, out)
	return out
}

func TestTradeAddThenReport(t *testing.T) {
	app := newTestApp(t)

	out := mustRun(t, app, "trade", "add", "--json", "--user", "alice", "--symbol", "aapl",
		"--qty", "10", "--entry", "100", "--exit", "110", "--closed", "2026-10-12T15:30:00Z")
	var trade models.ClosedTrade
	require.NoError(t, json.Unmarshal([]byte(out), &trade))
	assert.Equal(t, "AAPL", trade.Symbol)
	assert.Equal(t, models.SideLong, trade.Side)
	assert.InDelta(t, 100, trade.TotalReturn, 1e-9)
	assert.InDelta(t, 1000, trade.Volume, 1e-9)
	assert.NotEmpty(t, trade.ID)

	mustRun(t, app, "trade", "add", "--user", "alice", "--symbol", "msft", "--side", "short",
		"--pnl", "-40", "--closed", "2026-10-13")

	out = mustRun(t, app, "report", "--json", "--user", "alice")
	var report struct {
		NoData  bool `json:"noData"`
		Sources struct {
			Daily   string `json:"daily"`
			Monthly string `json:"monthly"`
		} `json:"sources"`
		EquityCurve []struct {
			Equity float64 `json:"equity"`
		} `json:"equityCurve"`
		DrawdownMeta struct {
			MaxDrawdownAbs float64 `json:"maxDrawdownAbs"`
		} `json:"drawdownMeta"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.False(t, report.NoData)
	assert.Equal(t, string(analytics.TierPrecomputed), report.Sources.Daily)
	assert.Equal(t, string(analytics.TierPrecomputed), report.Sources.Monthly)
	require.Len(t, report.EquityCurve, 2)
	assert.InDelta(t, 60, report.EquityCurve[1].Equity, 1e-9)
	assert.InDelta(t, 40, report.DrawdownMeta.MaxDrawdownAbs, 1e-9)

	text := mustRun(t, app, "report", "--user", "alice")
	assert.Contains(t, text, "Performance Report - alice")
	assert.Contains(t, text, "+60.00")
	assert.Contains(t, text, "2026-10")
}

func TestReportWarnsWhenAggregatesAreStale(t *testing.T) {
	app := newTestApp(t)
	mustRun(t, app, "trade", "add", "--user", "alice", "--symbol", "AAPL", "--pnl", "25",
		"--closed", "2026-10-12", "--no-recompute")

	text := mustRun(t, app, "report", "--user", "alice")
	assert.Contains(t, text, "stats recompute --user alice")
	assert.Contains(t, text, "trade_derived")

	mustRun(t, app, "stats", "recompute", "--user", "alice")
	text = mustRun(t, app, "report", "--user", "alice")
	assert.NotContains(t, text, "stats recompute")
}

func TestReportWithoutData(t *testing.T) {
	app := newTestApp(t)
	text := mustRun(t, app, "report", "--user", "nobody")
	assert.Contains(t, text, "No trading data recorded for nobody")

	out := mustRun(t, app, "report", "--json", "--user", "nobody")
	var report map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, true, report["noData"])
}

func TestCommandsRequireUser(t *testing.T) {
	app := newTestApp(t)
	for _, args := range [][]string{
		{"report"},
		{"goals"},
		{"stats", "recompute"},
		{"journal", "add"},
	} {
		_, err := run(t, app, args...)
		assert.Error(t, err, strings.Join(args, " "))
	}
}

func TestTradeImport(t *testing.T) {
	app := newTestApp(t)
	path := filepath.Join(t.TempDir(), "trades.jsonl")
	lines := []string{
		`{"userId":"bob","symbol":"ES","side":"long","totalReturn":120,"closedAt":"2026-10-12T14:00:00Z"}`,
		`{"userId":"bob","symbol":"ES","side":"SHORT","totalReturn":-30,"closedAt":"2026-10-12T16:00:00Z"}`,
		`not json`,
		``,
		`{"userId":"bob","symbol":"NQ","totalReturn":45,"closedAt":"2026-10-14T14:00:00Z"}`,
	}
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0644))

	out := mustRun(t, app, "trade", "import", path, "--json", "--skip-invalid", "--batch-size", "2")
	var result ImportResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 3, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, []string{"bob"}, result.Users)

	out = mustRun(t, app, "stats", "status", "--json", "--user", "bob")
	var status map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, false, status["stale"])

	daily, err := app.Store.FetchDailyPerformance(context.Background(), "bob")
	require.NoError(t, err)
	require.Len(t, daily, 2)
	assert.InDelta(t, 90, daily[0].NetPnl, 1e-9)
	assert.Equal(t, 2, daily[0].TradeCount)
}

func TestTradeImportStopsOnMalformedLine(t *testing.T) {
	app := newTestApp(t)
	path := filepath.Join(t.TempDir(), "trades.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{\"userId\":\"bob\",\"symbol\":\"ES\"}\n{broken\n"), 0644))

	_, err := run(t, app, "trade", "import", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestTradeImportRebuildsCommittedBatchesOnError(t *testing.T) {
	app := newTestApp(t)
	mustRun(t, app, "trade", "add", "--user", "bob", "--symbol", "ES", "--pnl", "100",
		"--closed", "2026-10-12T15:00:00Z")

	path := filepath.Join(t.TempDir(), "trades.jsonl")
	lines := `{"userId":"bob","symbol":"NQ","totalReturn":500,"closedAt":"2026-10-13T15:00:00Z"}` + "\n{broken\n"
	require.NoError(t, os.WriteFile(path, []byte(lines), 0644))

	_, err := run(t, app, "trade", "import", path, "--json", "--batch-size", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	out := mustRun(t, app, "stats", "status", "--json", "--user", "bob")
	var status map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, false, status["stale"])

	out = mustRun(t, app, "report", "--json", "--user", "bob")
	var report struct {
		Sources struct {
			Daily string `json:"daily"`
		} `json:"sources"`
		EquityCurve []struct {
			Equity float64 `json:"equity"`
		} `json:"equityCurve"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, string(analytics.TierPrecomputed), report.Sources.Daily)
	require.Len(t, report.EquityCurve, 2)
	assert.InDelta(t, 600, report.EquityCurve[1].Equity, 1e-9)
}

func TestImportTradesReportsUsersOfCommittedBatches(t *testing.T) {
	app := newTestApp(t)
	s, err := app.dataStore(context.Background())
	require.NoError(t, err)

	in := strings.NewReader(`{"userId":"dana","symbol":"ES","totalReturn":10,"closedAt":"2026-10-12T14:00:00Z"}` + "\n{broken\n")
	result, err := importTrades(context.Background(), s, in, importOptions{BatchSize: 1})
	require.Error(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, []string{"dana"}, result.Users)
}

func TestImportTradesRejectsInvalidBatch(t *testing.T) {
	app := newTestApp(t)
	s, err := app.dataStore(context.Background())
	require.NoError(t, err)

	in := strings.NewReader(`{"symbol":"ES","totalReturn":10,"closedAt":"2026-10-12T14:00:00Z"}` + "\n")
	result, err := importTrades(context.Background(), s, in, importOptions{BatchSize: 10})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInputValidation)
	assert.Equal(t, 0, result.Imported)

	in = strings.NewReader(`{"symbol":"ES","totalReturn":10,"closedAt":"2026-10-12T14:00:00Z"}` + "\n")
	result, err = importTrades(context.Background(), s, in, importOptions{BatchSize: 10, UserOverride: "carol"})
	require.NoError(t, err)
	assert.Equal(t, []string{"carol"}, result.Users)
}

func TestGoalLifecycle(t *testing.T) {
	app := newTestApp(t)
	mustRun(t, app, "trade", "add", "--user", "alice", "--symbol", "AAPL", "--pnl", "100", "--closed", "2026-10-12")
	mustRun(t, app, "trade", "add", "--user", "alice", "--symbol", "AAPL", "--pnl", "-40", "--closed", "2026-10-13")

	out := mustRun(t, app, "goal", "add", "--json", "--user", "alice", "--type", "WIN_RATE",
		"--target", "50", "--timeframe", "monthly")
	var goal models.Goal
	require.NoError(t, json.Unmarshal([]byte(out), &goal))
	require.NotEmpty(t, goal.ID)
	assert.Equal(t, models.GoalWinRate, goal.Type)

	out = mustRun(t, app, "goals", "--json", "--user", "alice")
	var evaluated []models.EvaluatedGoal
	require.NoError(t, json.Unmarshal([]byte(out), &evaluated))
	require.Len(t, evaluated, 1)
	assert.InDelta(t, 50, evaluated[0].CurrentValue, 1e-9)
	assert.Equal(t, models.GoalOnTrack, evaluated[0].Status)
	assert.InDelta(t, 100, evaluated[0].ProgressPct, 1e-9)

	text := mustRun(t, app, "goals", "--user", "alice")
	assert.Contains(t, text, "ON TRACK")
	assert.Contains(t, text, "50.0%")

	mustRun(t, app, "goal", "rm", goal.ID, "--user", "alice")
	out = mustRun(t, app, "goals", "--json", "--user", "alice")
	assert.JSONEq(t, "[]", out)

	_, err := run(t, app, "goal", "rm", goal.ID, "--user", "alice")
	assert.ErrorIs(t, err, apperrors.ErrDataNotFound)
}

func TestGoalAddRejectsInvalidInput(t *testing.T) {
	app := newTestApp(t)
	_, err := run(t, app, "goal", "add", "--user", "alice", "--type", "sharpe", "--target", "1")
	assert.Error(t, err)
	_, err = run(t, app, "goal", "add", "--user", "alice", "--type", "win_rate", "--target", "-5")
	assert.Error(t, err)
}

func TestJournalAddAndList(t *testing.T) {
	app := newTestApp(t)
	out := mustRun(t, app, "journal", "add", "--json", "--user", "alice",
		"--revenge-trading", "Yes", "--sleep-quality", "poor", "--notes", "tilted after the open")
	var entry models.JournalEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entry))
	assert.Equal(t, "2026-10-16", entry.Date)
	assert.Equal(t, "yes", entry.Answers[models.FieldRevengeTrading])
	assert.Equal(t, "poor", entry.Answers[models.FieldSleepQuality])
	assert.NotContains(t, entry.Answers, models.FieldCaffeine)

	mustRun(t, app, "journal", "add", "--user", "alice", "--date", "2026-10-15", "--caffeine", "high")

	out = mustRun(t, app, "journal", "list", "--json", "--user", "alice", "--from", "2026-10-16")
	var entries []models.JournalEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "tilted after the open", entries[0].Notes)

	text := mustRun(t, app, "journal", "list", "--user", "alice")
	assert.Contains(t, text, "2026-10-15")
	assert.Contains(t, text, "high")
}

func TestEngineOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Analytics.Simulations = 1234
	cfg.Analytics.Horizons = []int{10, 20}
	cfg.Analytics.BandHorizon = 10
	cfg.Goals["win_rate"] = config.GoalThreshold{OnTrackRatio: 0.7, BrokenRatio: 0.4}
	cfg.Goals["made_up"] = config.GoalThreshold{OnTrackRatio: 1, BrokenRatio: 1}

	opts := engineOptions(cfg, zerolog.Nop())
	assert.Equal(t, 1234, opts.Simulations)
	assert.Equal(t, []int{10, 20}, opts.Horizons)
	assert.Equal(t, 10, opts.BandHorizon)
	assert.Equal(t, analytics.GoalThreshold{OnTrackRatio: 0.7, BrokenRatio: 0.4}, opts.Goals[models.GoalWinRate])
	assert.NotContains(t, opts.Goals, models.GoalType("made_up"))
	assert.Equal(t, analytics.DefaultGoalThresholds()[models.GoalMaxDailyLoss], opts.Goals[models.GoalMaxDailyLoss])
}

func TestGrossPnL(t *testing.T) {
	tests := []struct {
		side        models.TradeSide
		entry, exit float64
		want        float64
	}{
		{models.SideLong, 100, 110, 50},
		{models.SideLong, 100, 90, -50},
		{models.SideShort, 100, 90, 50},
		{models.SideShort, 100, 110, -50},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, grossPnL(tt.side, 5, tt.entry, tt.exit), 1e-9)
	}
}

func TestVersionAndConfigCommands(t *testing.T) {
	app := newTestApp(t)

	out := mustRun(t, app, "version", "--json")
	assert.JSONEq(t, `{"version":"`+Version+`","build_date":"`+BuildDate+`"}`, out)

	out = mustRun(t, app, "config", "validate")
	assert.Contains(t, out, "Configuration is valid")

	out = mustRun(t, app, "config", "show")
	assert.Contains(t, out, "Simulations:     200")
	assert.Contains(t, out, "win_rate")
}
