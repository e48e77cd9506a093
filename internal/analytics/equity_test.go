package analytics

import (
	"testing"
)

func TestBuildEquityCurveScenario(t *testing.T) {
	daily := seriesOf(100, -50, 200, -300, 50)

	curve, dd := BuildEquityCurve(daily)

	wantEquity := []float64{100, 50, 250, -50, 0}
	wantDrawdown := []float64{0, -50, 0, -300, -250}
	for i := range daily {
		if curve[i].Equity != wantEquity[i] {
			t.Errorf("equity[%d] = %v, want %v", i, curve[i].Equity, wantEquity[i])
		}
		if curve[i].Drawdown != wantDrawdown[i] {
			t.Errorf("drawdown[%d] = %v, want %v", i, curve[i].Drawdown, wantDrawdown[i])
		}
		if !curve[i].Date.Equal(daily[i].Date) {
			t.Errorf("date[%d] = %v, want %v", i, curve[i].Date, daily[i].Date)
		}
	}

	if dd.MaxDrawdownAbs != 300 {
		t.Errorf("MaxDrawdownAbs = %v, want 300", dd.MaxDrawdownAbs)
	}
	if !dd.MaxDrawdownWindow.Start.Equal(daily[2].Date) || !dd.MaxDrawdownWindow.End.Equal(daily[3].Date) {
		t.Errorf("MaxDrawdownWindow = %+v, want day 2 -> day 3", dd.MaxDrawdownWindow)
	}

	// Episode 0->2 recovers on day 2; episode 2->4 is still open at the end.
	if dd.MaxDrawdownDurationDays != 2 {
		t.Errorf("MaxDrawdownDurationDays = %d, want 2", dd.MaxDrawdownDurationDays)
	}
	if !dd.MaxDrawdownDurationWindow.Start.Equal(daily[0].Date) || !dd.MaxDrawdownDurationWindow.End.Equal(daily[2].Date) {
		t.Errorf("MaxDrawdownDurationWindow = %+v, want day 0 -> day 2", dd.MaxDrawdownDurationWindow)
	}
	if dd.RecoveryFactor != 0 {
		t.Errorf("RecoveryFactor = %v, want 0 (total pnl 0)", dd.RecoveryFactor)
	}
}

func TestBuildEquityCurveDurationAndMagnitudeDiffer(t *testing.T) {
	// Sharp -500 dip recovered in two days, then a long shallow -30 stretch.
	daily := seriesOf(100, -500, 600, -10, -10, -10, 5, 5, 5, 5)

	_, dd := BuildEquityCurve(daily)

	if dd.MaxDrawdownAbs != 500 {
		t.Fatalf("MaxDrawdownAbs = %v, want 500", dd.MaxDrawdownAbs)
	}
	if !dd.MaxDrawdownWindow.Start.Equal(daily[0].Date) || !dd.MaxDrawdownWindow.End.Equal(daily[1].Date) {
		t.Errorf("magnitude window = %+v, want day 0 -> day 1", dd.MaxDrawdownWindow)
	}
	// Peak 200 at day 2; equity 170 at day 5, back to 190 at day 9: never recovers.
	if dd.MaxDrawdownDurationDays != 7 {
		t.Errorf("MaxDrawdownDurationDays = %d, want 7", dd.MaxDrawdownDurationDays)
	}
	if !dd.MaxDrawdownDurationWindow.Start.Equal(daily[2].Date) || !dd.MaxDrawdownDurationWindow.End.Equal(daily[9].Date) {
		t.Errorf("duration window = %+v, want day 2 -> day 9", dd.MaxDrawdownDurationWindow)
	}
	if dd.RecoveryFactor != 190.0/500.0 {
		t.Errorf("RecoveryFactor = %v, want %v", dd.RecoveryFactor, 190.0/500.0)
	}
}

func TestBuildEquityCurveLosingStart(t *testing.T) {
	daily := seriesOf(-100, -50, 200)

	curve, dd := BuildEquityCurve(daily)

	if curve[0].Drawdown != -100 || curve[1].Drawdown != -150 || curve[2].Drawdown != 0 {
		t.Errorf("unexpected drawdowns: %+v", curve)
	}
	if dd.MaxDrawdownAbs != 150 {
		t.Errorf("MaxDrawdownAbs = %v, want 150", dd.MaxDrawdownAbs)
	}
	if !dd.MaxDrawdownWindow.Start.Equal(daily[0].Date) || !dd.MaxDrawdownWindow.End.Equal(daily[1].Date) {
		t.Errorf("window = %+v", dd.MaxDrawdownWindow)
	}
	if dd.MaxDrawdownDurationDays != 2 {
		t.Errorf("MaxDrawdownDurationDays = %d, want 2", dd.MaxDrawdownDurationDays)
	}
}

func TestBuildEquityCurveEmptyAndMonotonic(t *testing.T) {
	curve, dd := BuildEquityCurve(nil)
	if len(curve) != 0 || dd != (DrawdownSummary{}) {
		t.Errorf("empty series: curve=%v dd=%+v", curve, dd)
	}

	_, dd = BuildEquityCurve(seriesOf(10, 20, 30))
	if dd.MaxDrawdownAbs != 0 || dd.MaxDrawdownDurationDays != 0 || dd.RecoveryFactor != 0 {
		t.Errorf("monotonic series should have no drawdown: %+v", dd)
	}
	if !dd.MaxDrawdownWindow.Start.IsZero() {
		t.Errorf("expected empty window, got %+v", dd.MaxDrawdownWindow)
	}
}
