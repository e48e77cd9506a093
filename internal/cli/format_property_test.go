package cli

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// FormatMoney groups digits by thousands, keeps two decimals and
// round-trips to the value rounded to cents.
func TestPropertyMoneyFormatting(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	grouped := regexp.MustCompile(`^-?\d{1,3}(,\d{3})*\.\d{2}$`)

	properties.Property("FormatMoney uses thousands grouping", prop.ForAll(
		func(amount float64) bool {
			formatted := FormatMoney(amount)
			if !grouped.MatchString(formatted) {
				t.Logf("bad grouping for %f: %s", amount, formatted)
				return false
			}
			return true
		},
		gen.Float64Range(-1e12, 1e12),
	))

	properties.Property("FormatMoney preserves value", prop.ForAll(
		func(amount float64) bool {
			formatted := FormatMoney(amount)
			parsed, err := strconv.ParseFloat(strings.ReplaceAll(formatted, ",", ""), 64)
			if err != nil {
				return false
			}
			return math.Abs(parsed-math.Round(amount*100)/100) <= 0.01
		},
		gen.Float64Range(-1e9, 1e9),
	))

	properties.Property("FormatPnL signs profits", prop.ForAll(
		func(pnl float64) bool {
			formatted := FormatPnL(pnl)
			switch {
			case pnl >= 0.005:
				return strings.HasPrefix(formatted, "+")
			case pnl <= -0.005:
				return strings.HasPrefix(formatted, "-")
			default:
				return formatted == "0.00"
			}
		},
		gen.Float64Range(-1e6, 1e6),
	))

	properties.Property("FormatCompact uses correct units", prop.ForAll(
		func(amount float64) bool {
			formatted := FormatCompact(amount)
			abs := math.Abs(amount)
			switch {
			case abs >= 1e9:
				return strings.HasSuffix(formatted, "B")
			case abs >= 1e6:
				return strings.HasSuffix(formatted, "M")
			case abs >= 1e3:
				return strings.HasSuffix(formatted, "K")
			default:
				return grouped.MatchString(formatted)
			}
		},
		gen.Float64Range(-1e10, 1e10),
	))

	properties.TestingRun(t)
}

func TestFormatMoneyExamples(t *testing.T) {
	testCases := []struct {
		amount   float64
		expected string
	}{
		{0, "0.00"},
		{1, "1.00"},
		{999.999, "1,000.00"},
		{1000, "1,000.00"},
		{123456, "123,456.00"},
		{1234567.891, "1,234,567.89"},
		{-1234.56, "-1,234.56"},
		{-0.001, "0.00"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			if got := FormatMoney(tc.amount); got != tc.expected {
				t.Errorf("FormatMoney(%f) = %s, want %s", tc.amount, got, tc.expected)
			}
		})
	}
}

func TestFormatPercentExamples(t *testing.T) {
	testCases := []struct {
		value    float64
		expected string
	}{
		{0, "0.00%"},
		{1.5, "+1.50%"},
		{-2.5, "-2.50%"},
		{100, "+100.00%"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			if got := FormatPercent(tc.value); got != tc.expected {
				t.Errorf("FormatPercent(%f) = %s, want %s", tc.value, got, tc.expected)
			}
		})
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("revenge_trading", 10); got != "revenge..." {
		t.Errorf("got %q", got)
	}
	if got := TruncateString("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
}
