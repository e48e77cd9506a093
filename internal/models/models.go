// Package models provides domain models for the trading journal.
package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the storage and wire format of calendar dates.
const DateLayout = "2006-01-02"

// MonthLayout is the storage and wire format of calendar months.
const MonthLayout = "2006-01"

// TradeSide represents the direction of a closed trade.
type TradeSide string

const (
	SideLong  TradeSide = "LONG"
	SideShort TradeSide = "SHORT"
)

// UTCDate truncates t to midnight of its UTC calendar day.
func UTCDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a bare calendar date. Full RFC3339 timestamps are accepted
// and reduced to their UTC calendar day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if len(s) == len(DateLayout) {
		d, err := time.ParseInLocation(DateLayout, s, time.UTC)
		if err != nil {
			return time.Time{}, err
		}
		return d, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return UTCDate(t), nil
}

// DateKey formats the UTC calendar day of t.
func DateKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// MonthKey formats the UTC calendar month of t.
func MonthKey(t time.Time) string {
	return t.UTC().Format(MonthLayout)
}

// MonthStart returns the first day of t's UTC calendar month.
func MonthStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// DateRange represents an inclusive range of calendar days.
// A zero Start or End leaves that side open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether day d falls inside the range.
func (r DateRange) Contains(d time.Time) bool {
	if !r.Start.IsZero() && d.Before(UTCDate(r.Start)) {
		return false
	}
	if !r.End.IsZero() && d.After(UTCDate(r.End)) {
		return false
	}
	return true
}
