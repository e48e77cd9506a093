package models

import "time"

// ClosedTrade represents a completed round-trip trade.
type ClosedTrade struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Symbol      string    `json:"symbol"`
	Side        TradeSide `json:"side"`
	Quantity    float64   `json:"quantity"`
	EntryPrice  float64   `json:"entryPrice"`
	ExitPrice   float64   `json:"exitPrice"`
	OpenedAt    time.Time `json:"openedAt"`
	ClosedAt    time.Time `json:"closedAt"`
	TotalReturn float64   `json:"totalReturn"` // realized P&L net of fees
	Volume      float64   `json:"volume"`      // capital committed
	Strategy    string    `json:"strategy,omitempty"`
}

// JournalField names a categorical question answered in a daily journal entry.
type JournalField string

const (
	FieldTradingQuality JournalField = "trading_quality"
	FieldRevengeTrading JournalField = "revenge_trading"
	FieldOvertrading    JournalField = "overtrading"
	FieldSleepQuality   JournalField = "sleep_quality"
	FieldCaffeine       JournalField = "caffeine"
)

// TrackedJournalFields lists the fields correlated against daily P&L, in display order.
var TrackedJournalFields = []JournalField{
	FieldTradingQuality,
	FieldRevengeTrading,
	FieldOvertrading,
	FieldSleepQuality,
	FieldCaffeine,
}

// Label returns the human-readable name of the field.
func (f JournalField) Label() string {
	switch f {
	case FieldTradingQuality:
		return "Trading Quality"
	case FieldRevengeTrading:
		return "Revenge Trading"
	case FieldOvertrading:
		return "Overtrading"
	case FieldSleepQuality:
		return "Sleep Quality"
	case FieldCaffeine:
		return "Caffeine"
	default:
		return string(f)
	}
}

// JournalEntry represents a daily trading journal entry.
// Date is kept as stored so unparseable rows can be dropped at join time.
type JournalEntry struct {
	ID        string                  `json:"id"`
	UserID    string                  `json:"userId"`
	Date      string                  `json:"date"`
	Answers   map[JournalField]string `json:"answers"`
	Notes     string                  `json:"notes,omitempty"`
	CreatedAt time.Time               `json:"createdAt"`
	UpdatedAt time.Time               `json:"updatedAt"`
}

// Answer returns the categorical answer for field, or "" when unset.
func (e JournalEntry) Answer(field JournalField) string {
	if e.Answers == nil {
		return ""
	}
	return e.Answers[field]
}
