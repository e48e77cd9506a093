package analytics

import (
	"sort"
	"strings"

	"tradejournal/internal/models"
)

// JournalInsightGroup pairs one answer to a journal question with the P&L of
// the days it was logged on. Correlational only.
type JournalInsightGroup struct {
	Label     string  `json:"label"`
	Value     string  `json:"value"`
	N         int     `json:"n"`
	AvgPnl    float64 `json:"avgPnl"`
	GreenRate float64 `json:"greenRate"`
}

// JournalFieldInsights holds the groups for one tracked journal field,
// most-logged answers first.
type JournalFieldInsights struct {
	Field  models.JournalField   `json:"field"`
	Label  string                `json:"label"`
	Groups []JournalInsightGroup `json:"groups"`
}

// CorrelateJournal joins journal entries to daily points by exact date.
// Entries with an unparseable date, no trading day, or an empty answer are
// skipped for that field.
func CorrelateJournal(entries []models.JournalEntry, daily []models.DailyPnlPoint, fields []models.JournalField) []JournalFieldInsights {
	pnlByDay := make(map[string]float64, len(daily))
	for _, d := range daily {
		pnlByDay[models.DateKey(d.Date)] = d.NetPnl
	}

	type joined struct {
		entry models.JournalEntry
		pnl   float64
	}
	matched := make([]joined, 0, len(entries))
	for _, e := range entries {
		day, err := models.ParseDate(e.Date)
		if err != nil {
			continue
		}
		pnl, ok := pnlByDay[models.DateKey(day)]
		if !ok {
			continue
		}
		matched = append(matched, joined{entry: e, pnl: pnl})
	}

	out := make([]JournalFieldInsights, 0, len(fields))
	for _, field := range fields {
		type acc struct {
			n, green int
			total    float64
		}
		groups := make(map[string]*acc)
		for _, m := range matched {
			value := strings.TrimSpace(m.entry.Answer(field))
			if value == "" {
				continue
			}
			a, ok := groups[value]
			if !ok {
				a = &acc{}
				groups[value] = a
			}
			a.n++
			a.total += m.pnl
			if m.pnl > 0 {
				a.green++
			}
		}

		insight := JournalFieldInsights{
			Field:  field,
			Label:  field.Label(),
			Groups: make([]JournalInsightGroup, 0, len(groups)),
		}
		for value, a := range groups {
			insight.Groups = append(insight.Groups, JournalInsightGroup{
				Label:     field.Label(),
				Value:     value,
				N:         a.n,
				AvgPnl:    a.total / float64(a.n),
				GreenRate: float64(a.green) / float64(a.n),
			})
		}
		sort.Slice(insight.Groups, func(i, j int) bool {
			gi, gj := insight.Groups[i], insight.Groups[j]
			if gi.N != gj.N {
				return gi.N > gj.N
			}
			if gi.AvgPnl != gj.AvgPnl {
				return gi.AvgPnl > gj.AvgPnl
			}
			return gi.Value < gj.Value
		})
		out = append(out, insight)
	}
	return out
}
