package analytics

import (
	"testing"

	"tradejournal/internal/models"
)

func journalOn(day int, answers map[models.JournalField]string) models.JournalEntry {
	return models.JournalEntry{
		UserID:  "u1",
		Date:    models.DateKey(baseDay.AddDate(0, 0, day)),
		Answers: answers,
	}
}

func TestCorrelateJournalRevengeTrading(t *testing.T) {
	daily := seriesOf(-40, -60, 80)
	entries := []models.JournalEntry{
		journalOn(0, map[models.JournalField]string{models.FieldRevengeTrading: "Yes"}),
		journalOn(1, map[models.JournalField]string{models.FieldRevengeTrading: "Yes"}),
		journalOn(2, map[models.JournalField]string{models.FieldRevengeTrading: "No"}),
	}

	insights := CorrelateJournal(entries, daily, []models.JournalField{models.FieldRevengeTrading})

	if len(insights) != 1 {
		t.Fatalf("got %d insights, want 1", len(insights))
	}
	groups := insights[0].Groups
	if insights[0].Label != "Revenge Trading" || len(groups) != 2 {
		t.Fatalf("unexpected insight %+v", insights[0])
	}

	yes, no := groups[0], groups[1]
	if yes.Value != "Yes" || yes.N != 2 || yes.AvgPnl != -50 || yes.GreenRate != 0 {
		t.Errorf("Yes group = %+v", yes)
	}
	if no.Value != "No" || no.N != 1 || no.AvgPnl != 80 || no.GreenRate != 1 {
		t.Errorf("No group = %+v", no)
	}
}

func TestCorrelateJournalSkipsUnusableEntries(t *testing.T) {
	daily := seriesOf(50, -20)
	entries := []models.JournalEntry{
		{UserID: "u1", Date: "not-a-date", Answers: map[models.JournalField]string{models.FieldCaffeine: "High"}},
		journalOn(5, map[models.JournalField]string{models.FieldCaffeine: "High"}),
		journalOn(0, map[models.JournalField]string{models.FieldCaffeine: "  "}),
		journalOn(1, map[models.JournalField]string{models.FieldCaffeine: " Low "}),
		journalOn(0, nil),
	}

	insights := CorrelateJournal(entries, daily, []models.JournalField{models.FieldCaffeine, models.FieldSleepQuality})

	if len(insights) != 2 {
		t.Fatalf("got %d insights, want 2", len(insights))
	}
	caffeine := insights[0].Groups
	if len(caffeine) != 1 || caffeine[0].Value != "Low" || caffeine[0].N != 1 || caffeine[0].AvgPnl != -20 {
		t.Errorf("caffeine groups = %+v", caffeine)
	}
	if len(insights[1].Groups) != 0 {
		t.Errorf("sleep quality should have no groups, got %+v", insights[1].Groups)
	}
}

func TestCorrelateJournalOrdering(t *testing.T) {
	daily := seriesOf(10, 30, 30, -5)
	entries := []models.JournalEntry{
		journalOn(0, map[models.JournalField]string{models.FieldTradingQuality: "b"}),
		journalOn(1, map[models.JournalField]string{models.FieldTradingQuality: "c"}),
		journalOn(2, map[models.JournalField]string{models.FieldTradingQuality: "a"}),
		journalOn(3, map[models.JournalField]string{models.FieldTradingQuality: "b"}),
	}

	groups := CorrelateJournal(entries, daily, []models.JournalField{models.FieldTradingQuality})[0].Groups

	// b has the most entries; a and c tie on count and average, so value order decides.
	want := []string{"b", "a", "c"}
	for i, v := range want {
		if groups[i].Value != v {
			t.Fatalf("order = %v, want %v", groupValues(groups), want)
		}
	}
}

func groupValues(groups []JournalInsightGroup) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Value
	}
	return out
}
