package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"tradejournal/internal/models"
)

// addJournalCommands adds journal commands.
func addJournalCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Daily journal",
		Long:  "Record and review the daily pre/post-session journal.",
	}

	cmd.AddCommand(newJournalAddCmd(app))
	cmd.AddCommand(newJournalListCmd(app))

	rootCmd.AddCommand(cmd)
}

func fieldFlag(f models.JournalField) string {
	return strings.ReplaceAll(string(f), "_", "-")
}

func newJournalAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record the journal for a day",
		Long: `Record the journal for a day. An existing entry for the same day is
replaced. Answers are free-form categories, e.g. "yes"/"no" or "good"/"poor".`,
		Example: `  tradejournal journal add --user alice --revenge-trading no --sleep-quality good
  tradejournal journal add --user alice --date 2026-10-16 --overtrading yes --notes "chased the open"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			user, err := requireUser(cmd)
			if err != nil {
				return err
			}
			date, _ := cmd.Flags().GetString("date")
			notes, _ := cmd.Flags().GetString("notes")
			if date == "" {
				date = models.DateKey(app.clock())
			}

			entry := &models.JournalEntry{
				UserID:  user,
				Date:    date,
				Answers: make(map[models.JournalField]string),
				Notes:   notes,
			}
			for _, f := range models.TrackedJournalFields {
				v, _ := cmd.Flags().GetString(fieldFlag(f))
				if v = strings.TrimSpace(v); v != "" {
					entry.Answers[f] = strings.ToLower(v)
				}
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()
			s, err := app.dataStore(ctx)
			if err != nil {
				return err
			}
			if err := s.SaveJournalEntry(ctx, entry); err != nil {
				output.Error("Failed to save journal entry: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(entry)
			}
			output.Success("✓ Journal saved for %s (%d answers)", entry.Date, len(entry.Answers))
			return nil
		},
	}

	cmd.Flags().String("user", "", "user ID")
	cmd.Flags().String("date", "", "journal day, YYYY-MM-DD (default: today, UTC)")
	cmd.Flags().String("notes", "", "free-form notes")
	for _, f := range models.TrackedJournalFields {
		cmd.Flags().String(fieldFlag(f), "", f.Label())
	}
	return cmd
}

func newJournalListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journal entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			user, err := requireUser(cmd)
			if err != nil {
				return err
			}
			from, _ := cmd.Flags().GetString("from")
			to, _ := cmd.Flags().GetString("to")

			var r models.DateRange
			if from != "" {
				if r.Start, err = models.ParseDate(from); err != nil {
					return err
				}
			}
			if to != "" {
				if r.End, err = models.ParseDate(to); err != nil {
					return err
				}
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()
			s, err := app.dataStore(ctx)
			if err != nil {
				return err
			}
			entries, err := s.FetchJournalEntries(ctx, user, r)
			if err != nil {
				output.Error("Failed to fetch journal: %v", err)
				return err
			}

			if output.IsJSON() {
				if entries == nil {
					entries = []models.JournalEntry{}
				}
				return output.JSON(entries)
			}
			if len(entries) == 0 {
				output.Info("No journal entries for %s.", user)
				return nil
			}

			headers := []string{"Date"}
			for _, f := range models.TrackedJournalFields {
				headers = append(headers, f.Label())
			}
			headers = append(headers, "Notes")
			table := NewTable(output, headers...)
			for _, e := range entries {
				row := []string{e.Date}
				for _, f := range models.TrackedJournalFields {
					v := e.Answer(f)
					if v == "" {
						v = "-"
					}
					row = append(row, v)
				}
				row = append(row, TruncateString(e.Notes, 40))
				table.AddRow(row...)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().String("user", "", "user ID")
	cmd.Flags().String("from", "", "first day, YYYY-MM-DD")
	cmd.Flags().String("to", "", "last day, YYYY-MM-DD")
	return cmd
}
