package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/logbook/internal/db"
	"github.com/balkashynov/logbook/internal/tui"
)

var entryCmd = &cobra.Command{
	Use:     "entry",
	Aliases: []string{"e"},
	Short:   "Backfill time with manual entries",
}

var entryAddCmd = &cobra.Command{
	Use:   "add <category> <minutes>",
	Short: "Log minutes for a category on a date",
	Long: `Log minutes for a category. The minutes are added to the category's
observation for the date (today unless --date is given).

Examples:
  logbook entry add reading 45
  logbook entry add "CS 101" 90 --date 2025-01-06 --desc "problem set 2"`,
	Args: cobra.ExactArgs(2),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		session, err := resolveSession(ctx, cmd)
		if err != nil {
			fail(err)
			return
		}
		category, err := db.FindCategory(ctx, session.ID, args[0])
		if err != nil {
			fail(err)
			return
		}
		minutes, err := strconv.Atoi(args[1])
		if err != nil {
			fail(fmt.Errorf("invalid minutes '%s'", args[1]))
			return
		}
		date, err := resolveDate(cmd)
		if err != nil {
			fail(err)
			return
		}

		desc, _ := cmd.Flags().GetString("desc")
		loc, _ := cmd.Flags().GetString("loc")

		entry, err := db.CreateManualEntry(ctx, db.CreateManualEntryRequest{
			SessionID:       session.ID,
			CategoryID:      category.ID,
			Date:            date,
			DurationMinutes: minutes,
			Description:     desc,
			Location:        loc,
		})
		if err != nil {
			fail(err)
			return
		}

		fmt.Printf("✅ Logged %s of %s on %s (entry #%d)\n",
			tui.FormatMinutes(entry.DurationMinutes), entry.CategoryName, entry.Date, entry.ID)
		if entry.Ledger != nil {
			fmt.Printf("   %s now %s · day total %s\n", entry.CategoryName,
				tui.FormatMinutes(entry.Ledger.Minutes), tui.FormatMinutes(entry.Ledger.DayTotal))
		}
	}),
}

var entryRemoveCmd = &cobra.Command{
	Use:     "rm <entry-id>",
	Aliases: []string{"delete"},
	Short:   "Delete a manual entry and take its minutes back out",
	Args:    cobra.ExactArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		id, err := parseID(args[0], "entry")
		if err != nil {
			fail(err)
			return
		}
		ledger, err := db.DeleteManualEntry(cmd.Context(), id)
		if err != nil {
			fail(err)
			return
		}

		fmt.Printf("🗑️  Deleted entry #%d\n", id)
		switch {
		case ledger.Noop:
			fmt.Println("   Nothing left to subtract on that day")
		case ledger.Removed:
			fmt.Printf("   Observation removed · day total %s\n", tui.FormatMinutes(ledger.DayTotal))
		default:
			fmt.Printf("   Category now %s · day total %s\n",
				tui.FormatMinutes(ledger.Minutes), tui.FormatMinutes(ledger.DayTotal))
		}
	}),
}

var entryListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List manual entries for a date",
	Run: withDB(func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		session, err := resolveSession(ctx, cmd)
		if err != nil {
			fail(err)
			return
		}
		date, err := resolveDate(cmd)
		if err != nil {
			fail(err)
			return
		}
		entries, err := db.ListManualEntries(ctx, session.ID, date)
		if err != nil {
			fail(err)
			return
		}
		if len(entries) == 0 {
			fmt.Printf("No manual entries on %s\n", date)
			return
		}

		fmt.Printf("%-5s %-28s %8s  %s\n", "ID", "CATEGORY", "TIME", "DESCRIPTION")
		fmt.Println(strings.Repeat("-", 70))
		for _, e := range entries {
			fmt.Printf("%-5d %-28s %8s  %s\n",
				e.ID, truncate(e.CategoryName, 28), tui.FormatMinutes(e.DurationMinutes), e.Description)
		}
	}),
}

var dayCmd = &cobra.Command{
	Use:   "day [YYYY-MM-DD]",
	Short: "Show everything logged on a day",
	Args:  cobra.MaximumNArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		session, err := resolveSession(ctx, cmd)
		if err != nil {
			fail(err)
			return
		}
		if len(args) == 1 {
			if err := cmd.Flags().Set("date", args[0]); err != nil {
				fail(err)
				return
			}
		}
		date, err := resolveDate(cmd)
		if err != nil {
			fail(err)
			return
		}

		day, err := db.GetDay(ctx, session.ID, date)
		if err != nil {
			fail(err)
			return
		}
		printDay(day)
	}),
}

func printDay(day *db.DayView) {
	header := day.Date
	if day.DayOfWeek != "" {
		header += " " + day.DayOfWeek
	}
	if day.WeekNumber != nil {
		header += fmt.Sprintf(" · week %d", *day.WeekNumber)
	}
	fmt.Printf("📅 %s · %s\n\n", header, tui.FormatMinutes(day.TotalMinutes))

	if len(day.Observations) == 0 {
		fmt.Println("Nothing logged.")
	}
	for _, o := range day.Observations {
		fmt.Printf("  %-30s %8s  %s\n", truncate(o.CategoryName, 30), tui.FormatMinutes(o.Minutes), o.Source)
	}

	if t := day.Text; t != nil {
		fmt.Println()
		if t.Location != "" {
			fmt.Printf("📍 %s\n", t.Location)
		}
		if t.Notes != "" {
			fmt.Printf("📝 %s\n", t.Notes)
		}
		if t.StudyMaterials != "" {
			fmt.Printf("📚 %s\n", t.StudyMaterials)
		}
	}

	if len(day.Timers) > 0 {
		fmt.Println("\nTimers:")
		for _, t := range day.Timers {
			minutes := 0
			if t.DurationMinutes != nil {
				minutes = *t.DurationMinutes
			}
			fmt.Printf("  #%-4d %-26s %8s  %s\n", t.ID, truncate(t.CategoryName, 26), tui.FormatMinutes(minutes), t.Description)
		}
	}
	if len(day.ManualEntries) > 0 {
		fmt.Println("\nManual entries:")
		for _, e := range day.ManualEntries {
			fmt.Printf("  #%-4d %-26s %8s  %s\n", e.ID, truncate(e.CategoryName, 26), tui.FormatMinutes(e.DurationMinutes), e.Description)
		}
	}
}

func init() {
	for _, c := range []*cobra.Command{entryAddCmd, entryListCmd, dayCmd} {
		addSessionFlag(c)
		c.Flags().String("date", "", "Date, YYYY-MM-DD (default today)")
	}
	entryAddCmd.Flags().String("desc", "", "What you worked on")
	entryAddCmd.Flags().String("loc", "", "Where you worked")

	entryCmd.AddCommand(entryAddCmd)
	entryCmd.AddCommand(entryRemoveCmd)
	entryCmd.AddCommand(entryListCmd)
}
