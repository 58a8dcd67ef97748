package commands

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/balkashynov/logbook/internal/db"
	"github.com/balkashynov/logbook/internal/parser"
)

var weekCmd = &cobra.Command{
	Use:   "week [YYYY-MM-DD]",
	Short: "Show a weekly timesheet of hours per category",
	Long: `Show hours per category for the calendar week (Monday to Sunday) containing
the given date, today by default.

Example output:
  Category              Mon  Tue  Wed  Thu  Fri  Sat  Sun  Total
  Reading               1.5  0.8    -    -    -    -    -    2.3
  CS 101 Lecture        1.0    -  1.5    -    -    -    -    2.5
  Total                 2.5  0.8  1.5  0.0  0.0  0.0  0.0    4.8`,
	Args: cobra.MaximumNArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		session, err := resolveSession(ctx, cmd)
		if err != nil {
			fail(err)
			return
		}

		day := db.Now()
		if len(args) == 1 {
			if day, err = parser.ParseDate(args[0]); err != nil {
				fail(err)
				return
			}
		}

		start := getWeekStart(day)
		var week [7]map[string]int
		for i := range week {
			view, err := db.GetDay(ctx, session.ID, parser.FormatDate(start.AddDate(0, 0, i)))
			if err != nil {
				fail(err)
				return
			}
			week[i] = make(map[string]int, len(view.Observations))
			for _, o := range view.Observations {
				week[i][o.CategoryName] += o.Minutes
			}
		}

		fmt.Printf("Session %s · week of %s\n\n", sessionName(session), parser.FormatDate(start))
		displayTimesheet(week)
	}),
}

// getWeekStart returns the Monday of t's calendar week
func getWeekStart(t time.Time) time.Time {
	daysFromMonday := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -daysFromMonday)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, monday.Location())
}

// hours renders minutes as hours with one decimal
func hours(minutes int) string {
	return decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60)).StringFixed(1)
}

// displayTimesheet prints one row per category and one column per weekday
func displayTimesheet(week [7]map[string]int) {
	totals := map[string]int{}
	for _, day := range week {
		for name, m := range day {
			totals[name] += m
		}
	}
	if len(totals) == 0 {
		fmt.Println("No time logged this week.")
		return
	}

	// Most worked first
	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if totals[names[i]] != totals[names[j]] {
			return totals[names[i]] > totals[names[j]]
		}
		return names[i] < names[j]
	})

	nameWidth := 20
	for _, name := range names {
		nameWidth = max(nameWidth, min(len(name), 40))
	}

	dayNames := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	fmt.Printf("%-*s", nameWidth, "Category")
	for _, d := range dayNames {
		fmt.Printf("  %5s", d)
	}
	fmt.Printf("  %6s\n", "Total")
	fmt.Println(strings.Repeat("-", nameWidth+7*7+8))

	var dayTotals [7]int
	grand := 0
	for _, name := range names {
		fmt.Printf("%-*s", nameWidth, truncate(name, nameWidth))
		for i, day := range week {
			if m := day[name]; m > 0 {
				fmt.Printf("  %5s", hours(m))
				dayTotals[i] += m
			} else {
				fmt.Printf("  %5s", "-")
			}
		}
		fmt.Printf("  %6s\n", hours(totals[name]))
		grand += totals[name]
	}

	fmt.Printf("%-*s", nameWidth, "Total")
	for _, m := range dayTotals {
		fmt.Printf("  %5s", hours(m))
	}
	fmt.Printf("  %6s\n", hours(grand))
}

func init() {
	addSessionFlag(weekCmd)
}
