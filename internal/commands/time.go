package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/logbook/internal/db"
	"github.com/balkashynov/logbook/internal/tui"
)

var timerCmd = &cobra.Command{
	Use:     "timer",
	Aliases: []string{"t"},
	Short:   "Track time live with pausable timers",
	Long: `Track time live. A stopped timer adds its minutes (rounded, at least 1) to
the category's observation for the day it started.

Commands that take a timer ID fall back to the most recent running or paused
timer of the session when it is omitted.`,
}

var timerStartCmd = &cobra.Command{
	Use:   "start <category>",
	Short: "Start a timer for a category",
	Long: `Start a timer for a category of the session. Opens the interactive timer by
default, use --no-ui for a simple start.

Examples:
  logbook timer start reading          # Start with interactive UI
  logbook timer start 12 --no-ui       # Start category #12 without UI`,
	Args: cobra.ExactArgs(1),
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

		timer, err := db.StartTimer(ctx, session.ID, category.ID)
		if err != nil {
			fail(err)
			return
		}

		if noUI, _ := cmd.Flags().GetBool("no-ui"); noUI {
			fmt.Printf("⏱️  Started timer #%d for %s\n", timer.ID, timer.CategoryName)
			fmt.Printf("Started at: %s\n", timer.StartTime.Local().Format("15:04:05"))
			return
		}
		if err := tui.RunTimerTUI(ctx, timer); err != nil {
			fail(err)
		}
	}),
}

var timerWatchCmd = &cobra.Command{
	Use:   "watch [timer-id]",
	Short: "Open the interactive view of a running or paused timer",
	Args:  cobra.MaximumNArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		timer, err := pickTimer(ctx, cmd, args)
		if err != nil {
			fail(err)
			return
		}
		if err := tui.RunTimerTUI(ctx, timer); err != nil {
			fail(err)
		}
	}),
}

var timerPauseCmd = &cobra.Command{
	Use:   "pause [timer-id]",
	Short: "Pause a running timer",
	Args:  cobra.MaximumNArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		timer, err := pickTimer(ctx, cmd, args)
		if err != nil {
			fail(err)
			return
		}
		paused, err := db.PauseTimer(ctx, timer.ID)
		if err != nil {
			fail(err)
			return
		}
		fmt.Printf("⏸️  Paused timer #%d for %s at %s\n",
			paused.ID, paused.CategoryName, formatDuration(paused.Elapsed(db.Now())))
	}),
}

var timerResumeCmd = &cobra.Command{
	Use:   "resume [timer-id]",
	Short: "Resume a paused timer",
	Args:  cobra.MaximumNArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		timer, err := pickTimer(ctx, cmd, args)
		if err != nil {
			fail(err)
			return
		}
		resumed, err := db.ResumeTimer(ctx, timer.ID)
		if err != nil {
			fail(err)
			return
		}
		fmt.Printf("▶️  Resumed timer #%d for %s (paused %s so far)\n",
			resumed.ID, resumed.CategoryName,
			formatDuration(time.Duration(resumed.TotalPausedSeconds)*time.Second))
	}),
}

var timerStopCmd = &cobra.Command{
	Use:   "stop [timer-id]",
	Short: "Stop a timer and log its minutes",
	Args:  cobra.MaximumNArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		timer, err := pickTimer(ctx, cmd, args)
		if err != nil {
			fail(err)
			return
		}

		desc, _ := cmd.Flags().GetString("desc")
		loc, _ := cmd.Flags().GetString("loc")

		stopped, err := db.StopTimer(ctx, timer.ID, db.StopOptions{Description: desc, Location: loc})
		if err != nil {
			fail(err)
			return
		}
		tui.PrintStopped(stopped)
	}),
}

var timerDiscardCmd = &cobra.Command{
	Use:   "discard [timer-id]",
	Short: "Throw a timer away without logging anything",
	Args:  cobra.MaximumNArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		timer, err := pickTimer(ctx, cmd, args)
		if err != nil {
			fail(err)
			return
		}
		if err := db.DiscardTimer(ctx, timer.ID); err != nil {
			fail(err)
			return
		}
		fmt.Printf("🗑️  Discarded timer #%d for %s\n", timer.ID, timer.CategoryName)
	}),
}

var timerStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show running and paused timers",
	Run: withDB(func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		session, err := resolveSession(ctx, cmd)
		if err != nil {
			fail(err)
			return
		}
		timers, err := db.ActiveTimers(ctx, session.ID)
		if err != nil {
			fail(err)
			return
		}
		if len(timers) == 0 {
			fmt.Println("No running or paused timers")
			return
		}

		now := db.Now()
		for _, t := range timers {
			icon := "⏱️ "
			if t.PauseStart != nil {
				icon = "⏸️ "
			}
			fmt.Printf("%s #%d %s · %s\n", icon, t.ID, t.CategoryName, t.State)
			fmt.Printf("    Started at: %s · Elapsed: %s\n",
				t.StartTime.Local().Format("15:04:05"), formatDuration(t.Elapsed(now)))
		}
	}),
}

// pickTimer returns the timer named by args, or the session's most recent
// running or paused timer.
func pickTimer(ctx context.Context, cmd *cobra.Command, args []string) (*db.TimerResult, error) {
	if len(args) == 1 {
		id, err := parseID(args[0], "timer")
		if err != nil {
			return nil, err
		}
		return db.GetTimer(ctx, id)
	}

	session, err := resolveSession(ctx, cmd)
	if err != nil {
		return nil, err
	}
	timers, err := db.ActiveTimers(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	if len(timers) == 0 {
		return nil, errors.New("no running or paused timer; start one with 'logbook timer start <category>'")
	}
	return &timers[0], nil
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d.Hours() >= 1 {
		return fmt.Sprintf("%.1fh", d.Hours())
	} else if d.Minutes() >= 1 {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	return fmt.Sprintf("%.0fs", d.Seconds())
}

func init() {
	for _, c := range []*cobra.Command{
		timerStartCmd, timerWatchCmd, timerPauseCmd, timerResumeCmd,
		timerStopCmd, timerDiscardCmd, timerStatusCmd,
	} {
		addSessionFlag(c)
		timerCmd.AddCommand(c)
	}

	timerStartCmd.Flags().Bool("no-ui", false, "Start timer without interactive UI")
	timerStopCmd.Flags().String("desc", "", "What you worked on")
	timerStopCmd.Flags().String("loc", "", "Where you worked")
}
