package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/logbook/internal/db"
	"github.com/balkashynov/logbook/internal/tui"
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"sessions"},
	Short:   "Manage sessions (one per year and season)",
}

var sessionListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List sessions, newest first",
	Run: withDB(func(cmd *cobra.Command, args []string) {
		sessions, err := db.ListSessions(cmd.Context())
		if err != nil {
			fail(err)
			return
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions yet. Use 'logbook import <file>' or 'logbook session add <year> <season>'.")
			return
		}

		fmt.Printf("%-4s %-2s %-20s %-10s %-10s %5s %5s %9s\n",
			"ID", "", "LABEL", "START", "END", "CATS", "DAYS", "TOTAL")
		fmt.Println(strings.Repeat("-", 74))
		for _, s := range sessions {
			marker := ""
			if s.IsActive {
				marker = "⭐"
			}
			label := s.Label
			if label == "" {
				label = fmt.Sprintf("%s %d", s.Season, s.Year)
			}
			fmt.Printf("%-4d %-2s %-20s %-10s %-10s %5d %5d %9s\n",
				s.ID, marker, truncate(label, 20), deref(s.StartDate), deref(s.EndDate),
				s.CategoryCount, s.DayCount, tui.FormatMinutes(s.TotalMinutes))
		}
	}),
}

var sessionAddCmd = &cobra.Command{
	Use:   "add <year> <season>",
	Short: "Create an empty session",
	Long: `Create an empty session for a year and season (winter, spring, summer, fall).

Examples:
  logbook session add 2025 spring
  logbook session add 2025 spring --from 3 --start 2025-03-20 --activate`,
	Args: cobra.ExactArgs(2),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		year, err := strconv.Atoi(args[0])
		if err != nil {
			fail(fmt.Errorf("invalid year '%s'", args[0]))
			return
		}

		label, _ := cmd.Flags().GetString("label")
		start, _ := cmd.Flags().GetString("start")
		end, _ := cmd.Flags().GetString("end")
		activate, _ := cmd.Flags().GetBool("activate")

		req := db.CreateSessionRequest{
			Year:      year,
			Season:    strings.ToLower(args[1]),
			Label:     label,
			StartDate: start,
			EndDate:   end,
		}
		if from, _ := cmd.Flags().GetUint("from"); from != 0 {
			req.ContinueFrom = &from
		}

		session, err := db.CreateSession(ctx, req)
		if err != nil {
			fail(err)
			return
		}
		fmt.Printf("✅ Created session %s\n", sessionName(session))

		if activate {
			if _, err := db.ActivateSession(ctx, session.ID); err != nil {
				fail(err)
				return
			}
			fmt.Println("⭐ Session is now active")
		}
	}),
}

var sessionActivateCmd = &cobra.Command{
	Use:   "activate <id>",
	Short: "Make a session the active one",
	Args:  cobra.ExactArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		id, err := parseID(args[0], "session")
		if err != nil {
			fail(err)
			return
		}
		session, err := db.ActivateSession(cmd.Context(), id)
		if err != nil {
			fail(err)
			return
		}
		fmt.Printf("⭐ Active session: %s\n", sessionName(session))
	}),
}

var sessionDeactivateCmd = &cobra.Command{
	Use:   "deactivate <id>",
	Short: "Clear a session's active flag",
	Args:  cobra.ExactArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		id, err := parseID(args[0], "session")
		if err != nil {
			fail(err)
			return
		}
		session, err := db.DeactivateSession(cmd.Context(), id)
		if err != nil {
			fail(err)
			return
		}
		fmt.Printf("⚪ Deactivated session %s\n", sessionName(session))
	}),
}

var sessionRemoveCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a session and everything logged in it",
	Args:    cobra.ExactArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		id, err := parseID(args[0], "session")
		if err != nil {
			fail(err)
			return
		}
		session, err := db.GetSession(ctx, id)
		if err != nil {
			fail(err)
			return
		}

		if force, _ := cmd.Flags().GetBool("force"); !force {
			if !askYesNo(fmt.Sprintf("Delete session %s with all its categories, days and entries?", sessionName(session))) {
				fmt.Println("❌ Cancelled.")
				return
			}
		}

		if err := db.DeleteSession(ctx, id); err != nil {
			fail(err)
			return
		}
		fmt.Printf("🗑️  Deleted session %s\n", sessionName(session))
	}),
}

func init() {
	sessionAddCmd.Flags().String("label", "", "Display label (default \"<Season> <year>\")")
	sessionAddCmd.Flags().String("start", "", "First date, YYYY-MM-DD")
	sessionAddCmd.Flags().String("end", "", "Last date, YYYY-MM-DD")
	sessionAddCmd.Flags().Uint("from", 0, "Copy the categories of this session")
	sessionAddCmd.Flags().Bool("activate", false, "Make the new session active")

	sessionRemoveCmd.Flags().BoolP("force", "f", false, "Delete without asking")

	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionAddCmd)
	sessionCmd.AddCommand(sessionActivateCmd)
	sessionCmd.AddCommand(sessionDeactivateCmd)
	sessionCmd.AddCommand(sessionRemoveCmd)
}
