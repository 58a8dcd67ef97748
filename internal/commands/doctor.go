package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/logbook/internal/db"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that every daily total matches its observations",
	Long: `Compare every daily record's stored total with the sum of its observations
and report the days that drifted. With --fix, drifted totals are rewritten
from the observations.`,
	Run: withDB(func(cmd *cobra.Command, args []string) {
		fix, _ := cmd.Flags().GetBool("fix")

		report, err := db.CheckLedger(cmd.Context(), fix)
		if err != nil {
			fail(err)
			return
		}

		fmt.Printf("🩺 Checked %d daily records\n", report.RecordsChecked)
		if report.ActiveSessions > 1 {
			fmt.Printf("⚠️  %d sessions are marked active; activate one with 'logbook session activate <id>'\n", report.ActiveSessions)
		}
		if len(report.Drift) == 0 {
			fmt.Println("✅ Ledger is consistent")
			return
		}

		for _, d := range report.Drift {
			status := "drifted"
			if d.Fixed {
				status = "fixed"
			}
			fmt.Printf("❌ session #%d %s: stored %d, observations sum to %d (%s)\n",
				d.SessionID, d.Date, d.Stored, d.Actual, status)
		}
		if !fix {
			fmt.Println("Run 'logbook doctor --fix' to rewrite the drifted totals.")
		}
	}),
}

func init() {
	doctorCmd.Flags().Bool("fix", false, "Rewrite drifted totals from the observations")
}
