package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/balkashynov/logbook/internal/db"
	"github.com/balkashynov/logbook/internal/importer"
	"github.com/balkashynov/logbook/internal/tui"
)

var importCmd = &cobra.Command{
	Use:   "import <YYYY_season_study.csv>",
	Short: "Import a seasonal study spreadsheet",
	Long: `Parse a minutes table, show a preview of the categories and days it would
create, and write it to the ledger once confirmed.

Examples:
  logbook import 2025_winter_study.csv
  logbook import 2025_winter_study.csv --text 2025_winter_text.csv
  logbook import 2025_winter_study.csv --yes --no-ui`,
	Args: cobra.ExactArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		textPath, _ := cmd.Flags().GetString("text")
		yes, _ := cmd.Flags().GetBool("yes")
		noUI, _ := cmd.Flags().GetBool("no-ui")

		primary, err := readSource(args[0])
		if err != nil {
			fail(err)
			return
		}
		var text *importer.Source
		if textPath != "" {
			src, err := readSource(textPath)
			if err != nil {
				fail(err)
				return
			}
			text = &src
		}

		// A preview left open past the staging TTL cannot be committed.
		if err := stager.StartReaper(); err != nil {
			log.Warn("staging reaper not started", "err", err)
		}
		defer stager.Stop()

		preview, err := stager.Stage(ctx, primary, text)
		if err != nil {
			fail(err)
			return
		}

		confirmed := yes
		if !confirmed {
			if noUI {
				printPreview(preview)
				confirmed = askYesNo("Import this session?")
			} else {
				confirmed, err = tui.ConfirmImport(preview)
				if err != nil {
					fail(err)
					return
				}
			}
		}
		if !confirmed {
			stager.Discard(preview.Token)
			fmt.Println("❌ Import cancelled.")
			return
		}

		result, err := commitAndActivate(ctx, preview.Token)
		if err != nil {
			fail(err)
			return
		}
		printCommit(args[0], result)
	}),
}

var importDirCmd = &cobra.Command{
	Use:   "import-dir [dir]",
	Short: "Import every study spreadsheet in a directory",
	Long: `Import every YYYY_season_study.csv in a directory, oldest session first,
pairing each with its YYYY_season_text.csv when present. Files that fail are
reported and skipped. Defaults to the configured data directory.`,
	Args: cobra.MaximumNArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		dir := cfg.Import.DataDir
		if len(args) == 1 {
			dir = args[0]
		}

		report, err := importer.ImportDir(ctx, stager, dir)
		if err != nil {
			fail(err)
			if report == nil {
				return
			}
		}

		for _, f := range report.Files {
			if f.Err != nil {
				fmt.Printf("❌ %s: %v\n", f.File, f.Err)
				continue
			}
			if f.Result.Active {
				if _, err := db.ActivateSession(ctx, f.Result.SessionID); err != nil {
					log.Warn("failed to activate session", "session", f.Result.SessionID, "err", err)
				}
			}
			fmt.Printf("✅ %s → session #%d %s (%d days, %s)\n",
				f.File, f.Result.SessionID, f.Result.SessionLabel,
				f.Result.DailyRecordsCreated, tui.FormatMinutes(f.Result.TotalMinutes))
			for _, w := range f.Warnings {
				fmt.Printf("   ⚠️  %s\n", w)
			}
		}

		fmt.Printf("\n📊 %d sessions, %d days, %d observations, %d text entries",
			report.Sessions, report.DailyRecords, report.Observations, report.TextEntries)
		if failed := report.Failed(); len(failed) > 0 {
			fmt.Printf(", %d failed", len(failed))
		}
		fmt.Println()
	}),
}

var headersCmd = &cobra.Command{
	Use:   "headers <files...>",
	Short: "Rewrite spreadsheet headers to their merged categories",
	Long: `Rewrite the activity columns of study spreadsheets in place: every group of
headers that normalize to the same category becomes one column holding the
per-row sum. Use --dry-run to see the changes without writing.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		for _, path := range args {
			report, err := importer.RewriteFile(path, dryRun)
			if err != nil {
				fmt.Printf("❌ %s: %v\n", path, err)
				continue
			}
			printRewrite(report, dryRun)
		}
	},
}

func readSource(path string) (importer.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return importer.Source{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return importer.Source{Name: filepath.Base(path), Data: data}, nil
}

// commitAndActivate writes a staged import and, when the commit marked the
// new session active, deactivates every other session.
func commitAndActivate(ctx context.Context, token string) (*importer.CommitResult, error) {
	result, err := stager.Commit(ctx, token)
	if err != nil {
		return nil, err
	}
	if result.Active {
		if _, err := db.ActivateSession(ctx, result.SessionID); err != nil {
			return result, err
		}
	}
	return result, nil
}

func printPreview(p *importer.Preview) {
	fmt.Printf("📥 %s → %s %d", p.SourceFile, p.Season, p.Year)
	if p.Label != "" {
		fmt.Printf(" (%s)", p.Label)
	}
	fmt.Println()
	if len(p.DateRange) == 2 {
		fmt.Printf("Dates: %s → %s\n", p.DateRange[0], p.DateRange[1])
	}
	fmt.Printf("Days: %d · Total: %s · Text rows: %d\n\n",
		p.RowCount, tui.FormatMinutes(p.TotalMinutes), p.TextRowCount)

	fmt.Printf("%-4s %-30s %-16s %s\n", "#", "CATEGORY", "FAMILY", "MERGED FROM")
	fmt.Println(strings.Repeat("-", 72))
	for _, c := range p.Categories {
		family := c.FamilyKey
		if family == "" {
			family = "-"
		} else if c.IsNewFamily {
			family += " (new)"
		}
		merged := ""
		if len(c.SourceLabels) > 1 {
			merged = strings.Join(c.SourceLabels, ", ")
		}
		fmt.Printf("%-4d %-30s %-16s %s\n", c.Position, truncate(c.DisplayName, 30), family, merged)
	}

	for _, w := range p.Warnings {
		fmt.Printf("⚠️  %s\n", w)
	}
	fmt.Println()
}

func printCommit(file string, r *importer.CommitResult) {
	fmt.Printf("✅ Imported %s as session #%d %s\n", file, r.SessionID, r.SessionLabel)
	fmt.Printf("📊 %d categories, %d days, %d observations, %d text entries · %s total\n",
		r.CategoriesCreated, r.DailyRecordsCreated, r.ObservationsCreated, r.TextEntriesCreated,
		tui.FormatMinutes(r.TotalMinutes))
	if r.Active {
		fmt.Println("⭐ Session is now active")
	}
	for _, w := range r.Warnings {
		fmt.Printf("⚠️  %s\n", w)
	}
}

func printRewrite(r *importer.RewriteReport, dryRun bool) {
	switch {
	case r.Empty:
		fmt.Printf("⚪ %s: no data rows, skipped\n", r.File)
		return
	case len(r.Changes) == 0:
		fmt.Printf("✅ %s: %d categories, headers already clean\n", r.File, r.Categories)
		return
	}

	verb := "rewrote"
	if dryRun {
		verb = "would rewrite"
	}
	fmt.Printf("✏️  %s: %s %d headers into %d categories\n", r.File, verb, len(r.Changes), r.Categories)
	for _, c := range r.Changes {
		fmt.Printf("   %s ← %s\n", c.Header, strings.Join(c.Sources, ", "))
	}
}

func askYesNo(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	var answer string
	if _, err := fmt.Scanln(&answer); err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func init() {
	importCmd.Flags().String("text", "", "Free-text companion table (YYYY_season_text.csv)")
	importCmd.Flags().BoolP("yes", "y", false, "Import without asking for confirmation")
	importCmd.Flags().Bool("no-ui", false, "Print the preview instead of opening the interactive UI")

	headersCmd.Flags().Bool("dry-run", false, "Show the header changes without writing")
}
