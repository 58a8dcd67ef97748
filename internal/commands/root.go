package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/balkashynov/logbook/internal/config"
	"github.com/balkashynov/logbook/internal/db"
	"github.com/balkashynov/logbook/internal/importer"
	"github.com/balkashynov/logbook/internal/logging"
	"github.com/balkashynov/logbook/internal/taxonomy"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Process-wide state built by setup.
var (
	cfg    *config.Config
	tax    *taxonomy.Taxonomy
	stager *importer.Stager
)

var rootCmd = &cobra.Command{
	Use:   "logbook",
	Short: "A study-time ledger for seasonal spreadsheets",
	Long: `logbook imports seasonal study spreadsheets into a local ledger of minutes
per category per day, and keeps logging new time with timers and manual entries.`,
	SilenceUsage: true,
}

// setup loads config, installs the logger, opens the database and builds
// the taxonomy and import stager.
func setup() error {
	c, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.Install(c.Log.Level, os.Stderr)
	if err != nil {
		return err
	}

	if err := db.Initialize(c.Database.Path, db.Options{Debug: c.Database.Debug}); err != nil {
		return err
	}

	t := taxonomy.Default()
	if c.Taxonomy.Path != "" {
		if t, err = taxonomy.Load(c.Taxonomy.Path); err != nil {
			return err
		}
	}

	cfg, tax = c, t
	stager = importer.NewStager(tax, importer.Options{
		TTL:          c.Import.StagingTTL(),
		ReapInterval: c.Import.ReapInterval(),
		FamilyLookup: db.FamilyExists,
		Logger:       logger,
	})

	log.Debug("ready", "db", c.Database.Path, "taxonomy", c.Taxonomy.Path)
	return nil
}

// withDB wraps a command function to initialize the database first
func withDB(fn func(*cobra.Command, []string)) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		if err := setup(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Warn("failed to close database", "err", err)
			}
		}()
		fn(cmd, args)
	}
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("logbook %s (commit %s, built %s)\n", version, commit, date)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(importDirCmd)
	rootCmd.AddCommand(headersCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(categoryCmd)
	rootCmd.AddCommand(familyCmd)
	rootCmd.AddCommand(timerCmd)
	rootCmd.AddCommand(entryCmd)
	rootCmd.AddCommand(dayCmd)
	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.SetHelpCommand(helpCmd)
	rootCmd.AddCommand(versionCmd)
}
