package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help",
	Short: "Show comprehensive help for logbook",
	Long:  `Display detailed help for all logbook commands and flags.`,
	Run: func(cmd *cobra.Command, args []string) {
		showCustomHelp()
	},
}

func showCustomHelp() {
	fmt.Print(`
██╗      ██████╗  ██████╗
██║     ██╔═══██╗██╔════╝
██║     ██║   ██║██║  ███╗
██║     ██║   ██║██║   ██║
███████╗╚██████╔╝╚██████╔╝
╚══════╝ ╚═════╝  ╚═════╝

logbook - study-time ledger

COMMANDS:

  import <file>           Import a YYYY_season_study.csv spreadsheet
    --text <file>         Free-text companion table
    -y, --yes             Skip the confirmation
    --no-ui               Print the preview instead of the interactive UI

    Preview keys:
      ↑/↓ ←/→       Browse categories
      y/enter       Import
      n/esc         Cancel

  import-dir [dir]        Import every spreadsheet in a directory, oldest first
  headers <files...>      Merge duplicate category columns in place
    --dry-run             Show the changes only

  session ls              List sessions (⭐ marks the active one)
  session add <y> <s>     Create a session (--label, --start, --end, --from, --activate)
  session activate <id>   Make a session active
  session deactivate <id> Clear the active flag
  session rm <id>         Delete a session and its ledger (-f to skip the prompt)

  category ls             List categories with totals
  category add <label>    Add a category (--family KEY, --no-family)
  category rm <category>  Delete a category with no logged time

  family ls               List families
  family add <key>        Define a family (--display, --type, --color, --description)
  family rm <id>          Delete a family and unlink its categories

  timer start <category>  Start a timer (--no-ui for no interactive timer)
  timer watch [id]        Reopen the interactive timer
  timer pause [id]        Pause a running timer
  timer resume [id]       Resume a paused timer
  timer stop [id]         Stop and log (--desc, --loc)
  timer discard [id]      Throw a timer away
  timer status            Show running and paused timers

    Timer keys:
      p/space       Pause or resume
      s             Stop and log, with an optional description
      d             Discard
      esc/q         Leave the timer running

  entry add <cat> <min>   Log minutes (--date, --desc, --loc)
  entry rm <id>           Delete an entry and subtract its minutes
  entry ls                List entries for a date (--date)

  day [date]              Everything logged on a day
  week [date]             Hours per category for a calendar week
  doctor                  Check daily totals against observations (--fix)
  version                 Print version information
  help                    Show this help

Commands working within a session take --session ID and default to the
active session. Categories can be given by ID or by label.

CONFIGURATION:

  ~/.logbook/config.yaml  (or LOGBOOK_CONFIG)
  LOGBOOK_DB              Database path
  LOGBOOK_TAXONOMY        Family taxonomy YAML
  LOGBOOK_LOG_LEVEL       debug, info, warn, error
  LOGBOOK_DEBUG           Debug logging and gorm warnings

`)
}
