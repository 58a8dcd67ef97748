package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/balkashynov/logbook/internal/db"
	"github.com/balkashynov/logbook/internal/models"
	"github.com/balkashynov/logbook/internal/parser"
)

// fail prints err with a hint for the common error kinds
func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	switch {
	case errors.Is(err, db.ErrInvalidTransition):
		fmt.Fprintln(os.Stderr, "Hint: check the timer's state with 'logbook timer status'.")
	case errors.Is(err, db.ErrConflict):
		fmt.Fprintln(os.Stderr, "Hint: it already exists; list it with the matching 'ls' command.")
	}
}

// parseID parses a positive numeric id argument
func parseID(arg, what string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s ID '%s'", what, arg)
	}
	return uint(id), nil
}

// addSessionFlag registers --session on commands that work within a session
func addSessionFlag(cmd *cobra.Command) {
	cmd.Flags().Uint("session", 0, "Session ID (defaults to the active session)")
}

// resolveSession returns the --session session, or the active one
func resolveSession(ctx context.Context, cmd *cobra.Command) (*models.Session, error) {
	if id, _ := cmd.Flags().GetUint("session"); id != 0 {
		return db.GetSession(ctx, id)
	}

	session, err := db.GetActiveSession(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errors.New("no active session; use 'logbook session activate <id>' or pass --session")
	}
	return session, nil
}

// resolveDate returns the --date value as YYYY-MM-DD, defaulting to today
func resolveDate(cmd *cobra.Command) (string, error) {
	value, _ := cmd.Flags().GetString("date")
	if value == "" {
		return parser.FormatDate(db.Now()), nil
	}
	t, err := parser.ParseDate(value)
	if err != nil {
		return "", err
	}
	return parser.FormatDate(t), nil
}

// sessionName renders a session for one-line messages
func sessionName(s *models.Session) string {
	if s.Label != "" {
		return fmt.Sprintf("#%d %s", s.ID, s.Label)
	}
	return fmt.Sprintf("#%d %s %d", s.ID, s.Season, s.Year)
}

// truncate cuts s to width with an ellipsis
func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width > 3 {
		return s[:width-3] + "..."
	}
	return s[:width]
}

// deref returns the string behind p, or "-"
func deref(p *string) string {
	if p == nil || *p == "" {
		return "-"
	}
	return *p
}
