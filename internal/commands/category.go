package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/logbook/internal/db"
	"github.com/balkashynov/logbook/internal/tui"
)

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"cat", "categories"},
	Short:   "Manage the categories of a session",
}

var categoryListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List categories in display order with their totals",
	Run: withDB(func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		session, err := resolveSession(ctx, cmd)
		if err != nil {
			fail(err)
			return
		}
		categories, err := db.ListCategories(ctx, session.ID)
		if err != nil {
			fail(err)
			return
		}
		if len(categories) == 0 {
			fmt.Printf("No categories in session %s.\n", sessionName(session))
			return
		}

		fmt.Printf("Session %s\n\n", sessionName(session))
		fmt.Printf("%-4s %-28s %-24s %-14s %9s\n", "ID", "CATEGORY", "KEY", "FAMILY", "TOTAL")
		fmt.Println(strings.Repeat("-", 83))
		for _, c := range categories {
			family := "-"
			if c.Family != nil {
				family = c.Family.Name
			}
			fmt.Printf("%-4d %-28s %-24s %-14s %9s\n",
				c.ID, truncate(c.Label(), 28), truncate(c.Name, 24), truncate(family, 14),
				tui.FormatMinutes(c.TotalMinutes))
		}
	}),
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <label>",
	Short: "Add a category to a session",
	Long: `Add a category to a session. The label is normalized the same way imported
headers are, and the family is derived from the taxonomy unless --family or
--no-family is given.

Examples:
  logbook category add "CS 101 lecture"
  logbook category add "Piano" --family music`,
	Args: cobra.ExactArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		session, err := resolveSession(ctx, cmd)
		if err != nil {
			fail(err)
			return
		}

		familyKey, _ := cmd.Flags().GetString("family")
		noFamily, _ := cmd.Flags().GetBool("no-family")

		category, err := db.CreateCategory(ctx, tax, db.CreateCategoryRequest{
			SessionID: session.ID,
			Label:     args[0],
			FamilyKey: familyKey,
			NoFamily:  noFamily,
		})
		if err != nil {
			fail(err)
			return
		}

		fmt.Printf("✅ Added category #%d %s (%s) to session %s\n",
			category.ID, category.Label(), category.Name, sessionName(session))
		if category.Family != nil {
			fmt.Printf("📁 Family: %s\n", category.Family.DisplayName)
		}
	}),
}

var categoryRemoveCmd = &cobra.Command{
	Use:     "rm <category>",
	Aliases: []string{"delete"},
	Short:   "Delete a category with no logged time",
	Args:    cobra.ExactArgs(1),
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
		if err := db.DeleteCategory(ctx, category.ID); err != nil {
			fail(err)
			return
		}
		fmt.Printf("🗑️  Deleted category #%d %s\n", category.ID, category.Label())
	}),
}

var familyCmd = &cobra.Command{
	Use:     "family",
	Aliases: []string{"families"},
	Short:   "Manage category families shared across sessions",
}

var familyListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List families with their category counts and totals",
	Run: withDB(func(cmd *cobra.Command, args []string) {
		families, err := db.ListFamilies(cmd.Context())
		if err != nil {
			fail(err)
			return
		}
		if len(families) == 0 {
			fmt.Println("No families yet. They are created on import or with 'logbook family add'.")
			return
		}

		fmt.Printf("%-4s %-16s %-24s %-10s %5s %9s\n", "ID", "KEY", "NAME", "TYPE", "CATS", "TOTAL")
		fmt.Println(strings.Repeat("-", 74))
		for _, f := range families {
			fmt.Printf("%-4d %-16s %-24s %-10s %5d %9s\n",
				f.ID, truncate(f.Name, 16), truncate(f.DisplayName, 24), f.FamilyType,
				f.CategoryCount, tui.FormatMinutes(f.TotalMinutes))
		}
	}),
}

var familyAddCmd = &cobra.Command{
	Use:   "add <key>",
	Short: "Define a family",
	Args:  cobra.ExactArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		display, _ := cmd.Flags().GetString("display")
		familyType, _ := cmd.Flags().GetString("type")
		color, _ := cmd.Flags().GetString("color")
		description, _ := cmd.Flags().GetString("description")

		family, err := db.CreateFamily(cmd.Context(), db.CreateFamilyRequest{
			Name:        args[0],
			DisplayName: display,
			FamilyType:  familyType,
			Color:       color,
			Description: description,
		})
		if err != nil {
			fail(err)
			return
		}
		fmt.Printf("✅ Added family #%d %s (%s)\n", family.ID, family.DisplayName, family.FamilyType)
	}),
}

var familyRemoveCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a family and unlink its categories",
	Args:    cobra.ExactArgs(1),
	Run: withDB(func(cmd *cobra.Command, args []string) {
		id, err := parseID(args[0], "family")
		if err != nil {
			fail(err)
			return
		}
		unlinked, err := db.DeleteFamily(cmd.Context(), id)
		if err != nil {
			fail(err)
			return
		}
		fmt.Printf("🗑️  Deleted family #%d (%d categories unlinked)\n", id, unlinked)
	}),
}

func init() {
	addSessionFlag(categoryListCmd)
	addSessionFlag(categoryAddCmd)
	addSessionFlag(categoryRemoveCmd)
	categoryAddCmd.Flags().String("family", "", "Family key (default: derived from the label)")
	categoryAddCmd.Flags().Bool("no-family", false, "Do not assign a family")

	familyAddCmd.Flags().String("display", "", "Display name (default: the key)")
	familyAddCmd.Flags().String("type", "", "course, research, personal or other")
	familyAddCmd.Flags().String("color", "", "Hex color, e.g. #7C3AED")
	familyAddCmd.Flags().String("description", "", "Free-text description")

	categoryCmd.AddCommand(categoryListCmd)
	categoryCmd.AddCommand(categoryAddCmd)
	categoryCmd.AddCommand(categoryRemoveCmd)

	familyCmd.AddCommand(familyListCmd)
	familyCmd.AddCommand(familyAddCmd)
	familyCmd.AddCommand(familyRemoveCmd)
}
