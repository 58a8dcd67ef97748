package importer

import (
	"fmt"
	"strings"

	"github.com/balkashynov/logbook/internal/normalize"
	"github.com/balkashynov/logbook/internal/parser"
	"github.com/balkashynov/logbook/internal/taxonomy"
)

// Parse turns a minutes table (and optionally a text table) into a staged
// import without touching storage. The session identity comes from the
// primary filename. Structural problems return a *ParseError; row-level
// problems become warnings and the offending row or cell is skipped.
//
// IsNewFamily is set for the first category of each classified family; the
// Stager refines it against stored families.
func Parse(primary Source, text *Source, tax *taxonomy.Taxonomy) (*Staged, error) {
	year, season, err := parser.ParseSessionFilename(primary.Name)
	if err != nil {
		return nil, &ParseError{File: primary.Name, Reason: err.Error()}
	}

	t, err := readTable(primary.Data)
	if err != nil {
		return nil, &ParseError{File: primary.Name, Reason: err.Error()}
	}
	if len(t.rows) == 0 {
		return nil, parseErrorf(primary.Name, "minutes table is empty")
	}

	dateCol := t.column("date")
	if dateCol == "" {
		return nil, parseErrorf(primary.Name, "no date column found")
	}
	dayCol := t.column("day")
	weekCol := t.column("week")
	columns := t.activityColumns()

	staged := &Staged{
		SourceFile: primary.Name,
		Year:       year,
		Season:     season,
		Label:      parser.SessionLabel(year, season),
	}

	// Per-date minutes keyed by raw column, then re-keyed by merge key.
	raw := make(map[string]map[string]int)
	days := make(map[string]*DayBucket)
	merged := 0

	for i, row := range t.rows {
		line := t.lines[i]

		rawDate := strings.TrimSpace(t.cell(row, dateCol))
		if rawDate == "" {
			continue
		}
		date, err := parser.ParseSheetDate(rawDate)
		if err != nil {
			staged.Warnings = append(staged.Warnings, fmt.Sprintf("line %d: skipped unparseable date %q", line, rawDate))
			continue
		}

		var day string
		if dayCol != "" {
			day = parser.NormalizeDay(t.cell(row, dayCol))
		}
		var week *int
		if weekCol != "" {
			week = parser.ParseWeek(t.cell(row, weekCol))
		}

		bucket, seen := days[date]
		if !seen {
			bucket = &DayBucket{Date: date, DayOfWeek: day, WeekNumber: week}
			days[date] = bucket
			raw[date] = make(map[string]int)
		} else {
			merged++
			if bucket.DayOfWeek == "" {
				bucket.DayOfWeek = day
			}
			if bucket.WeekNumber == nil {
				bucket.WeekNumber = week
			}
		}

		for _, col := range columns {
			minutes, ok, err := parser.ParseMinutes(t.cell(row, col))
			if err != nil {
				staged.Warnings = append(staged.Warnings, fmt.Sprintf("line %d, column %q: %v", line, col, err))
				continue
			}
			if ok && minutes > 0 {
				raw[date][col] += minutes
			}
		}
	}

	if merged > 0 {
		staged.Warnings = append(staged.Warnings, fmt.Sprintf("merged %d duplicate date rows", merged))
	}

	plans := normalize.ComputeMergePlan(columns)
	keyOf := normalize.Index(plans)
	for date, bucket := range days {
		bucket.Minutes = make(map[string]int)
		for col, minutes := range raw[date] {
			bucket.Minutes[keyOf[col]] += minutes
		}
	}
	staged.Days = sortDays(days)

	seenFamily := make(map[string]bool)
	for i, plan := range plans {
		preview := CategoryPreview{
			Name:         plan.Key,
			DisplayName:  plan.DisplayName,
			Position:     i,
			SourceLabels: plan.SourceLabels,
		}
		if key, ok := tax.Classify(plan.DisplayName); ok {
			preview.FamilyKey = key
			preview.FamilyDisplayName = tax.Resolve(key).DisplayName
			preview.IsNewFamily = !seenFamily[key]
			seenFamily[key] = true
		}
		staged.Categories = append(staged.Categories, preview)
	}

	if text != nil && len(text.Data) > 0 {
		rows, warnings, err := parseText(*text)
		if err != nil {
			return nil, err
		}
		staged.TextFile = text.Name
		staged.Text = rows
		staged.Warnings = append(staged.Warnings, warnings...)
	}

	return staged, nil
}
