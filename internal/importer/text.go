package importer

import (
	"strings"

	"github.com/balkashynov/logbook/internal/parser"
)

// parseText reads the free-text table. Its columns vary across years: the
// date lives in "Time", and the materials column is whichever header
// mentions "study" or "material". Rows without a parseable date are skipped
// silently. An N/A location is kept as written; N/A notes and materials
// become empty.
func parseText(src Source) ([]TextRow, []string, error) {
	t, err := readTable(src.Data)
	if err != nil {
		return nil, nil, &ParseError{File: src.Name, Reason: err.Error()}
	}
	if len(t.rows) == 0 {
		return nil, nil, nil
	}

	timeCol := t.column("time")
	if timeCol == "" {
		return nil, []string{"text table has no Time column; text entries skipped"}, nil
	}
	locationCol := t.column("location")
	notesCol := t.column("notes")
	materialsCol := t.find(func(lower string) bool {
		return strings.Contains(lower, "study") || strings.Contains(lower, "material")
	})

	var rows []TextRow
	for _, rec := range t.rows {
		rawDate := strings.TrimSpace(t.cell(rec, timeCol))
		if rawDate == "" {
			continue
		}
		date, err := parser.ParseSheetDate(rawDate)
		if err != nil {
			continue
		}

		row := TextRow{Date: date}
		if locationCol != "" {
			row.Location = strings.TrimSpace(t.cell(rec, locationCol))
		}
		if notesCol != "" {
			row.Notes = dropNotApplicable(t.cell(rec, notesCol))
		}
		if materialsCol != "" {
			row.StudyMaterials = dropNotApplicable(t.cell(rec, materialsCol))
		}
		rows = append(rows, row)
	}
	return rows, nil, nil
}

func dropNotApplicable(cell string) string {
	cell = strings.TrimSpace(cell)
	if strings.EqualFold(cell, "n/a") {
		return ""
	}
	return cell
}
