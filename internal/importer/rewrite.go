package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/balkashynov/logbook/internal/normalize"
	"github.com/balkashynov/logbook/internal/parser"
)

// HeaderChange records legacy headers folded into one canonical header.
type HeaderChange struct {
	Header  string   `json:"header"`
	Sources []string `json:"sources"`
}

// RewriteReport describes a header rewrite.
type RewriteReport struct {
	File       string         `json:"file"`
	Empty      bool           `json:"empty"`
	Categories int            `json:"categories"`
	Changes    []HeaderChange `json:"changes"`
	Written    bool           `json:"written"`
}

// RewriteTable rewrites a minutes table with canonical category headers.
// Structural columns come first, unchanged. Activity columns that clean to
// the same merge key are merged into one column whose cells are the per-row
// sum of the sources ("0" when nothing was logged).
func RewriteTable(data []byte) ([]byte, *RewriteReport, error) {
	t, err := readTable(data)
	if err != nil {
		return nil, nil, err
	}
	report := &RewriteReport{}
	if len(t.rows) == 0 {
		report.Empty = true
		return data, report, nil
	}

	var structural []string
	for _, h := range t.headers {
		if structuralColumns[strings.ToLower(strings.TrimSpace(h))] {
			structural = append(structural, h)
		}
	}

	type group struct {
		display string
		sources []string
	}
	var order []string
	groups := make(map[string]*group)
	for _, col := range t.activityColumns() {
		key, display := normalize.CleanHeader(col)
		g, ok := groups[key]
		if !ok {
			g = &group{display: display}
			groups[key] = g
			order = append(order, key)
		}
		g.sources = append(g.sources, col)
	}
	report.Categories = len(order)

	header := append([]string{}, structural...)
	for _, key := range order {
		header = append(header, groups[key].display)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, nil, err
	}
	for _, row := range t.rows {
		out := make([]string, 0, len(header))
		for _, col := range structural {
			out = append(out, t.cell(row, col))
		}
		for _, key := range order {
			total := 0
			for _, src := range groups[key].sources {
				if m, ok, err := parser.ParseMinutes(t.cell(row, src)); err == nil && ok {
					total += m
				}
			}
			if total < 0 {
				total = 0
			}
			out = append(out, strconv.Itoa(total))
		}
		if err := w.Write(out); err != nil {
			return nil, nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, nil, err
	}

	for _, key := range order {
		g := groups[key]
		if len(g.sources) == 1 && g.sources[0] == g.display {
			continue
		}
		report.Changes = append(report.Changes, HeaderChange{Header: g.display, Sources: g.sources})
	}
	return buf.Bytes(), report, nil
}

// RewriteFile rewrites the headers of a minutes table in place. With dryRun
// the report is computed but the file is left alone.
func RewriteFile(path string, dryRun bool) (*RewriteReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	out, report, err := RewriteTable(data)
	if err != nil {
		return nil, &ParseError{File: filepath.Base(path), Reason: err.Error()}
	}
	report.File = filepath.Base(path)
	if dryRun || report.Empty {
		return report, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	report.Written = true
	return report, nil
}
