package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// structuralColumns are the non-activity columns of a minutes table.
var structuralColumns = map[string]bool{
	"week":  true,
	"date":  true,
	"day":   true,
	"type":  true,
	"total": true,
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// table is a parsed CSV with rows addressed by header name.
type table struct {
	headers []string
	rows    [][]string
	lines   []int // source line of each row
	index   map[string]int
}

// readTable parses CSV bytes whose first line is the header row. Rows may be
// ragged; missing cells read as "".
func readTable(data []byte) (*table, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	headers, err := r.Read()
	if errors.Is(err, io.EOF) {
		return &table{index: map[string]int{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	t := &table{headers: headers, index: make(map[string]int, len(headers))}
	for i, h := range headers {
		// First occurrence wins for duplicate headers.
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read rows: %w", err)
		}
		if isBlankRecord(rec) {
			continue
		}
		line, _ := r.FieldPos(0)
		t.rows = append(t.rows, rec)
		t.lines = append(t.lines, line)
	}
	return t, nil
}

// cell returns the value of column header in row, or "".
func (t *table) cell(row []string, header string) string {
	i, ok := t.index[header]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// find returns the first header matching pred, or "".
func (t *table) find(pred func(lower string) bool) string {
	for _, h := range t.headers {
		if pred(strings.ToLower(strings.TrimSpace(h))) {
			return h
		}
	}
	return ""
}

// column returns the first header equal to name, case-insensitively.
func (t *table) column(name string) string {
	return t.find(func(lower string) bool { return lower == name })
}

// activityColumns returns the non-structural, non-empty headers in file order.
func (t *table) activityColumns() []string {
	var cols []string
	seen := make(map[string]bool)
	for _, h := range t.headers {
		lower := strings.ToLower(strings.TrimSpace(h))
		if lower == "" || structuralColumns[lower] || seen[h] {
			continue
		}
		seen[h] = true
		cols = append(cols, h)
	}
	return cols
}

func isBlankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
