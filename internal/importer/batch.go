package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/balkashynov/logbook/internal/parser"
)

const (
	studySuffix = "_study.csv"
	textSuffix  = "_text.csv"
)

// FileResult is the outcome of importing one minutes table.
type FileResult struct {
	File     string        `json:"file"`
	TextFile string        `json:"text_file,omitempty"`
	Result   *CommitResult `json:"result,omitempty"`
	Warnings []string      `json:"warnings,omitempty"`
	Err      error         `json:"-"`
	Error    string        `json:"error,omitempty"`
}

// BatchReport summarizes a directory import.
type BatchReport struct {
	Files        []FileResult `json:"files"`
	Sessions     int          `json:"sessions"`
	DailyRecords int          `json:"daily_records"`
	Observations int          `json:"observations"`
	TextEntries  int          `json:"text_entries"`
}

// Failed returns the results that did not import.
func (r *BatchReport) Failed() []FileResult {
	var failed []FileResult
	for _, f := range r.Files {
		if f.Err != nil {
			failed = append(failed, f)
		}
	}
	return failed
}

// ImportDir stages and commits every YYYY_season_study.csv in dir, oldest
// session first, pairing each with its YYYY_season_text.csv when present.
// A failing file is recorded and the batch continues.
func ImportDir(ctx context.Context, s *Stager, dir string) (*BatchReport, error) {
	files, err := studyFiles(dir)
	if err != nil {
		return nil, err
	}

	report := &BatchReport{}
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		fr := importPair(ctx, s, dir, name)
		if fr.Err != nil {
			fr.Error = fr.Err.Error()
			s.opts.Logger.Error("import failed", "file", name, "err", fr.Err)
		} else {
			report.Sessions++
			report.DailyRecords += fr.Result.DailyRecordsCreated
			report.Observations += fr.Result.ObservationsCreated
			report.TextEntries += fr.Result.TextEntriesCreated
		}
		report.Files = append(report.Files, fr)
	}
	return report, nil
}

func importPair(ctx context.Context, s *Stager, dir, name string) FileResult {
	fr := FileResult{File: name}

	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		fr.Err = fmt.Errorf("read %s: %w", name, err)
		return fr
	}

	var text *Source
	textName := strings.TrimSuffix(name, studySuffix) + textSuffix
	textData, err := os.ReadFile(filepath.Join(dir, textName))
	switch {
	case err == nil:
		text = &Source{Name: textName, Data: textData}
		fr.TextFile = textName
	case !errors.Is(err, os.ErrNotExist):
		fr.Err = fmt.Errorf("read %s: %w", textName, err)
		return fr
	}

	preview, err := s.Stage(ctx, Source{Name: name, Data: data}, text)
	if err != nil {
		fr.Err = err
		return fr
	}
	fr.Warnings = preview.Warnings

	fr.Result, fr.Err = s.Commit(ctx, preview.Token)
	return fr
}

// studyFiles lists the minutes tables in dir ordered by (year, season).
func studyFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	type file struct {
		name   string
		year   int
		season int
	}
	var files []file
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), studySuffix) {
			continue
		}
		year, season, err := parser.ParseSessionFilename(e.Name())
		if err != nil {
			continue
		}
		files = append(files, file{name: e.Name(), year: year, season: parser.SeasonRank(season)})
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].year != files[j].year {
			return files[i].year < files[j].year
		}
		return files[i].season < files[j].season
	})

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.name
	}
	return names, nil
}
