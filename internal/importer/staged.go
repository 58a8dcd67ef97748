package importer

import (
	"sort"
	"time"
)

// Source is one uploaded table.
type Source struct {
	Name string
	Data []byte
}

// DayBucket holds the minutes of one calendar date, keyed by merge key.
type DayBucket struct {
	Date       string         `json:"date"`
	DayOfWeek  string         `json:"day_of_week,omitempty"`
	WeekNumber *int           `json:"week_number,omitempty"`
	Minutes    map[string]int `json:"minutes"`
}

// Total is the day's minutes across all categories.
func (d DayBucket) Total() int {
	total := 0
	for _, m := range d.Minutes {
		total += m
	}
	return total
}

// CategoryPreview is one category an import would create.
type CategoryPreview struct {
	Name              string   `json:"name"` // merge key
	DisplayName       string   `json:"display_name"`
	Position          int      `json:"position"`
	FamilyKey         string   `json:"family_key,omitempty"`
	FamilyDisplayName string   `json:"family_display_name,omitempty"`
	IsNewFamily       bool     `json:"is_new_family"`
	SourceLabels      []string `json:"source_labels"`
}

// TextRow is one parsed row of the free-text table.
type TextRow struct {
	Date           string `json:"date"`
	Location       string `json:"location,omitempty"`
	Notes          string `json:"notes,omitempty"`
	StudyMaterials string `json:"study_materials,omitempty"`
}

// Staged is a fully parsed import waiting for confirmation.
type Staged struct {
	Token     string
	CreatedAt time.Time

	SourceFile string
	TextFile   string

	Year   int
	Season string
	Label  string

	Days       []DayBucket // sorted by date
	Categories []CategoryPreview
	Text       []TextRow
	Warnings   []string
}

// DateRange returns the first and last staged dates, or empty strings.
func (s *Staged) DateRange() (start, end string) {
	if len(s.Days) == 0 {
		return "", ""
	}
	return s.Days[0].Date, s.Days[len(s.Days)-1].Date
}

// Preview is the summary shown before an import is confirmed.
type Preview struct {
	Token        string            `json:"token"`
	SourceFile   string            `json:"source_file"`
	Year         int               `json:"year"`
	Season       string            `json:"season"`
	Label        string            `json:"label"`
	RowCount     int               `json:"row_count"`
	DateRange    []string          `json:"date_range"`
	TotalMinutes int               `json:"total_minutes"`
	Categories   []CategoryPreview `json:"categories"`
	TextRowCount int               `json:"text_row_count"`
	Warnings     []string          `json:"warnings"`
	ExpiresAt    *time.Time        `json:"expires_at,omitempty"`
}

// Preview summarizes the staged import.
func (s *Staged) Preview() *Preview {
	p := &Preview{
		Token:        s.Token,
		SourceFile:   s.SourceFile,
		Year:         s.Year,
		Season:       s.Season,
		Label:        s.Label,
		RowCount:     len(s.Days),
		DateRange:    []string{},
		Categories:   s.Categories,
		TextRowCount: len(s.Text),
		Warnings:     s.Warnings,
	}
	if start, end := s.DateRange(); start != "" {
		p.DateRange = []string{start, end}
	}
	for _, d := range s.Days {
		p.TotalMinutes += d.Total()
	}
	return p
}

func sortDays(days map[string]*DayBucket) []DayBucket {
	out := make([]DayBucket, 0, len(days))
	for _, d := range days {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
