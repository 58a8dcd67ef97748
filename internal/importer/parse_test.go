package importer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/logbook/internal/taxonomy"
)

func TestParse_MinutesTable(t *testing.T) {
	staged, err := Parse(Source{Name: "2024_fall_study.csv", Data: []byte(studyCSV)}, nil, taxonomy.Default())
	require.NoError(t, err)

	assert.Equal(t, 2024, staged.Year)
	assert.Equal(t, "fall", staged.Season)
	assert.Equal(t, "Fall 2024", staged.Label)

	require.Len(t, staged.Days, 3)
	assert.Equal(t, "2024-09-26", staged.Days[0].Date)
	assert.Equal(t, "Thu", staged.Days[0].DayOfWeek)
	require.NotNil(t, staged.Days[0].WeekNumber)
	assert.Equal(t, 1, *staged.Days[0].WeekNumber)
	assert.Equal(t, map[string]int{"cogs118c": 45, "training": 60}, staged.Days[0].Minutes,
		"variant spellings of one course are summed")
	assert.Equal(t, 105, staged.Days[0].Total())

	// Two rows for 9/27 collapse into one bucket.
	assert.Equal(t, map[string]int{"cogs118c": 55, "training": 5, "reading": 20}, staged.Days[1].Minutes)
	assert.Equal(t, 80, staged.Days[1].Total())
	assert.Equal(t, map[string]int{"training": 30}, staged.Days[2].Minutes)

	require.Len(t, staged.Categories, 3)
	cogs := staged.Categories[0]
	assert.Equal(t, "cogs118c", cogs.Name)
	assert.Equal(t, "COGS 118C", cogs.DisplayName)
	assert.Equal(t, []string{"COGS 118C", "cogs118c"}, cogs.SourceLabels)
	assert.Equal(t, "cogs", cogs.FamilyKey)
	assert.Equal(t, "COGS", cogs.FamilyDisplayName)
	assert.True(t, cogs.IsNewFamily)
	assert.Equal(t, "training", staged.Categories[1].FamilyKey)
	assert.Equal(t, 2, staged.Categories[2].Position)

	require.Len(t, staged.Warnings, 3)
	assert.Contains(t, staged.Warnings[0], `unparseable date "bad"`)
	assert.Contains(t, staged.Warnings[1], `column "COGS 118C"`)
	assert.Equal(t, "merged 1 duplicate date rows", staged.Warnings[2])

	start, end := staged.DateRange()
	assert.Equal(t, "2024-09-26", start)
	assert.Equal(t, "2024-09-28", end)
}

func TestParse_WarningsCiteSheetLines(t *testing.T) {
	data := "Week,Date,Day,Reading,Total\n" +
		"1,9/26/24,Thu,30,30\n" +
		",,,,\n" +
		"\n" +
		"1,9/27/24,Fri,99999999999999999999,0\n" +
		",notadate,Sat,10,10\n"
	staged, err := Parse(Source{Name: "2024_fall_study.csv", Data: []byte(data)}, nil, taxonomy.Default())
	require.NoError(t, err)

	require.Len(t, staged.Warnings, 2)
	assert.Contains(t, staged.Warnings[0], `line 5, column "Reading"`)
	assert.Contains(t, staged.Warnings[0], "out of range")
	assert.Contains(t, staged.Warnings[1], `line 6: skipped unparseable date "notadate"`)

	require.Len(t, staged.Days, 2)
	assert.Equal(t, map[string]int{"reading": 30}, staged.Days[0].Minutes)
	assert.Empty(t, staged.Days[1].Minutes, "out-of-range cell is skipped")
}

func TestParse_Deterministic(t *testing.T) {
	src := Source{Name: "2024_fall_study.csv", Data: []byte(studyCSV)}
	a, err := Parse(src, nil, taxonomy.Default())
	require.NoError(t, err)
	b, err := Parse(src, nil, taxonomy.Default())
	require.NoError(t, err)
	assert.Equal(t, a.Categories, b.Categories)
	assert.Equal(t, a.Days, b.Days)
}

func TestParse_TextTable(t *testing.T) {
	staged, err := Parse(
		Source{Name: "2024_fall_study.csv", Data: []byte(studyCSV)},
		&Source{Name: "2024_fall_text.csv", Data: []byte(textCSV)},
		taxonomy.Default(),
	)
	require.NoError(t, err)

	assert.Equal(t, "2024_fall_text.csv", staged.TextFile)
	require.Len(t, staged.Text, 2)
	assert.Equal(t, TextRow{Date: "2024-09-26", Location: "Library", StudyMaterials: "Chapter 1"}, staged.Text[0])
	assert.Equal(t, TextRow{Date: "2024-09-27", Location: "N/A", Notes: "good focus"}, staged.Text[1],
		"an N/A location is data; N/A notes and materials are not")
}

func TestParse_TextTableWithoutTimeColumn(t *testing.T) {
	staged, err := Parse(
		Source{Name: "2024_fall_study.csv", Data: []byte(studyCSV)},
		&Source{Name: "2024_fall_text.csv", Data: []byte("Date,Notes\n9/26/24,x\n")},
		taxonomy.Default(),
	)
	require.NoError(t, err)
	assert.Empty(t, staged.Text)
	assert.Contains(t, staged.Warnings[len(staged.Warnings)-1], "no Time column")
}

func TestParse_StructuralErrors(t *testing.T) {
	tax := taxonomy.Default()
	cases := map[string]Source{
		"bad filename":   {Name: "fall_2024.csv", Data: []byte(studyCSV)},
		"unknown season": {Name: "2024_autumn_study.csv", Data: []byte(studyCSV)},
		"empty file":     {Name: "2024_fall_study.csv", Data: nil},
		"header only":    {Name: "2024_fall_study.csv", Data: []byte("Date,Reading\n")},
		"no date column": {Name: "2024_fall_study.csv", Data: []byte("Day,Reading\nMon,30\n")},
	}
	for name, src := range cases {
		_, err := Parse(src, nil, tax)
		var perr *ParseError
		require.Error(t, err, name)
		assert.True(t, errors.As(err, &perr), "%s: want *ParseError, got %v", name, err)
	}
}

func TestParse_SeasonFromFilenameOnly(t *testing.T) {
	data := "Date,training_spring23,pp_w\n1/10/25,30,20\n"
	staged, err := Parse(Source{Name: "data/2025_winter_study.csv", Data: []byte(data)}, nil, taxonomy.Default())
	require.NoError(t, err)
	assert.Equal(t, 2025, staged.Year)
	assert.Equal(t, "winter", staged.Season)
	// Column suffixes are not session hints at import time; they stay part of the label.
	assert.Equal(t, "training_spring23", staged.Categories[0].Name)
}
