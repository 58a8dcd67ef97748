package parser

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Seasons, in calendar order within a year.
var Seasons = []string{"winter", "spring", "summer", "fall"}

// sessionFileRegex matches "2024_fall_study.csv", "2023_Winter_text.CSV".
var sessionFileRegex = regexp.MustCompile(`(?i)^(\d{4})_(fall|winter|spring|summer)_[^.]+\.[a-z0-9]+$`)

// ParseSessionFilename extracts (year, season) from a sheet filename.
// Directory components are ignored; the season is returned lowercased.
func ParseSessionFilename(filename string) (int, string, error) {
	base := filepath.Base(strings.TrimSpace(filename))
	m := sessionFileRegex.FindStringSubmatch(base)
	if m == nil {
		return 0, "", fmt.Errorf("cannot parse session from filename %q (want YYYY_season_name.ext)", base)
	}

	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", fmt.Errorf("invalid year in filename %q", base)
	}
	return year, strings.ToLower(m[2]), nil
}

// IsValidSeason checks a season name.
func IsValidSeason(season string) bool {
	return SeasonRank(season) >= 0
}

// SeasonRank orders seasons within a year; -1 for unknown names.
func SeasonRank(season string) int {
	season = strings.ToLower(strings.TrimSpace(season))
	for i, s := range Seasons {
		if s == season {
			return i
		}
	}
	return -1
}

// SessionLabel formats "Fall 2024".
func SessionLabel(year int, season string) string {
	return fmt.Sprintf("%s %d", cases.Title(language.Und).String(strings.ToLower(season)), year)
}
