package parser

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the storage format for calendar dates.
const DateLayout = "2006-01-02"

// sheetDateLayouts are tried in order: M/D/YY, M/D/YYYY, then ISO.
var sheetDateLayouts = []string{"1/2/06", "1/2/2006", DateLayout}

// ParseSheetDate parses a spreadsheet date cell into YYYY-MM-DD.
func ParseSheetDate(input string) (string, error) {
	input = strings.TrimSpace(input)
	for _, layout := range sheetDateLayouts {
		if t, err := time.Parse(layout, input); err == nil {
			return t.Format(DateLayout), nil
		}
	}
	return "", fmt.Errorf("cannot parse date %q", input)
}

// ParseDate validates a YYYY-MM-DD string.
func ParseDate(input string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(input))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", input)
	}
	return t, nil
}

// FormatDate formats t as YYYY-MM-DD in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Weekday returns the three-letter day name and ISO week number for a date.
func Weekday(date string) (string, int, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", 0, err
	}
	_, week := t.ISOWeek()
	return t.Format("Mon"), week, nil
}

var dayNames = map[string]string{
	"mon": "Mon", "monday": "Mon",
	"tue": "Tue", "tues": "Tue", "tuesday": "Tue",
	"wed": "Wed", "wednesday": "Wed",
	"thu": "Thu", "thur": "Thu", "thurs": "Thu", "thursday": "Thu",
	"fri": "Fri", "friday": "Fri",
	"sat": "Sat", "saturday": "Sat",
	"sun": "Sun", "sunday": "Sun",
}

// NormalizeDay maps free-form day names ("thurs", "MONDAY") to "Thu", "Mon".
// Unknown values are title-cased and cut to three letters.
func NormalizeDay(input string) string {
	day := strings.TrimSpace(input)
	if day == "" {
		return ""
	}
	if d, ok := dayNames[strings.ToLower(day)]; ok {
		return d
	}
	r := []rune(strings.ToLower(day))
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	if len(r) > 3 {
		r = r[:3]
	}
	return string(r)
}
