// Package normalize maps raw spreadsheet column labels to stable merge keys
// and display names.
//
// Historical sheets spell the same activity many ways ("Cogs 118C",
// "cogs118c", "COGS  118c"). Every label goes through Normalize, so the
// merge key is a pure function of the label text and re-imports of old files
// land on the same categories year after year.
package normalize

import (
	"regexp"
	"strings"
)

// courseRegex matches a department + course number: "COGS 118C", "math20b", "DSC 120".
var courseRegex = regexp.MustCompile(`^([a-zA-Z]+)\s*(\d+[a-zA-Z]?)$`)

// override is a fixed (key, display) pair for labels that follow no pattern.
type override struct {
	key     string
	display string
}

// overrides are matched case-insensitively against the trimmed label.
var overrides = map[string]override{
	"kdd/ds3/tnt": {key: "kdd_ds3_tnt", display: "KDD/DS3/TNT"},
}

// Normalize returns the merge key and display name for a raw column label.
// It never fails: labels matching no rule fall back to a lowercased,
// underscore-joined key and the label itself as display name.
func Normalize(raw string) (key, display string) {
	label := strings.TrimSpace(raw)

	if o, ok := overrides[strings.ToLower(label)]; ok {
		return o.key, o.display
	}

	if key, display, ok := courseCode(label); ok {
		return key, display
	}

	// Collapse whitespace runs so "Data  Science" and "Data Science" share a key.
	words := strings.Fields(label)
	return strings.ToLower(strings.Join(words, "_")), strings.Join(words, " ")
}

// Key is shorthand for the merge key half of Normalize.
func Key(raw string) string {
	key, _ := Normalize(raw)
	return key
}

// courseCode formats department + number labels: key "cogs118c", display "COGS 118C".
func courseCode(label string) (key, display string, ok bool) {
	m := courseRegex.FindStringSubmatch(label)
	if m == nil {
		return "", "", false
	}
	dept := strings.ToUpper(m[1])
	num := strings.ToUpper(m[2])
	return strings.ToLower(dept + num), dept + " " + num, true
}

// IsCourseCode reports whether label is a department + course number.
func IsCourseCode(label string) bool {
	return courseRegex.MatchString(strings.TrimSpace(label))
}
