package normalize

import (
	"regexp"
	"strings"
)

var (
	// sessionSuffixRegex strips term tags baked into legacy headers: training_fall24, pp_w, mpi_sumer.
	sessionSuffixRegex = regexp.MustCompile(`(?i)_(fall|winter|spring|summer|sumer|f|w|s|u)\d*$`)

	// subVariantRegex collapses per-course qualifiers onto the parent course: math18hw → math18.
	subVariantRegex = regexp.MustCompile(`^([a-zA-Z]+\d+[a-zA-Z]?)(review|hw|matlab|lab|project|disc)$`)

	dsProjectRegex = regexp.MustCompile(`(?i)^ds_project`)
)

// specialDisplay covers one-off legacy headers.
var specialDisplay = map[string]string{
	"exam":    "Exam",
	"driving": "Driving",
	"gradapp": "Grad App",
	"startup": "Startup",
	"ex_phys": "Ex Phys",
	"ds":      "Data Science",
}

// projectDisplay keeps project abbreviations in their canonical casing.
var projectDisplay = map[string]string{
	"training": "Training",
	"salk":     "Salk",
	"mpi":      "MPI",
	"pp":       "PP",
	"reading":  "Reading",
	"swl":      "SWL",
	"fmp":      "FMP",
	"rplh":     "RPLH",
	"fd":       "FD",
	"cse257":   "CSE 257",
}

// CleanHeader rewrites a legacy header to its canonical display form and
// returns the runtime merge key of that display form.
//
// It is a superset of Normalize: session suffixes and sub-variant
// qualifiers are stripped first, then the shared override and course-code
// rules apply. The key is always Key(display), so a rewritten file imports
// onto exactly the categories the rewrite grouped it into.
func CleanHeader(raw string) (key, display string) {
	display = cleanDisplay(strings.TrimSpace(raw))
	return Key(display), display
}

func cleanDisplay(label string) string {
	base := sessionSuffixRegex.ReplaceAllString(label, "")

	if dsProjectRegex.MatchString(base) {
		return "Data Science"
	}

	lower := strings.ToLower(base)
	if o, ok := overrides[lower]; ok {
		return o.display
	}
	if d, ok := specialDisplay[lower]; ok {
		return d
	}
	if d, ok := projectDisplay[lower]; ok {
		return d
	}

	if m := subVariantRegex.FindStringSubmatch(base); m != nil {
		base = m[1]
	}

	if _, d, ok := courseCode(base); ok {
		return d
	}

	return strings.Join(strings.Fields(strings.ReplaceAll(base, "_", " ")), " ")
}
