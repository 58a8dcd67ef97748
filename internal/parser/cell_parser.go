package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var maxCellMinutes = decimal.NewFromInt(math.MaxInt32)

// IsNotApplicable reports whether a cell holds an "N/A" style placeholder.
func IsNotApplicable(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "n/a", "na":
		return true
	}
	return false
}

// ParseMinutes parses a minutes cell. Blank and N/A cells return ok=false
// with no error. Fractional values are truncated toward zero; values beyond
// the int32 range are rejected.
func ParseMinutes(cell string) (minutes int, ok bool, err error) {
	cell = strings.TrimSpace(cell)
	if cell == "" || cell == "-" || IsNotApplicable(cell) {
		return 0, false, nil
	}

	d, err := decimal.NewFromString(cell)
	if err != nil {
		return 0, false, fmt.Errorf("invalid minutes value %q", cell)
	}
	if d.Abs().GreaterThan(maxCellMinutes) {
		return 0, false, fmt.Errorf("invalid minutes value %q: out of range", cell)
	}
	return int(d.IntPart()), true, nil
}

// ParseWeek parses a week-number cell; blank, N/A and non-numeric cells yield nil.
func ParseWeek(cell string) *int {
	cell = strings.TrimSpace(cell)
	if cell == "" || IsNotApplicable(cell) {
		return nil
	}
	w, err := strconv.Atoi(cell)
	if err != nil {
		return nil
	}
	return &w
}
