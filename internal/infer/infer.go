// Package infer classifies column values into the closed ColumnType set
// and provides the scalar parsing primitives shared with type casting.
package infer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"datakiln/domain/table"
)

// majorityThreshold is the share of non-missing values a single category
// must exceed for the column to take that type. Because it is above 0.5,
// at most one category can clear it.
const majorityThreshold = 0.8

// minDateTextLength guards against short numeric-like tokens ("12345")
// being read as calendar dates.
const minDateTextLength = 5

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02-01-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// AsNumber extracts a float from a cell value. Native numeric types pass
// through; strings are accepted only when they parse losslessly as a
// number. Booleans and NaN are rejected.
func AsNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) {
			return 0, false
		}
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// ParseDate parses a textual calendar date. It refuses values that are
// numeric or shorter than the minimum date length.
func ParseDate(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	if len(s) <= minDateTextLength {
		return time.Time{}, false
	}
	if _, numeric := AsNumber(s); numeric {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Infer classifies a column's non-missing values. Callers are expected
// to have filtered missing cells out already; any that slip through are
// ignored here as well.
func Infer(values []any) table.ColumnType {
	var numbers, booleans, dates, texts int
	total := 0

	for _, v := range values {
		if table.IsMissing(v) {
			continue
		}
		total++
		if _, ok := v.(bool); ok {
			booleans++
			continue
		}
		if _, ok := AsNumber(v); ok {
			numbers++
			continue
		}
		if _, ok := ParseDate(v); ok {
			dates++
			continue
		}
		texts++
	}

	if total == 0 {
		return table.TypeUnknown
	}

	// Priority order Number > Boolean > Date > String; only one ratio can
	// clear the threshold.
	n := float64(total)
	switch {
	case float64(numbers)/n > majorityThreshold:
		return table.TypeNumber
	case float64(booleans)/n > majorityThreshold:
		return table.TypeBoolean
	case float64(dates)/n > majorityThreshold:
		return table.TypeDate
	case float64(texts)/n > majorityThreshold:
		return table.TypeString
	default:
		return table.TypeMixed
	}
}
