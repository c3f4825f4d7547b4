package table

import (
	"fmt"
	"math"
	"strconv"
)

// IsMissing reports whether a cell value counts as missing: nil or the
// empty string.
func IsMissing(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// CanonicalText returns the textual representation used for equality and
// uniqueness comparisons, so the number 1 and the string "1" collapse to
// the same key.
func CanonicalText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		if math.IsNaN(t) {
			return "NaN"
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprintf("%v", t)
	}
}
