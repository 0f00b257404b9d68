package engine

import (
	"strconv"
	"time"
)

// toNumber attempts to convert a value to a float64.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// numberOrZero coerces a value to a number, defaulting to 0 when absent or
// unparseable. Arithmetic over fields never yields null.
func numberOrZero(v any) float64 {
	n, _ := toNumber(v)
	return n
}

// toString renders a value for string comparison.
func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	case time.Time:
		return s.Format(time.RFC3339)
	default:
		if n, ok := toNumber(v); ok {
			return strconv.FormatFloat(n, 'f', -1, 64)
		}
		return ""
	}
}

// truthy coerces a value to a boolean: nil and empty string are false,
// numbers are false only at zero.
func truthy(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case string:
		return b != ""
	default:
		if n, ok := toNumber(v); ok {
			return n != 0
		}
		return true
	}
}

// timeLayouts are tried in order when parsing date-like strings.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTime attempts to interpret a value as a timestamp. Date-like strings
// without a zone are taken in the given location so calendar boundaries
// stay consistent with "now".
func parseTime(v any, loc *time.Location) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range timeLayouts {
			if parsed, err := time.ParseInLocation(layout, t, loc); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}
