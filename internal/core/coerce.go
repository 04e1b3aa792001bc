package core

// coerce.go turns loosely-typed record values into strict optional types.
//
// Upstream records come from JSON documents (json.Number, strings, bools) and
// from table rows (driver integers, pgtype.Numeric). None of these helpers
// return errors: input that cannot be read yields "absent" or NaN so that a
// single bad field never aborts a load.

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// rangeRegex matches "2-5", "2–5", "2 — 5" and similar two-number spans.
var rangeRegex = regexp.MustCompile(`(\d+)\s*[-–—]\s*(\d+)`)

// singleIntRegex matches a lone integer such as "4" or "4+".
var singleIntRegex = regexp.MustCompile(`^\s*(\d+)`)

// ToOptionalNumber converts v to a float64.
// Returns ok=false for nil and blank strings. Non-numeric input yields NaN
// with ok=true; callers that need a usable number must check math.IsNaN/IsInf.
func ToOptionalNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case json.Number:
		return parseNumber(string(n)), true
	case string:
		if strings.TrimSpace(n) == "" {
			return 0, false
		}
		return parseNumber(n), true
	case pgtype.Numeric:
		if !n.Valid {
			return 0, false
		}
		f, err := n.Float64Value()
		if err != nil || !f.Valid {
			return math.NaN(), true
		}
		return f.Float64, true
	case *int:
		if n == nil {
			return 0, false
		}
		return float64(*n), true
	case *float64:
		if n == nil {
			return 0, false
		}
		return *n, true
	default:
		return math.NaN(), true
	}
}

// parseNumber parses a trimmed decimal string, returning NaN on failure.
func parseNumber(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// ToOptionalInt converts v to an int truncated toward zero.
// Returns ok=false unless the value is present, finite and fits in an int.
func ToOptionalInt(v any) (int, bool) {
	f, ok := ToOptionalNumber(v)
	if !ok || !isFinite(f) {
		return 0, false
	}
	// float64(math.MaxInt) rounds up to 2^63, which no int can hold.
	if f < math.MinInt || f >= math.MaxInt {
		return 0, false
	}
	return int(math.Trunc(f)), true
}

// ToOptionalText converts v to a trimmed string.
// Returns ok=false for nil and blank values.
func ToOptionalText(v any) (string, bool) {
	var s string
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		s = t
	case json.Number:
		s = t.String()
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(t), 'f', -1, 32)
	case fmt.Stringer:
		s = t.String()
	default:
		s = fmt.Sprint(t)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

// ParsePlayersRange reads a human player-count string such as "2-5" or "2–5".
// A lone integer n gives {n, n}; anything else gives an unknown range.
func ParsePlayersRange(text string) Range {
	if m := rangeRegex.FindStringSubmatch(text); m != nil {
		lo, errLo := strconv.Atoi(m[1])
		hi, errHi := strconv.Atoi(m[2])
		if errLo == nil && errHi == nil {
			return Range{Min: intPtr(lo), Max: intPtr(hi)}
		}
	}
	if m := singleIntRegex.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return Range{Min: intPtr(n), Max: intPtr(n)}
		}
	}
	return Range{}
}

// PlayersCapacity returns the upper player bound of text, else the lower
// bound, else 0. It is a sort key only.
func PlayersCapacity(text string) int {
	r := ParsePlayersRange(text)
	switch {
	case r.Max != nil:
		return *r.Max
	case r.Min != nil:
		return *r.Min
	default:
		return 0
	}
}

// TagsFrom converts a sequence or a comma-joined string to a tag list.
// Sequences keep their order and length; strings are split and trimmed with
// empty entries dropped. Other values give an empty list.
func TagsFrom(v any) []string {
	switch t := v.(type) {
	case []string:
		return append([]string{}, t...)
	case []any:
		tags := make([]string, 0, len(t))
		for _, item := range t {
			s, _ := ToOptionalText(item)
			tags = append(tags, s)
		}
		return tags
	case string:
		parts := strings.Split(t, ",")
		tags := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				tags = append(tags, p)
			}
		}
		return tags
	default:
		return []string{}
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
