// Package shared provides common utility functions used across multiple
// packages in the municipal-limits codebase.
package shared

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// NormalizeCRS upper-cases a CRS identifier and collapses its whitespace so
// that "esri:102630" and " ESRI:102630 " compare equal.
func NormalizeCRS(value string) string {
	return strings.ToUpper(strings.Join(strings.Fields(value), ""))
}

// SameCRS reports whether two CRS identifiers name the same system.
func SameCRS(a, b string) bool {
	return NormalizeCRS(a) == NormalizeCRS(b)
}

// SplitAuthority splits an AUTH:CODE identifier such as "EPSG:4326". ok is
// false when value is not in that form.
func SplitAuthority(value string) (authority string, code int64, ok bool) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return "", 0, false
	}
	code, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return "", 0, false
	}
	return strings.ToUpper(strings.TrimSpace(parts[0])), code, true
}

// AsString renders an attribute value as text. Dates use the ISO calendar form.
func AsString(value any) string {
	if v, ok := value.(time.Time); ok {
		if v.IsZero() {
			return ""
		}
		return v.Format("2006-01-02")
	}
	s, err := cast.ToStringE(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return s
}

// AsInt64 converts numeric and numeric-text attribute values. Floats are
// rounded and text is always read in base 10.
func AsInt64(value any) (int64, bool) {
	switch value.(type) {
	case float32, float64, string:
		f, ok := AsFloat64(value)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return int64(math.Round(f)), true
	case nil, bool:
		return 0, false
	}
	n, err := cast.ToInt64E(value)
	return n, err == nil
}

// AsFloat64 converts numeric and numeric-text attribute values. Nil, booleans
// and blank text are not numbers.
func AsFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case nil, bool:
		return 0, false
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, false
		}
		value = trimmed
	}
	f, err := cast.ToFloat64E(value)
	return f, err == nil
}

// AsTime converts date attribute values, parsing text with ParseTimeFlexible.
func AsTime(value any) (time.Time, bool) {
	if v, ok := value.(string); ok {
		parsed := ParseTimeFlexible(v)
		return parsed, !parsed.IsZero()
	}
	parsed, err := cast.ToTimeE(value)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, !parsed.IsZero()
}

// MaxTime returns the latest parseable date among values.
func MaxTime(values []any) (time.Time, bool) {
	var latest time.Time
	found := false
	for _, value := range values {
		parsed, ok := AsTime(value)
		if !ok {
			continue
		}
		if !found || parsed.After(latest) {
			latest = parsed
			found = true
		}
	}
	return latest, found
}
