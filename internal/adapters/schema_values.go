package adapters

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"municipal-limits/internal/shared"
	"municipal-limits/internal/types"
	"municipal-limits/internal/vector"
)

// dateValue marks a value destined for a date column; each format renders it
// in its own encoding.
type dateValue struct {
	time.Time
}

// schemaValue coerces value to the type of field. It returns nil for missing
// or unconvertible values and truncates text longer than the field width.
func schemaValue(ctx context.Context, field types.FieldSpec, value any) any {
	if vector.IsEmptyValue(value) {
		return nil
	}
	switch field.Type {
	case types.FieldTypeInt:
		number, ok := shared.AsInt64(value)
		if !ok {
			log.Ctx(ctx).Warn().Str("field", field.Name).Interface("value", value).Msg("value is not an integer; left empty")
			return nil
		}
		return int(number)
	case types.FieldTypeFloat:
		number, ok := shared.AsFloat64(value)
		if !ok {
			log.Ctx(ctx).Warn().Str("field", field.Name).Interface("value", value).Msg("value is not a number; left empty")
			return nil
		}
		return number
	case types.FieldTypeDate:
		date, ok := shared.AsTime(value)
		if !ok {
			log.Ctx(ctx).Warn().Str("field", field.Name).Interface("value", value).Msg("value is not a date; left empty")
			return nil
		}
		return dateValue{Time: shared.TruncateToDate(date)}
	default:
		text := shared.AsString(value)
		if field.Width > 0 && len(text) > field.Width {
			log.Ctx(ctx).Warn().Str("field", field.Name).Int("width", field.Width).Msg("value truncated to field width")
			text = truncateUTF8(text, field.Width)
		}
		return text
	}
}

// truncateUTF8 cuts s to at most limit bytes without splitting a rune.
func truncateUTF8(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
