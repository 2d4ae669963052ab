package sources

import (
	"context"
	"fmt"
	"strings"

	"municipal-limits/internal/core"
	"municipal-limits/internal/shared"
	"municipal-limits/internal/types"
	"municipal-limits/internal/vector"
)

// DeclarativeHooks runs a variant described in the manifest instead of code.
type DeclarativeHooks struct {
	canonicalHooks

	fields types.DeclarativeFields
}

func NewDeclarativeHooks(fields types.DeclarativeFields) DeclarativeHooks {
	return DeclarativeHooks{fields: fields}
}

// SelectByAttributes keeps rows matching any filter entry.
func (h DeclarativeHooks) SelectByAttributes(_ context.Context, layer *core.SourceLayer) error {
	if len(h.fields.Filter) == 0 {
		return nil
	}
	layer.Table.Filter(func(row vector.Row) bool {
		for _, match := range h.fields.Filter {
			if shared.AsString(row.Get(match.Field)) == match.Equals {
				return true
			}
		}
		return false
	})
	return nil
}

func (h DeclarativeHooks) GeometryOperations(ctx context.Context, layer *core.SourceLayer) error {
	if !h.fields.Dissolve {
		return nil
	}
	return layer.CombineGeometryMultipart(ctx)
}

func (h DeclarativeHooks) CopyFields(_ context.Context, layer *core.SourceLayer) error {
	for _, mapping := range h.fields.Copy {
		if err := copyColumn(layer, mapping.To, mapping.From); err != nil {
			return err
		}
	}
	mode := strings.TrimSpace(h.fields.LastUpdate)
	switch {
	case mode == "":
		return nil
	case mode == types.LastUpdateFolder:
		copyFolderDate(layer, core.LastUpdateField)
		return nil
	case strings.HasPrefix(mode, types.LastUpdateMax):
		return copyLatest(layer, core.LastUpdateField, strings.TrimPrefix(mode, types.LastUpdateMax))
	case strings.HasPrefix(mode, types.LastUpdateColumn):
		return copyColumn(layer, core.LastUpdateField, strings.TrimPrefix(mode, types.LastUpdateColumn))
	default:
		return &core.ConfigurationError{Setting: "last_update", Reason: fmt.Sprintf("unsupported mode %q", mode)}
	}
}

func DeclarativeConfig(fields types.DeclarativeFields) core.LayerConfig {
	cfg := core.LayerConfig{
		RequiredFields: append([]string(nil), fields.RequiredFields...),
		FieldsToDelete: append([]string(nil), fields.DeleteFields...),
	}
	for _, field := range fields.AddFields {
		cfg.FieldsToAdd = append(cfg.FieldsToAdd, core.FieldValue{Name: field.Name, Value: normalizeValue(field.Value)})
	}
	return cfg
}

func NewDeclarative(ctx context.Context, in Input) (*core.SourceLayer, error) {
	if in.Fields == nil {
		return nil, &core.ConfigurationError{
			Setting: "sources." + in.Name + ".fields",
			Reason:  "declarative source requires fields",
		}
	}
	return in.build(ctx, DeclarativeConfig(*in.Fields), in.Fields.ParseFolderDate, NewDeclarativeHooks(*in.Fields))
}

// normalizeValue maps YAML scalars onto the value types tables carry.
func normalizeValue(value any) any {
	switch v := value.(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case uint64:
		return int64(v)
	case float32:
		return float64(v)
	default:
		return value
	}
}
