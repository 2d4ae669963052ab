package sources

import (
	"context"

	"municipal-limits/internal/core"
	"municipal-limits/internal/shared"
	"municipal-limits/internal/vector"
)

// TownsHooks keeps the towns of the county layer plus Ardmore, the one city
// that publishes no data of its own.
type TownsHooks struct {
	canonicalHooks
}

func (TownsHooks) SelectByAttributes(_ context.Context, layer *core.SourceLayer) error {
	layer.Table.Filter(func(row vector.Row) bool {
		return shared.AsString(row.Get(FieldMuniType)) == "Town" ||
			shared.AsString(row.Get(FieldName)) == "Ardmore"
	})
	return nil
}

func TownsConfig() core.LayerConfig {
	return core.LayerConfig{
		RequiredFields: []string{FieldMuniType, FieldName},
		FieldsToDelete: []string{"Shape_Area", "Shape_Length"},
	}
}

func NewTowns(ctx context.Context, in Input) (*core.SourceLayer, error) {
	return in.build(ctx, TownsConfig(), false, TownsHooks{})
}
