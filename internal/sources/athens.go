package sources

import (
	"context"

	"municipal-limits/internal/core"
)

// AthensHooks dissolves the city's boundary parts into one feature.
type AthensHooks struct {
	canonicalHooks
}

func (AthensHooks) GeometryOperations(ctx context.Context, layer *core.SourceLayer) error {
	return layer.CombineGeometryMultipart(ctx)
}

// AthensConfig expects the county schema already populated by the city.
func AthensConfig() core.LayerConfig {
	return core.LayerConfig{
		RequiredFields: []string{
			FieldGNIS, FieldName, FieldLocalFIPS, FieldMuniType,
			FieldProperName, FieldSource, FieldSrcURL, core.LastUpdateField,
		},
		FieldsToDelete: []string{"Shape_Area", "Shape_Length"},
	}
}

func NewAthens(ctx context.Context, in Input) (*core.SourceLayer, error) {
	return in.build(ctx, AthensConfig(), false, AthensHooks{})
}
