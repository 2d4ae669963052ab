package sources

import (
	"context"

	"municipal-limits/internal/core"
)

// DecaturHooks dissolves the city's parts and dates them by folder.
type DecaturHooks struct {
	canonicalHooks
}

func (DecaturHooks) GeometryOperations(ctx context.Context, layer *core.SourceLayer) error {
	return layer.CombineGeometryMultipart(ctx)
}

func (DecaturHooks) CopyFields(_ context.Context, layer *core.SourceLayer) error {
	copyFolderDate(layer, core.LastUpdateField)
	return nil
}

func DecaturConfig() core.LayerConfig {
	return core.LayerConfig{
		FieldsToAdd: []core.FieldValue{
			{Name: FieldGNIS, Value: int64(2404206)},
			{Name: FieldLocalFIPS, Value: "20104"},
			{Name: FieldMuniType, Value: "City"},
			{Name: FieldName, Value: "Decatur"},
			{Name: FieldProperName, Value: "City of Decatur"},
			{Name: FieldSource, Value: "City of Decatur, Information Technology Dept."},
		},
		FieldsToDelete: []string{"Shape_STAr", "Shape_STLe"},
	}
}

func NewDecatur(ctx context.Context, in Input) (*core.SourceLayer, error) {
	return in.build(ctx, DecaturConfig(), true, DecaturHooks{})
}
