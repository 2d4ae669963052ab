package sources

import (
	"context"

	"municipal-limits/internal/core"
)

const madisonName = "Name"

type MadisonHooks struct {
	canonicalHooks
}

func (MadisonHooks) CopyFields(_ context.Context, layer *core.SourceLayer) error {
	if err := copyColumn(layer, FieldName, madisonName); err != nil {
		return err
	}
	copyFolderDate(layer, core.LastUpdateField)
	return nil
}

func MadisonConfig() core.LayerConfig {
	return core.LayerConfig{
		RequiredFields: []string{madisonName},
		FieldsToAdd: []core.FieldValue{
			{Name: FieldGNIS, Value: int64(2404989)},
			{Name: FieldLocalFIPS, Value: "45784"},
			{Name: FieldMuniType, Value: "City"},
			{Name: FieldProperName, Value: "City of Madison"},
			{Name: FieldSource, Value: "City of Madison, Engineering Dept."},
		},
		FieldsToDelete: []string{madisonName, "Use_Status", "Shape_area"},
	}
}

func NewMadison(ctx context.Context, in Input) (*core.SourceLayer, error) {
	return in.build(ctx, MadisonConfig(), true, MadisonHooks{})
}
