package sources

import (
	"context"

	"municipal-limits/internal/core"
)

const (
	huntsvilleCityName = "CityName"
	huntsvilleEffDate  = "Eff_Date"
)

// HuntsvilleHooks names features from CityName and dates the whole layer by
// its latest effective date.
type HuntsvilleHooks struct {
	canonicalHooks
}

func (HuntsvilleHooks) CopyFields(_ context.Context, layer *core.SourceLayer) error {
	if err := copyColumn(layer, FieldName, huntsvilleCityName); err != nil {
		return err
	}
	return copyLatest(layer, core.LastUpdateField, huntsvilleEffDate)
}

func HuntsvilleConfig() core.LayerConfig {
	return core.LayerConfig{
		RequiredFields: []string{huntsvilleCityName, huntsvilleEffDate, "Mod_Date"},
		FieldsToAdd: []core.FieldValue{
			{Name: FieldGNIS, Value: int64(2404746)},
			{Name: FieldLocalFIPS, Value: "37000"},
			{Name: FieldMuniType, Value: "City"},
			{Name: FieldProperName, Value: "City of Huntsville"},
			{Name: FieldSource, Value: "City of Huntsville, GIS Dept."},
			{Name: FieldSrcURL, Value: "https://www.huntsvilleal.gov/development/building-construction/gis/data-depot/"},
		},
		FieldsToDelete: []string{huntsvilleCityName, "Mod_Date", huntsvilleEffDate, "Mod_User", "SHAPE_STAr", "SHAPE_STLe"},
	}
}

func NewHuntsville(ctx context.Context, in Input) (*core.SourceLayer, error) {
	return in.build(ctx, HuntsvilleConfig(), false, HuntsvilleHooks{})
}
