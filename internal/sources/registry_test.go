package sources

import (
	"errors"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"municipal-limits/internal/core"
	"municipal-limits/internal/ports"
	"municipal-limits/internal/types"
	"municipal-limits/internal/vector"
)

func TestLookupUnknownVariant(t *testing.T) {
	_, err := Lookup("auburn")
	var cfgErr *core.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, cfgErr.Error(), "auburn")
}

func TestVariantsSorted(t *testing.T) {
	assert.Equal(t, []types.Variant{
		types.VariantAthens,
		types.VariantDecatur,
		types.VariantDeclarative,
		types.VariantHuntsville,
		types.VariantMadison,
		types.VariantTowns,
	}, Variants())
}

func TestDefaultManifestIsValid(t *testing.T) {
	manifest := DefaultManifest()
	require.NoError(t, core.NewSchemaChecker().ValidateManifest(t.Context(), manifest))
	for _, source := range manifest.Sources {
		_, err := Lookup(source.Variant)
		assert.NoError(t, err, source.Name)
	}
}

// TestFiveSourcesMerge builds every county source through the registry and
// merges them the way a run does.
func TestFiveSourcesMerge(t *testing.T) {
	polygon := func(x float64) orb.Polygon { return square(x, 0, mile) }
	reader := mapReader{
		"AthensMunicipalLimits.gpkg": tableWith("EPSG:4326",
			row(polygon(0), map[string]any{
				"GNIS": int64(2404231), "NAME": "Athens", "LOCALFIPS": "02956", "MUNITYP": "City",
				"ProperName": "City of Athens", "Source": "City of Athens", "SrcURL": "https://www.athensal.us",
				"LASTUPDATE": date(2020, 4, 15), "Shape_Area": 1.0, "Shape_Length": 4.0,
			}),
		),
		"cities/decatur/2020 01 31/Decatur.shp": tableWith("ESRI:102630",
			row(polygon(2*mile), map[string]any{"Shape_STAr": 1.0, "Shape_STLe": 4.0}),
			row(polygon(4*mile), map[string]any{"Shape_STAr": 1.0, "Shape_STLe": 4.0}),
		),
		"cities/madison/2019 06 10/Madison.shp": tableWith("ESRI:102630",
			row(polygon(6*mile), map[string]any{"Name": "Madison", "Use_Status": "Active", "Shape_area": 1.0}),
		),
		"cities/huntsville/2019 12 01/Huntsville.shp": tableWith("EPSG:3857",
			row(polygon(8*mile), map[string]any{
				"CityName": "Huntsville", "Eff_Date": "2019-11-20", "Mod_Date": "2019-11-21",
				"Mod_User": "gis", "SHAPE_STAr": 1.0, "SHAPE_STLe": 4.0,
			}),
		),
		"MunicipalLimits.gpkg": tableWith("ESRI:102630",
			row(polygon(10*mile), map[string]any{"NAME": "Elkmont", "MUNITYP": "Town", "LASTUPDATE": date(2018, 5, 1), "Shape_Area": 1.0, "Shape_Length": 4.0}),
			row(polygon(12*mile), map[string]any{"NAME": "Athens", "MUNITYP": "City", "LASTUPDATE": date(2018, 5, 1), "Shape_Area": 1.0, "Shape_Length": 4.0}),
			row(polygon(14*mile), map[string]any{"NAME": "Ardmore", "MUNITYP": "City", "LASTUPDATE": date(2018, 5, 1), "Shape_Area": 1.0, "Shape_Length": 4.0}),
		),
	}
	projection := &labelProjection{}
	engines := core.Engines{Geometry: collectUnion{}, Projection: projection}
	order := []struct {
		variant types.Variant
		path    string
	}{
		{types.VariantAthens, "AthensMunicipalLimits.gpkg"},
		{types.VariantDecatur, "cities/decatur/2020 01 31/Decatur.shp"},
		{types.VariantMadison, "cities/madison/2019 06 10/Madison.shp"},
		{types.VariantHuntsville, "cities/huntsville/2019 12 01/Huntsville.shp"},
		{types.VariantTowns, "MunicipalLimits.gpkg"},
	}

	var layers []*core.Layer
	for _, source := range order {
		layer, err := Build(t.Context(), source.variant, Input{
			Name:         string(source.variant),
			Path:         source.path,
			Read:         ports.ReadOptions{},
			Reader:       reader,
			CanonicalCRS: testCanonicalCRS,
			Engines:      engines,
		})
		require.NoError(t, err, source.variant)
		assert.Empty(t, layer.Warnings, source.variant)
		assert.Equal(t, testCanonicalCRS, layer.Table.CRS, source.variant)
		layers = append(layers, layer.Layer)
	}
	assert.Equal(t, []string{"EPSG:4326->ESRI:102630", "EPSG:3857->ESRI:102630"}, projection.calls)

	merger := core.Merger{NewID: func() string { return "{00000000-0000-0000-0000-000000000000}" }}
	result, err := merger.Merge(t.Context(), layers, core.MergeOptions{CanonicalCRS: testCanonicalCRS, AssignGlobalIDs: true})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 4, 15, 0, 0, 0, 0, time.UTC), result.DatasetDate)

	combined := result.Layer.Table
	assert.Equal(t, testCanonicalCRS, combined.CRS)
	assert.Equal(t, []any{"Athens", "Decatur", "Madison", "Huntsville", "Elkmont", "Ardmore"}, combined.Column("NAME"))
	for i, row := range combined.Rows {
		for _, field := range []string{"NAME", "MUNITYP", "LASTUPDATE", "GlobalID", core.AreaField} {
			assert.NotNil(t, row.Get(field), "row %d field %s", i, field)
		}
	}
	assert.InDelta(t, 2.0, combined.Rows[1].Get(core.AreaField), 1e-9, "decatur parts are dissolved")

	warnings := core.NewSchemaChecker().CheckLayer(t.Context(), result.Layer, types.CanonicalSchema())
	assert.Equal(t, []string{"output fields without data: LASTEDITOR, ChangeDesc"}, warnings)
}

func row(geometry orb.Geometry, values map[string]any) vector.Row {
	return vector.Row{Geometry: geometry, Values: values}
}

func tableWith(crs string, rows ...vector.Row) vector.Table {
	table := vector.NewTable(crs)
	for _, r := range rows {
		table.Append(r)
	}
	return table
}
