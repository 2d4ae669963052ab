// Package testutil provides shared test helpers used across integration,
// cli, and app test packages.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"

	"municipal-limits/internal/adapters"
	"municipal-limits/internal/ports"
	"municipal-limits/internal/types"
	"municipal-limits/internal/vector"
)

// CountyCRS is the CRS every fixture layer is written in.
const CountyCRS = "ESRI:102630"

// County is a complete set of county source data written to disk.
type County struct {
	Root     string
	BaseDir  string
	Output   string
	Manifest string
}

// RepoRoot returns the absolute path to the repository root by walking
// up from the current working directory. It fails the test if the
// working directory cannot be determined.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(dir, "..", ".."))
}

// Square is an axis-aligned square polygon with its corner at x, y.
func Square(x, y, size float64) orb.Polygon {
	return orb.Polygon{orb.Ring{{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}, {x, y}}}
}

// Date is midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// WriteCounty writes the five county sources under a temporary directory
// together with a manifest that points at them. The latest LASTUPDATE among
// them is 2020-04-15 and the merged dataset has eight features.
func WriteCounty(t *testing.T) County {
	t.Helper()
	root := t.TempDir()
	county := County{
		Root:     root,
		BaseDir:  filepath.Join(root, "cities"),
		Output:   filepath.Join(root, "out"),
		Manifest: filepath.Join(root, "municipal-limits.yaml"),
	}
	const mile = 5280.0
	origin := func(i int) (float64, float64) { return 1900000 + float64(i)*2*mile, 1500000 }

	writeShapefile(t, filepath.Join(county.BaseDir, "decatur", "2018 03 01", "Decatur_Limits.shp"),
		[]types.FieldSpec{{Name: "OBJECTID", Type: types.FieldTypeInt, Width: 10}},
		feature(Square(0, 0, mile), map[string]any{"OBJECTID": int64(1)}),
	)
	decaturFields := []types.FieldSpec{
		{Name: "OBJECTID", Type: types.FieldTypeInt, Width: 10},
		{Name: "Shape_STAr", Type: types.FieldTypeFloat, Width: 19, Precision: 3},
		{Name: "Shape_STLe", Type: types.FieldTypeFloat, Width: 19, Precision: 3},
	}
	x, y := origin(0)
	writeShapefile(t, filepath.Join(county.BaseDir, "decatur", "2020 01 31", "Decatur_Limits.shp"), decaturFields,
		feature(Square(x, y, mile), map[string]any{"OBJECTID": int64(1), "Shape_STAr": mile * mile, "Shape_STLe": 4 * mile}),
		feature(Square(x, y+2*mile, mile), map[string]any{"OBJECTID": int64(2), "Shape_STAr": mile * mile, "Shape_STLe": 4 * mile}),
	)

	x, y = origin(1)
	writeShapefile(t, filepath.Join(county.BaseDir, "madison", "2019 06 10", "MadCityLimits_6-10-19.shp"),
		[]types.FieldSpec{
			{Name: "Name", Type: types.FieldTypeString, Width: 30},
			{Name: "Use_Status", Type: types.FieldTypeString, Width: 10},
			{Name: "Shape_area", Type: types.FieldTypeFloat, Width: 19, Precision: 3},
		},
		feature(Square(x, y, mile), map[string]any{"Name": "Madison", "Use_Status": "Active", "Shape_area": mile * mile}),
	)

	x, y = origin(2)
	writeShapefile(t, filepath.Join(county.BaseDir, "huntsville", "2019 12 01", "CityLimits.shp"),
		[]types.FieldSpec{
			{Name: "CityName", Type: types.FieldTypeString, Width: 30},
			{Name: "Eff_Date", Type: types.FieldTypeDate},
			{Name: "Mod_Date", Type: types.FieldTypeDate},
			{Name: "Mod_User", Type: types.FieldTypeString, Width: 20},
			{Name: "SHAPE_STAr", Type: types.FieldTypeFloat, Width: 19, Precision: 3},
			{Name: "SHAPE_STLe", Type: types.FieldTypeFloat, Width: 19, Precision: 3},
		},
		feature(Square(x, y, mile), map[string]any{
			"CityName": "Huntsville", "Eff_Date": Date(2019, 11, 20), "Mod_Date": Date(2019, 11, 21),
			"Mod_User": "gis", "SHAPE_STAr": mile * mile, "SHAPE_STLe": 4 * mile,
		}),
	)

	athensFields := append(types.CanonicalSchema().Fields,
		types.FieldSpec{Name: "Shape_Area", Type: types.FieldTypeFloat, Width: 24, Precision: 3},
		types.FieldSpec{Name: "Shape_Length", Type: types.FieldTypeFloat, Width: 24, Precision: 3},
	)
	athensPath := filepath.Join(root, "AthensMunicipalLimits.gpkg")
	x, y = origin(3)
	for _, edition := range []time.Time{Date(2019, 1, 1), Date(2020, 4, 15)} {
		writeGeoPackageLayer(t, athensPath, "AthensMunicipalBoundary_"+edition.Format("20060102"), athensFields,
			feature(Square(x, y, mile), athensValues(edition)),
			feature(Square(x+mile, y, mile), athensValues(edition)),
		)
	}

	townFields := []types.FieldSpec{
		{Name: "NAME", Type: types.FieldTypeString, Width: 50},
		{Name: "MUNITYP", Type: types.FieldTypeString, Width: 10},
		{Name: "GNIS", Type: types.FieldTypeInt, Width: 10},
		{Name: "LASTUPDATE", Type: types.FieldTypeDate},
		{Name: "Shape_Area", Type: types.FieldTypeFloat, Width: 24, Precision: 3},
		{Name: "Shape_Length", Type: types.FieldTypeFloat, Width: 24, Precision: 3},
	}
	var towns []vector.Row
	for i, town := range []struct {
		name string
		kind string
		gnis int64
	}{
		{"Elkmont", "Town", 2406440},
		{"Athens", "City", 2404231},
		{"Ardmore", "City", 2403114},
		{"Lester", "Town", 2406006},
		{"Mooresville", "Town", 2406194},
	} {
		x, y = origin(5 + i)
		towns = append(towns, feature(Square(x, y, mile), map[string]any{
			"NAME": town.name, "MUNITYP": town.kind, "GNIS": town.gnis, "LASTUPDATE": Date(2018, 5, 1),
			"Shape_Area": mile * mile, "Shape_Length": 4 * mile,
		}))
	}
	writeGeoPackageLayer(t, filepath.Join(root, "MunicipalLimits.gpkg"), "MunicipalBoundary", townFields, towns...)

	manifest := fmt.Sprintf(`api_version: v1
kind: municipal-limits
metadata:
  name: limestone-county-test
defaults:
  base_dir: %q
  output: %q
  driver: ESRI Shapefile
  output_stem: limestone_co_municipal_limits
  canonical_crs: %s
sources:
  - name: athens
    variant: athens
    path: %q
    driver: GPKG
    layer_prefix: AthensMunicipalBoundary
  - name: decatur
    variant: decatur
    folder: decatur
    assume_crs: %s
  - name: madison
    variant: madison
    folder: madison
    assume_crs: %s
  - name: huntsville
    variant: huntsville
    folder: huntsville
    assume_crs: %s
  - name: towns
    variant: towns
    path: %q
    driver: GPKG
    layer: MunicipalBoundary
`, county.BaseDir, county.Output, CountyCRS, athensPath, CountyCRS, CountyCRS, CountyCRS,
		filepath.Join(root, "MunicipalLimits.gpkg"))
	require.NoError(t, os.WriteFile(county.Manifest, []byte(manifest), 0o644))
	return county
}

func athensValues(edition time.Time) map[string]any {
	return map[string]any{
		"NAME": "Athens", "ProperName": "City of Athens", "MUNITYP": "City", "GNIS": int64(2404231),
		"LOCALFIPS": "02956", "Source": "City of Athens GIS", "SrcURL": "https://www.athensal.us",
		"LASTUPDATE": edition, "Shape_Area": 5280.0 * 5280.0, "Shape_Length": 4 * 5280.0,
	}
}

func feature(geometry orb.Geometry, values map[string]any) vector.Row {
	return vector.Row{Geometry: geometry, Values: values}
}

func writeShapefile(t *testing.T, path string, fields []types.FieldSpec, rows ...vector.Row) {
	t.Helper()
	table := vector.NewTable("")
	for _, row := range rows {
		table.Append(row)
	}
	opts := ports.WriteOptions{Driver: types.DriverShapefile, Schema: types.OutputSchema{GeometryType: "Polygon", Fields: fields}}
	require.NoError(t, adapters.NewShapefileAdapter().Write(t.Context(), path, table, opts))
}

func writeGeoPackageLayer(t *testing.T, path string, layer string, fields []types.FieldSpec, rows ...vector.Row) {
	t.Helper()
	table := vector.NewTable(CountyCRS)
	for _, row := range rows {
		table.Append(row)
	}
	opts := ports.WriteOptions{
		Driver: types.DriverGeoPackage,
		Layer:  layer,
		Schema: types.OutputSchema{GeometryType: "Polygon", Fields: fields},
	}
	require.NoError(t, adapters.NewGeoPackageAdapter().WriteLayer(t.Context(), path, table, opts))
}
