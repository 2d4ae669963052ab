package sources

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"municipal-limits/internal/core"
	"municipal-limits/internal/types"
)

func elkmontFields() *types.DeclarativeFields {
	return &types.DeclarativeFields{
		RequiredFields: types.FieldList{"TownName"},
		AddFields: types.FieldValues{
			{Name: "GNIS", Value: 2406440},
			{Name: "LOCALFIPS", Value: "23584"},
			{Name: "MUNITYP", Value: "Town"},
		},
		DeleteFields:    types.FieldList{"TownName"},
		Copy:            []types.FieldCopy{{To: "NAME", From: "TownName"}},
		LastUpdate:      types.LastUpdateFolder,
		Dissolve:        true,
		ParseFolderDate: true,
	}
}

func TestDeclarativeSource(t *testing.T) {
	in, projection := testInput("cities/elkmont/2021 03 04/elkmont.shp", tableOf("EPSG:4326",
		map[string]any{"TownName": "Elkmont"},
		map[string]any{"TownName": "Elkmont"},
	))
	in.Fields = elkmontFields()

	layer, err := NewDeclarative(t.Context(), in)
	require.NoError(t, err)
	assert.Equal(t, []string{"EPSG:4326->ESRI:102630"}, projection.calls)
	require.Equal(t, 1, layer.Table.Len())

	row := layer.Table.Rows[0]
	assert.Equal(t, "Elkmont", row.Get("NAME"))
	assert.Equal(t, int64(2406440), row.Get("GNIS"))
	assert.Equal(t, date(2021, 3, 4), row.Get("LASTUPDATE"))
	assert.InDelta(t, 2.0, row.Get(core.AreaField), 1e-9)
	assert.False(t, layer.Table.HasColumn("TownName"))
}

func TestDeclarativeFilterAndLastUpdateModes(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		expected []any
	}{
		{name: "max", mode: "max:EDITED", expected: []any{date(2020, 5, 1), date(2020, 5, 1)}},
		{name: "column", mode: "column:EDITED", expected: []any{"2020-05-01", "2019-02-03"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, _ := testInput("towns.geojson", tableOf("EPSG:4326",
				map[string]any{"NAME": "Elkmont", "MUNITYP": "Town", "EDITED": "2020-05-01"},
				map[string]any{"NAME": "Athens", "MUNITYP": "City", "EDITED": "2021-01-01"},
				map[string]any{"NAME": "Ardmore", "MUNITYP": "City", "EDITED": "2019-02-03"},
			))
			in.Fields = &types.DeclarativeFields{
				Filter: []types.AttributeMatch{
					{Field: "MUNITYP", Equals: "Town"},
					{Field: "NAME", Equals: "Ardmore"},
				},
				LastUpdate: tt.mode,
			}

			layer, err := NewDeclarative(t.Context(), in)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, layer.Table.Column("LASTUPDATE"))
		})
	}
}

func TestDeclarativeRequiresFields(t *testing.T) {
	in, _ := testInput("towns.geojson", tableOf("EPSG:4326"))
	_, err := NewDeclarative(t.Context(), in)
	var cfgErr *core.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
}

func TestDeclarativeRejectsBlankFieldNames(t *testing.T) {
	in, _ := testInput("towns.geojson", tableOf("EPSG:4326", map[string]any{"NAME": "Elkmont"}))
	in.Fields = &types.DeclarativeFields{DeleteFields: types.FieldList{" "}}

	_, err := NewDeclarative(t.Context(), in)
	var cfgErr *core.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "fields_to_delete", cfgErr.Setting)
}
