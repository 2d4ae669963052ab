package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"municipal-limits/internal/types"
	"municipal-limits/internal/vector"
)

func baseManifest() types.Manifest {
	return types.Manifest{
		APIVersion: "v1",
		Kind:       types.ManifestKindMunicipalLimits,
		Metadata:   types.Metadata{Name: "limestone-county", Owners: []string{"gis"}},
		Sources: []types.SourceEntry{
			{Name: "madison", Variant: types.VariantMadison, Folder: "madison"},
			{Name: "athens", Variant: types.VariantAthens, Path: "athens.gpkg", Driver: types.DriverGeoPackage, LayerPrefix: "AthensMunicipalBoundary"},
		},
	}
}

func TestValidateManifestCases(t *testing.T) {
	checker := NewSchemaChecker()

	tests := []struct {
		name      string
		build     func() types.Manifest
		wantErr   bool
		wantCfgEr bool
	}{
		{
			name:  "valid manifest",
			build: baseManifest,
		},
		{
			name: "missing api version",
			build: func() types.Manifest {
				manifest := baseManifest()
				manifest.APIVersion = ""
				return manifest
			},
			wantErr: true,
		},
		{
			name: "wrong kind",
			build: func() types.Manifest {
				manifest := baseManifest()
				manifest.Kind = "product"
				return manifest
			},
			wantErr: true,
		},
		{
			name: "no sources",
			build: func() types.Manifest {
				manifest := baseManifest()
				manifest.Sources = nil
				return manifest
			},
			wantErr: true,
		},
		{
			name: "unknown variant",
			build: func() types.Manifest {
				manifest := baseManifest()
				manifest.Sources[0].Variant = "springfield"
				return manifest
			},
			wantErr:   true,
			wantCfgEr: true,
		},
		{
			name: "path and folder together",
			build: func() types.Manifest {
				manifest := baseManifest()
				manifest.Sources[0].Path = "madison.shp"
				return manifest
			},
			wantErr: true,
		},
		{
			name: "duplicate names",
			build: func() types.Manifest {
				manifest := baseManifest()
				manifest.Sources[1].Name = "madison"
				return manifest
			},
			wantErr: true,
		},
		{
			name: "unknown driver",
			build: func() types.Manifest {
				manifest := baseManifest()
				manifest.Sources[1].Driver = "FileGDB"
				return manifest
			},
			wantErr: true,
		},
		{
			name: "declarative without fields",
			build: func() types.Manifest {
				manifest := baseManifest()
				manifest.Sources[0].Variant = types.VariantDeclarative
				return manifest
			},
			wantErr:   true,
			wantCfgEr: true,
		},
		{
			name: "declarative folder date without parsing",
			build: func() types.Manifest {
				manifest := baseManifest()
				manifest.Sources[0].Variant = types.VariantDeclarative
				manifest.Sources[0].Fields = &types.DeclarativeFields{LastUpdate: "folder"}
				return manifest
			},
			wantErr:   true,
			wantCfgEr: true,
		},
		{
			name: "declarative max column",
			build: func() types.Manifest {
				manifest := baseManifest()
				manifest.Sources[0].Variant = types.VariantDeclarative
				manifest.Sources[0].Fields = &types.DeclarativeFields{LastUpdate: "max:Eff_Date"}
				return manifest
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checker.ValidateManifest(t.Context(), tt.build())
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.wantCfgEr {
				var cfgErr *ConfigurationError
				require.ErrorAs(t, err, &cfgErr)
			}
		})
	}
}

func TestCheckLayerReportsGaps(t *testing.T) {
	layer, err := NewLayer(t.Context(), LayerOptions{Table: tableOf("ESRI:102630",
		vector.Row{Values: map[string]any{"NAME": "a", "Use_Status": "x"}},
	)})
	require.NoError(t, err)

	warnings := NewSchemaChecker().CheckLayer(t.Context(), layer, types.CanonicalSchema())
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "ProperName")
	assert.NotContains(t, warnings[0], "NAME,")
	assert.Contains(t, warnings[1], "Use_Status")
}
