package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"municipal-limits/internal/sources"
	"municipal-limits/internal/types"
)

func TestApplyManifestDefaults(t *testing.T) {
	defaults := types.ManifestDefaults{
		BaseDir:      "./cities",
		Output:       "build-out",
		Driver:       types.DriverGeoPackage,
		OutputStem:   "county_limits",
		CanonicalCRS: "EPSG:26916",
	}

	tests := []struct {
		name     string
		req      ProcessRequest
		defaults types.ManifestDefaults
		expected ProcessRequest
	}{
		{
			name:     "empty request gets manifest defaults",
			req:      ProcessRequest{},
			defaults: defaults,
			expected: ProcessRequest{
				BaseDir:      "./cities",
				OutputDir:    "build-out",
				Driver:       types.DriverGeoPackage,
				OutputStem:   "county_limits",
				CanonicalCRS: "EPSG:26916",
			},
		},
		{
			name: "explicit values override defaults",
			req: ProcessRequest{
				BaseDir:         "/data/cities",
				OutputDir:       "/data/out",
				Driver:          types.DriverGeoJSON,
				OutputStem:      "limits",
				CanonicalCRS:    "EPSG:3857",
				CanonicalCRSWKT: "PROJCS[\"x\"]",
			},
			defaults: defaults,
			expected: ProcessRequest{
				BaseDir:         "/data/cities",
				OutputDir:       "/data/out",
				Driver:          types.DriverGeoJSON,
				OutputStem:      "limits",
				CanonicalCRS:    "EPSG:3857",
				CanonicalCRSWKT: "PROJCS[\"x\"]",
			},
		},
		{
			name: "built-in county defaults fill the gaps",
			req:  ProcessRequest{OutputDir: "out"},
			expected: ProcessRequest{
				BaseDir:         sources.DefaultBaseDir,
				OutputDir:       "out",
				Driver:          types.DriverShapefile,
				OutputStem:      sources.DefaultOutputStem,
				CanonicalCRS:    sources.DefaultCanonicalCRS,
				CanonicalCRSWKT: sources.DefaultCanonicalCRSWKT,
			},
		},
		{
			name: "whitespace counts as unset",
			req:  ProcessRequest{BaseDir: "  ", OutputStem: "\t"},
			defaults: types.ManifestDefaults{
				BaseDir:    "./cities",
				OutputStem: "county_limits",
			},
			expected: ProcessRequest{
				BaseDir:         "./cities",
				OutputDir:       sources.DefaultOutput,
				Driver:          types.DriverShapefile,
				OutputStem:      "county_limits",
				CanonicalCRS:    sources.DefaultCanonicalCRS,
				CanonicalCRSWKT: sources.DefaultCanonicalCRSWKT,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := applyManifestDefaults(tt.req, tt.defaults)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCheckProcessDefaultsHints(t *testing.T) {
	defaults := types.ManifestDefaults{
		BaseDir:      "./cities",
		Output:       "build-out",
		Driver:       types.DriverShapefile,
		CanonicalCRS: "ESRI:102630",
	}

	tests := []struct {
		name  string
		req   ProcessRequest
		hints []string
	}{
		{
			name: "no flags",
			req:  ProcessRequest{},
		},
		{
			name: "flags that differ from the manifest",
			req:  ProcessRequest{BaseDir: "/other", Driver: types.DriverGeoPackage},
		},
		{
			name: "flags that repeat the manifest",
			req:  ProcessRequest{BaseDir: "./cities", CanonicalCRS: "ESRI:102630"},
			hints: []string{
				"hint: --base-dir is also set in the manifest (defaults.base_dir); you can omit the flag",
				"hint: --canonical-crs is also set in the manifest (defaults.canonical_crs); you can omit the flag",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.hints, checkProcessDefaultsHints(tt.req, tt.defaults))
		})
	}
}
