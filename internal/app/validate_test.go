package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"municipal-limits/internal/core"
)

func TestValidateApp(t *testing.T) {
	root, err := filepath.Abs(filepath.Join("..", ".."))
	require.NoError(t, err)

	service := NewService()
	result, err := service.Validate(t.Context(), ValidateRequest{
		ManifestPath: filepath.Join(root, "fixtures", "municipal-limits.yaml"),
	})
	require.NoError(t, err)
	if diff := cmp.Diff("limestone-county", result.ManifestName); diff != "" {
		t.Fatalf("unexpected manifest name (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"athens", "decatur", "madison", "huntsville", "towns"}, result.Sources)

	result, err = service.Validate(t.Context(), ValidateRequest{
		ManifestPath: filepath.Join(root, "fixtures", "declarative-source.yaml"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"elkmont"}, result.Sources)
}

func TestValidateBuiltInManifest(t *testing.T) {
	result, err := NewService().Validate(t.Context(), ValidateRequest{})
	require.NoError(t, err)
	assert.Len(t, result.Sources, 5)
}

func TestValidateRejectsBadManifests(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		check    func(t *testing.T, err error)
	}{
		{
			name: "unknown variant",
			manifest: `api_version: v1
kind: municipal-limits
metadata: {name: bad}
sources:
  - {name: auburn, variant: auburn, path: auburn.shp}
`,
			check: func(t *testing.T, err error) {
				var cfgErr *core.ConfigurationError
				assert.True(t, errors.As(err, &cfgErr))
			},
		},
		{
			name: "scalar delete fields",
			manifest: `api_version: v1
kind: municipal-limits
metadata: {name: bad}
sources:
  - name: elkmont
    variant: declarative
    path: elkmont.shp
    fields:
      delete_fields: TownName
`,
			check: func(t *testing.T, err error) {
				var cfgErr *core.ConfigurationError
				assert.True(t, errors.As(err, &cfgErr))
			},
		},
		{
			name: "blank declarative field name",
			manifest: `api_version: v1
kind: municipal-limits
metadata: {name: bad}
sources:
  - name: elkmont
    variant: declarative
    path: elkmont.shp
    fields:
      required_fields: ["  "]
`,
			check: func(t *testing.T, err error) {
				var cfgErr *core.ConfigurationError
				assert.True(t, errors.As(err, &cfgErr))
			},
		},
		{
			name: "path and folder",
			manifest: `api_version: v1
kind: municipal-limits
metadata: {name: bad}
sources:
  - {name: madison, variant: madison, path: madison.shp, folder: madison}
`,
			check: func(t *testing.T, err error) {
				assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "manifest.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.manifest), 0o644))
			_, err := NewService().Validate(t.Context(), ValidateRequest{ManifestPath: path})
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}
