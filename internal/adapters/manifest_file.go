package adapters

import (
	"errors"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"municipal-limits/internal/core"
	"municipal-limits/internal/ports"
	"municipal-limits/internal/types"
)

type ManifestFileAdapter struct{}

func NewManifestFileAdapter() ManifestFileAdapter {
	return ManifestFileAdapter{}
}

func (a ManifestFileAdapter) Load(path string) (types.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Manifest{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("manifest file not found").
			WithCause(err)
	}
	var manifest types.Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		if errors.Is(err, types.ErrScalarFieldList) {
			return types.Manifest{}, &core.ConfigurationError{
				Setting: path,
				Reason:  "field lists must be yaml sequences",
				Err:     err,
			}
		}
		return types.Manifest{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse manifest yaml").
			WithCause(err)
	}
	return manifest, nil
}

var _ ports.ManifestPort = ManifestFileAdapter{}
