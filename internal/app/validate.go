package app

import (
	"context"

	"municipal-limits/internal/core"
	"municipal-limits/internal/sources"
	"municipal-limits/internal/types"
)

// Validate checks a manifest and the configuration of every source without
// reading any source data.
func (s Service) Validate(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	manifest, err := s.loadManifest(req.ManifestPath)
	if err != nil {
		return ValidateResult{}, err
	}
	if err := core.NewSchemaChecker().ValidateManifest(ctx, manifest); err != nil {
		return ValidateResult{}, err
	}
	result := ValidateResult{ManifestName: manifest.Metadata.Name}
	for _, entry := range manifest.Sources {
		if _, err := sources.Lookup(entry.Variant); err != nil {
			return ValidateResult{}, err
		}
		if entry.Variant == types.VariantDeclarative {
			if err := core.ValidateConfig(sources.DeclarativeConfig(*entry.Fields)); err != nil {
				return ValidateResult{}, err
			}
		}
		result.Sources = append(result.Sources, entry.Name)
	}
	return result, nil
}
