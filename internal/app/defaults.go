package app

import (
	"strings"

	"municipal-limits/internal/sources"
	"municipal-limits/internal/types"
)

// loadManifest reads path, or returns the built-in county manifest when no
// path is given.
func (s Service) loadManifest(path string) (types.Manifest, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return sources.DefaultManifest(), nil
	}
	return s.Manifest.Load(path)
}

// applyManifestDefaults fills request fields left empty from the manifest
// defaults, then from the built-in county defaults.
func applyManifestDefaults(req ProcessRequest, defaults types.ManifestDefaults) ProcessRequest {
	req.BaseDir = firstNonEmpty(req.BaseDir, defaults.BaseDir, sources.DefaultBaseDir)
	req.OutputDir = firstNonEmpty(req.OutputDir, defaults.Output, sources.DefaultOutput)
	req.OutputStem = firstNonEmpty(req.OutputStem, defaults.OutputStem, sources.DefaultOutputStem)
	req.CanonicalCRS = firstNonEmpty(req.CanonicalCRS, defaults.CanonicalCRS, sources.DefaultCanonicalCRS)
	req.Driver = types.Driver(firstNonEmpty(string(req.Driver), string(defaults.Driver), string(types.DriverShapefile)))
	if strings.TrimSpace(req.CanonicalCRSWKT) == "" {
		req.CanonicalCRSWKT = defaults.CanonicalCRSWKT
	}
	if strings.TrimSpace(req.CanonicalCRSWKT) == "" && strings.EqualFold(req.CanonicalCRS, sources.DefaultCanonicalCRS) {
		req.CanonicalCRSWKT = sources.DefaultCanonicalCRSWKT
	}
	return req
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
