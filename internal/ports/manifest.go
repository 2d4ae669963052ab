package ports

import "municipal-limits/internal/types"

// ManifestPort loads the list of municipal sources for a run.
type ManifestPort interface {
	Load(path string) (types.Manifest, error)
}
