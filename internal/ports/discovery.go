package ports

import "context"

// SourceDiscoveryPort locates the newest delivery of a municipality's data.
type SourceDiscoveryPort interface {
	// MostRecentFile returns the first file with the given extension found in
	// the subdirectories of folder, visiting subdirectories in reverse
	// lexical order so that dated folder names are tried newest first.
	MostRecentFile(folder string, extension string) (string, error)

	// MostRecentLayer returns the lexically greatest layer name in container
	// that starts with prefix.
	MostRecentLayer(ctx context.Context, container string, prefix string) (string, error)
}
