package adapters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"municipal-limits/internal/ports"
	"municipal-limits/internal/types"
)

type SourceDiscoveryAdapter struct {
	Layers ports.VectorReaderPort
}

func NewSourceDiscoveryAdapter(layers ports.VectorReaderPort) SourceDiscoveryAdapter {
	return SourceDiscoveryAdapter{Layers: layers}
}

func (a SourceDiscoveryAdapter) MostRecentFile(folder string, extension string) (string, error) {
	if strings.TrimSpace(folder) == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("source folder is empty")
	}
	entries, err := os.ReadDir(folder)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("source folder not found: %s", folder)).
			WithCause(err)
	}
	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() && !shouldSkipSourceDir(entry.Name()) {
			dirs = append(dirs, entry.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dirs)))
	for _, dir := range dirs {
		files, err := os.ReadDir(filepath.Join(folder, dir))
		if err != nil {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("failed to scan %s", filepath.Join(folder, dir))).
				WithCause(err)
		}
		for _, file := range files {
			if !file.IsDir() && strings.EqualFold(filepath.Ext(file.Name()), extension) {
				return filepath.Join(folder, dir, file.Name()), nil
			}
		}
	}
	return "", errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("no %s file in any subfolder of %s", extension, folder))
}

func (a SourceDiscoveryAdapter) MostRecentLayer(ctx context.Context, container string, prefix string) (string, error) {
	if a.Layers == nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("no layer reader configured")
	}
	layers, err := a.Layers.ListLayers(ctx, container, types.DriverGeoPackage)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, layer := range layers {
		if strings.HasPrefix(layer, prefix) {
			matches = append(matches, layer)
		}
	}
	if len(matches) == 0 {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no layer starting with %s in %s", prefix, container))
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}

func shouldSkipSourceDir(name string) bool {
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "__") {
		return true
	}
	return false
}

var _ ports.SourceDiscoveryPort = SourceDiscoveryAdapter{}
