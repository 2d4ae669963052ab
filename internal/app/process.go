package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"

	"municipal-limits/internal/adapters"
	"municipal-limits/internal/core"
	"municipal-limits/internal/ports"
	"municipal-limits/internal/shared"
	"municipal-limits/internal/sources"
	"municipal-limits/internal/types"
	"municipal-limits/internal/vector"
)

const (
	shapefileExtension = ".shp"
	outputLayerPrefix  = "MunicipalBoundary_"
)

// Process normalizes every manifest source, merges them and writes the
// dataset named after its most recent update. Nothing is written on a dry
// run or when any step fails.
func (s Service) Process(ctx context.Context, req ProcessRequest) (ProcessResult, error) {
	started := s.now()
	manifest, err := s.loadManifest(req.ManifestPath)
	if err != nil {
		return ProcessResult{}, err
	}
	checker := core.NewSchemaChecker()
	if err := checker.ValidateManifest(ctx, manifest); err != nil {
		return ProcessResult{}, err
	}
	if strings.TrimSpace(req.ManifestPath) != "" {
		emitHints(checkProcessDefaultsHints(req, manifest.Defaults))
	}
	req = applyManifestDefaults(req, manifest.Defaults)
	if !knownDriver(req.Driver) {
		return ProcessResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported output driver: %s", req.Driver))
	}

	engines := core.Engines{Geometry: s.Geometry, Projection: s.Projection}
	layers := make([]*core.Layer, 0, len(manifest.Sources))
	summaries := make([]types.SourceSummary, 0, len(manifest.Sources))
	var warnings []string
	for _, entry := range manifest.Sources {
		in, err := s.sourceInput(ctx, req, entry, engines)
		if err != nil {
			return ProcessResult{}, err
		}
		layer, err := sources.Build(ctx, entry.Variant, in)
		if err != nil {
			return ProcessResult{}, err
		}
		layers = append(layers, layer.Layer)
		summaries = append(summaries, types.SourceSummary{
			Name:     entry.Name,
			Variant:  entry.Variant,
			Path:     in.Path,
			Rows:     layer.Table.Len(),
			Warnings: layer.Warnings,
		})
		for _, warning := range layer.Warnings {
			warnings = append(warnings, fmt.Sprintf("%s: %s", entry.Name, warning))
		}
	}

	merger := core.NewMerger()
	if s.NewID != nil {
		merger.NewID = s.NewID
	}
	merged, err := merger.Merge(ctx, layers, core.MergeOptions{
		CanonicalCRS:    req.CanonicalCRS,
		AssignGlobalIDs: req.AssignGlobalIDs,
	})
	if err != nil {
		return ProcessResult{}, err
	}
	combined := merged.Layer
	if clip := strings.TrimSpace(req.ClipPath); clip != "" {
		dropped, err := s.clip(ctx, combined, clip, engines)
		if err != nil {
			return ProcessResult{}, err
		}
		warnings = append(warnings, dropped...)
	}
	schemaWarnings := checker.CheckLayer(ctx, combined, types.CanonicalSchema())
	warnings = append(warnings, schemaWarnings...)

	filename := core.OutputFilename(merged.DatasetDate, req.OutputStem, adapters.Extension(req.Driver))
	result := ProcessResult{
		DatasetDate: merged.DatasetDate,
		OutputPath:  filepath.Join(req.OutputDir, filename),
		Rows:        combined.Table.Len(),
		DryRun:      req.DryRun,
		Sources:     summaries,
		Warnings:    warnings,
	}
	logger := log.Ctx(ctx).With().Str("output", result.OutputPath).Logger()
	if req.DryRun {
		logger.Info().Int("rows", result.Rows).Msg("dry run; dataset not written")
		result.Duration = s.now().Sub(started)
		return result, nil
	}

	logger.Info().Msg("writing dataset")
	err = s.Writer.Write(ctx, result.OutputPath, combined.Table, ports.WriteOptions{
		Driver: req.Driver,
		Layer:  outputLayerPrefix + merged.DatasetDate.Format("20060102"),
		Schema: types.CanonicalSchema(),
		CRSWKT: req.CanonicalCRSWKT,
	})
	if err != nil {
		return ProcessResult{}, err
	}
	if reportPath := strings.TrimSpace(req.ReportPath); reportPath != "" {
		report := types.RunReport{
			DatasetDate: result.DatasetDate,
			OutputPath:  result.OutputPath,
			Rows:        result.Rows,
			DryRun:      result.DryRun,
			Sources:     summaries,
			Warnings:    schemaWarnings,
		}
		if err := s.Reports.WriteRunReport(reportPath, report); err != nil {
			return ProcessResult{}, err
		}
		result.ReportPath = reportPath
	}
	result.Duration = s.now().Sub(started)
	logger.Info().
		Int("rows", result.Rows).
		Str("dataset_date", result.DatasetDate.Format("2006-01-02")).
		Dur("duration", result.Duration).
		Msg("dataset written")
	return result, nil
}

// sourceInput resolves where a manifest entry's data lives: a folder entry
// uses the shapefile in its most recent dated subfolder, a layer prefix
// picks the most recent matching layer of the container.
func (s Service) sourceInput(ctx context.Context, req ProcessRequest, entry types.SourceEntry, engines core.Engines) (sources.Input, error) {
	path := strings.TrimSpace(entry.Path)
	if path == "" {
		folder := strings.TrimSpace(entry.Folder)
		if !filepath.IsAbs(folder) {
			folder = filepath.Join(req.BaseDir, folder)
		}
		found, err := s.Discovery.MostRecentFile(folder, shapefileExtension)
		if err != nil {
			return sources.Input{}, err
		}
		path = found
	}
	read := ports.ReadOptions{Driver: entry.Driver, Layer: strings.TrimSpace(entry.Layer)}
	if prefix := strings.TrimSpace(entry.LayerPrefix); prefix != "" {
		layer, err := s.Discovery.MostRecentLayer(ctx, path, prefix)
		if err != nil {
			return sources.Input{}, err
		}
		read.Layer = layer
	}
	log.Ctx(ctx).Info().
		Str("source", entry.Name).
		Str("variant", string(entry.Variant)).
		Str("path", path).
		Str("layer", read.Layer).
		Msg("source resolved")
	return sources.Input{
		Name:         entry.Name,
		Path:         path,
		Read:         read,
		Reader:       s.Reader,
		CanonicalCRS: req.CanonicalCRS,
		AssumeCRS:    entry.AssumeCRS,
		Engines:      engines,
		Fields:       entry.Fields,
	}, nil
}

// clip trims the combined layer to the boundary in path and recomputes
// MUNIAREA for the clipped shapes. Features left with no geometry are
// removed and returned as warnings.
func (s Service) clip(ctx context.Context, combined *core.Layer, path string, engines core.Engines) ([]string, error) {
	boundary, err := core.NewLayer(ctx, core.LayerOptions{Source: path, Reader: s.Reader, Engines: engines})
	if err != nil {
		return nil, err
	}
	clipped, err := combined.Clip(ctx, boundary)
	if err != nil {
		return nil, err
	}
	combined.Table.SetGeometries(clipped)

	var warnings []string
	combined.Table.Filter(func(row vector.Row) bool {
		if !emptyGeometry(row.Geometry) {
			return true
		}
		name := shared.AsString(row.Get("NAME"))
		log.Ctx(ctx).Warn().Str("feature", name).Str("boundary", path).Msg("feature lies outside the clip boundary; dropped")
		warnings = append(warnings, fmt.Sprintf("%s lies outside the clip boundary", name))
		return false
	})
	combined.Table.SetFunc(core.AreaField, func(row vector.Row) any {
		return core.AreaSquareMiles(row)
	})
	return warnings, nil
}

// emptyGeometry reports whether a set operation left nothing of geometry.
func emptyGeometry(geometry orb.Geometry) bool {
	switch g := geometry.(type) {
	case nil:
		return true
	case orb.Polygon:
		return len(g) == 0 || len(g[0]) == 0
	case orb.MultiPolygon:
		for _, polygon := range g {
			if !emptyGeometry(polygon) {
				return false
			}
		}
		return true
	case orb.Collection:
		for _, member := range g {
			if !emptyGeometry(member) {
				return false
			}
		}
		return true
	}
	return false
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock()
}

func knownDriver(driver types.Driver) bool {
	switch driver {
	case types.DriverShapefile, types.DriverGeoPackage, types.DriverGeoJSON:
		return true
	}
	return false
}
