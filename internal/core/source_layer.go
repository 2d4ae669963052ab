package core

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/paulmach/orb/planar"
	"github.com/rs/zerolog/log"

	"municipal-limits/internal/shared"
	"municipal-limits/internal/vector"
)

const (
	// AreaField holds the polygon area in square miles.
	AreaField       = "MUNIAREA"
	squareFeetAcre  = 43560.0
	acresSquareMile = 640.0
)

// SourceOptions builds a SourceLayer.
type SourceOptions struct {
	LayerOptions

	Name            string
	CanonicalCRS    string
	AssumeCRS       string
	ParseFolderDate bool
	Hooks           Hooks
}

// SourceLayer is a single municipality's layer. Constructing one from a
// source path runs the full normalization pipeline exactly once.
type SourceLayer struct {
	*Layer

	Name            string
	CanonicalCRS    string
	ParseFolderDate bool
	FolderDate      time.Time

	hooks Hooks
}

func NewSourceLayer(ctx context.Context, opts SourceOptions) (*SourceLayer, error) {
	layer, err := NewLayer(ctx, opts.LayerOptions)
	if err != nil {
		return nil, err
	}
	hooks := opts.Hooks
	if hooks == nil {
		hooks = BaseHooks{}
	}
	source := &SourceLayer{
		Layer:           layer,
		Name:            opts.Name,
		CanonicalCRS:    strings.TrimSpace(opts.CanonicalCRS),
		ParseFolderDate: opts.ParseFolderDate,
		hooks:           hooks,
	}
	if crs := strings.TrimSpace(opts.AssumeCRS); crs != "" {
		source.SetProjection(crs)
	}
	if source.SourcePath == "" {
		return source, nil
	}
	if err := source.Geoprocess(ctx); err != nil {
		return nil, err
	}
	return source, nil
}

// Geoprocess runs the normalization steps in their fixed order.
func (l *SourceLayer) Geoprocess(ctx context.Context) error {
	logger := log.Ctx(ctx).With().Str("source", l.Name).Str("path", l.SourcePath).Logger()
	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{name: "parse_folder_date", run: l.parseFolderDateStep},
		{name: "select_by_attributes", run: func(ctx context.Context) error { return l.hooks.SelectByAttributes(ctx, l) }},
		{name: "geometry_operations", run: func(ctx context.Context) error { return l.hooks.GeometryOperations(ctx, l) }},
		{name: "reproject", run: func(ctx context.Context) error { return l.hooks.Reproject(ctx, l) }},
		{name: "copy_fields", run: func(ctx context.Context) error { return l.hooks.CopyFields(ctx, l) }},
		{name: "add_constant_fields", run: l.addConstantFields},
		{name: "add_fields", run: func(ctx context.Context) error { return l.hooks.AddFields(ctx, l) }},
		{name: "copy_fields", run: func(ctx context.Context) error { return l.hooks.CopyFields(ctx, l) }},
		{name: "delete_fields", run: l.DeleteFields},
		{name: "calculate_area", run: l.calculateAreaStep},
	}
	for _, step := range steps {
		logger.Debug().Str("step", step.name).Int("rows", l.Table.Len()).Msg("pipeline step")
		if err := step.run(ctx); err != nil {
			return err
		}
	}
	logger.Info().Int("rows", l.Table.Len()).Msg("source normalized")
	return nil
}

func (l *SourceLayer) parseFolderDateStep(context.Context) error {
	if !l.ParseFolderDate {
		return nil
	}
	date, err := ParseFolderDate(l.SourcePath)
	if err != nil {
		return err
	}
	l.FolderDate = date
	return nil
}

func (l *SourceLayer) addConstantFields(context.Context) error {
	for _, field := range l.Config.FieldsToAdd {
		l.Table.SetConstant(field.Name, field.Value)
	}
	return nil
}

func (l *SourceLayer) calculateAreaStep(context.Context) error {
	l.CalculateArea()
	return nil
}

// CalculateArea sets MUNIAREA to the planar area of each geometry converted
// from square feet to square miles.
func (l *SourceLayer) CalculateArea() {
	l.Table.SetFunc(AreaField, func(row vector.Row) any {
		return AreaSquareMiles(row)
	})
}

// AreaSquareMiles converts the planar area of row's geometry, in square feet,
// to square miles.
func AreaSquareMiles(row vector.Row) float64 {
	if row.Geometry == nil {
		return 0
	}
	return planar.Area(row.Geometry) / squareFeetAcre / acresSquareMile
}

// ReprojectToCanonical moves the layer into the configured canonical CRS.
func (l *SourceLayer) ReprojectToCanonical(ctx context.Context) error {
	assert.NotEmpty(ctx, l.CanonicalCRS, "canonical crs must be set before reprojection")
	return l.Reproject(ctx, l.CanonicalCRS)
}

// ParseFolderDate reads a date from the name of the directory containing path,
// e.g. ".../madison/2019 06 10/limits.shp".
func ParseFolderDate(path string) (time.Time, error) {
	folder := filepath.Base(filepath.Dir(path))
	parsed := shared.ParseTimeFlexible(folder)
	if parsed.IsZero() {
		return time.Time{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("cannot parse a date from folder %q of %s", folder, path))
	}
	return shared.TruncateToDate(parsed), nil
}
