package core

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"

	"municipal-limits/internal/ports"
	"municipal-limits/internal/shared"
	"municipal-limits/internal/vector"
)

// FieldValue is a constant assigned to every row of a layer.
type FieldValue struct {
	Name  string
	Value any
}

// LayerConfig is the declarative part of a layer. The zero value has no
// required fields, nothing to add and nothing to delete.
type LayerConfig struct {
	RequiredFields []string
	FieldsToAdd    []FieldValue
	FieldsToDelete []string
}

// Engines are the geometry services a layer delegates to.
type Engines struct {
	Geometry   ports.GeometryPort
	Projection ports.ReprojectionPort
}

// LayerOptions builds a Layer. An explicit Table wins over Source; with
// neither the layer starts empty.
type LayerOptions struct {
	Table   *vector.Table
	Source  string
	Read    ports.ReadOptions
	Reader  ports.VectorReaderPort
	Config  LayerConfig
	Engines Engines
}

// Layer owns one geometry and attribute table together with the
// configuration that describes how it is normalized.
type Layer struct {
	Table      vector.Table
	SourcePath string
	Config     LayerConfig
	Warnings   []string

	engines Engines
}

func NewLayer(ctx context.Context, opts LayerOptions) (*Layer, error) {
	if err := ValidateConfig(opts.Config); err != nil {
		return nil, err
	}
	layer := &Layer{
		SourcePath: strings.TrimSpace(opts.Source),
		Config:     opts.Config,
		engines:    opts.Engines,
	}
	switch {
	case opts.Table != nil:
		layer.Table = opts.Table.Clone()
	case layer.SourcePath != "":
		if opts.Reader == nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("no reader configured for %s", layer.SourcePath))
		}
		table, err := opts.Reader.Read(ctx, layer.SourcePath, opts.Read)
		if err != nil {
			return nil, err
		}
		layer.Table = table
	default:
		layer.Table = vector.NewTable("")
	}
	layer.CheckRequiredFields(ctx)
	return layer, nil
}

// ValidateConfig rejects blank or whitespace-only field names.
func ValidateConfig(cfg LayerConfig) error {
	for _, name := range cfg.RequiredFields {
		if strings.TrimSpace(name) == "" {
			return &ConfigurationError{Setting: "required_fields", Reason: "blank field name"}
		}
	}
	for _, field := range cfg.FieldsToAdd {
		if strings.TrimSpace(field.Name) == "" {
			return &ConfigurationError{Setting: "fields_to_add", Reason: "blank field name"}
		}
	}
	for _, name := range cfg.FieldsToDelete {
		if strings.TrimSpace(name) == "" {
			return &ConfigurationError{Setting: "fields_to_delete", Reason: "blank field name"}
		}
	}
	return nil
}

// CheckRequiredFields logs and records the required fields the table lacks.
// Missing fields are a data-quality finding, not a failure.
func (l *Layer) CheckRequiredFields(ctx context.Context) []string {
	var missing []string
	for _, name := range l.Config.RequiredFields {
		if !l.Table.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	missing = slices.Compact(missing)
	log.Ctx(ctx).Error().
		Strs("fields", missing).
		Str("source", l.SourcePath).
		Msg("required fields are not in the layer")
	l.Warnings = append(l.Warnings, fmt.Sprintf(
		"required field(s) %s are not in the layer with filename %q",
		strings.Join(missing, ", "),
		l.SourcePath,
	))
	return missing
}

// Concat stacks the tables of layers in order into a new layer. Duplicates
// are kept and CRS agreement is not checked.
func Concat(layers []*Layer) *Layer {
	tables := make([]vector.Table, 0, len(layers))
	out := &Layer{}
	for _, layer := range layers {
		if layer == nil {
			continue
		}
		if len(tables) == 0 {
			out.engines = layer.engines
		}
		tables = append(tables, layer.Table)
	}
	out.Table = vector.Concat(tables...)
	return out
}

// Append concatenates other after the receiver's peers: the result holds the
// rows of other followed by the rows of l. other must be a layer or a list of
// layers.
func (l *Layer) Append(other any) (*Layer, error) {
	var layers []*Layer
	switch value := other.(type) {
	case *Layer:
		layers = []*Layer{value}
	case []*Layer:
		layers = append(layers, value...)
	case *SourceLayer:
		layers = []*Layer{value.Layer}
	case []*SourceLayer:
		for _, source := range value {
			layers = append(layers, source.Layer)
		}
	case string:
		return nil, &LayerTypeError{Got: "string"}
	default:
		return nil, &LayerTypeError{Got: fmt.Sprintf("%T", other)}
	}
	return Concat(append(layers, l)), nil
}

// CombineGeometryMultipart dissolves every geometry into a single row that
// keeps the attributes of the first row.
func (l *Layer) CombineGeometryMultipart(ctx context.Context) error {
	if l.Table.Len() == 0 {
		return nil
	}
	if l.engines.Geometry == nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("geometry engine is not configured")
	}
	merged, err := l.engines.Geometry.UnaryUnion(l.Table.Geometries())
	if err != nil {
		return err
	}
	first := l.Table.Rows[0]
	values := make(map[string]any, len(first.Values))
	for key, value := range first.Values {
		values[key] = value
	}
	log.Ctx(ctx).Debug().
		Str("source", l.SourcePath).
		Int("rows", l.Table.Len()).
		Msg("geometry dissolved")
	l.Table.Rows = []vector.Row{{Geometry: merged, Values: values}}
	return nil
}

// Clip returns the geometries of l intersected with the union of clip. Clip is
// reprojected to the CRS of l first when the two differ. Neither layer is
// modified.
func (l *Layer) Clip(ctx context.Context, clip *Layer) ([]orb.Geometry, error) {
	if clip == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("clip layer is required")
	}
	if l.engines.Geometry == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("geometry engine is not configured")
	}
	maskGeometries := clip.Table.Clone().Geometries()
	if clip.Table.CRS != "" && l.Table.CRS != "" && !shared.SameCRS(clip.Table.CRS, l.Table.CRS) {
		if l.engines.Projection == nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg("reprojection engine is not configured")
		}
		projected, err := l.engines.Projection.Reproject(clip.Table.CRS, l.Table.CRS, maskGeometries)
		if err != nil {
			return nil, err
		}
		maskGeometries = projected
	}
	mask, err := l.engines.Geometry.UnaryUnion(maskGeometries)
	if err != nil {
		return nil, err
	}
	clipped := make([]orb.Geometry, 0, l.Table.Len())
	for _, geometry := range l.Table.Geometries() {
		result, err := l.engines.Geometry.Intersection(geometry, mask)
		if err != nil {
			return nil, err
		}
		clipped = append(clipped, result)
	}
	log.Ctx(ctx).Debug().Int("geometries", len(clipped)).Msg("layer clipped")
	return clipped, nil
}

// DeleteFields drops every configured field, failing on the first one the
// table does not have.
func (l *Layer) DeleteFields(ctx context.Context) error {
	if len(l.Config.FieldsToDelete) == 0 {
		return nil
	}
	for _, name := range l.Config.FieldsToDelete {
		if !l.Table.HasColumn(name) {
			return &FieldNotFoundError{Field: name, Source: l.SourcePath}
		}
	}
	l.Table.DropColumns(l.Config.FieldsToDelete...)
	log.Ctx(ctx).Debug().Strs("fields", l.Config.FieldsToDelete).Msg("fields deleted")
	return nil
}

// Reproject transforms every geometry into crs. A layer already in crs is
// left alone.
func (l *Layer) Reproject(ctx context.Context, crs string) error {
	if strings.TrimSpace(crs) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("target crs is empty")
	}
	if shared.SameCRS(l.Table.CRS, crs) {
		return nil
	}
	if strings.TrimSpace(l.Table.CRS) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("layer %s has no crs to reproject from", l.SourcePath))
	}
	if l.engines.Projection == nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("reprojection engine is not configured")
	}
	projected, err := l.engines.Projection.Reproject(l.Table.CRS, crs, l.Table.Geometries())
	if err != nil {
		return err
	}
	log.Ctx(ctx).Debug().
		Str("source", l.SourcePath).
		Str("to", crs).
		Msg("layer reprojected")
	l.Table.SetGeometries(projected)
	l.Table.CRS = crs
	return nil
}

// SetProjection labels the table with crs without touching coordinates.
func (l *Layer) SetProjection(crs string) {
	l.Table.CRS = crs
}

func (l *Layer) Engines() Engines {
	return l.engines
}
