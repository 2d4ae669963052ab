package adapters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/rs/zerolog/log"

	"municipal-limits/internal/ports"
	"municipal-limits/internal/shared"
	"municipal-limits/internal/types"
	"municipal-limits/internal/vector"
)

// ShapefileAdapter reads and writes ESRI shapefiles together with their .dbf
// attribute table and .prj CRS definition.
type ShapefileAdapter struct{}

func NewShapefileAdapter() ShapefileAdapter {
	return ShapefileAdapter{}
}

func (a ShapefileAdapter) Read(ctx context.Context, path string, _ ports.ReadOptions) (vector.Table, error) {
	if _, err := os.Stat(path); err != nil {
		return vector.Table{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("shapefile not found: %s", path)).
			WithCause(err)
	}
	reader, err := shp.Open(path)
	if err != nil {
		return vector.Table{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("failed to open shapefile %s", path)).
			WithCause(err)
	}
	defer reader.Close()

	fields := reader.Fields()
	names := make([]string, 0, len(fields))
	for _, field := range fields {
		names = append(names, field.String())
	}
	table := vector.NewTable(readSidecar(path, ".prj"), names...)
	for reader.Next() {
		index, shape := reader.Shape()
		geometry, err := shapeToGeometry(shape)
		if err != nil {
			return vector.Table{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("unsupported shape %d in %s", index, path)).
				WithCause(err)
		}
		values := make(map[string]any, len(fields))
		for i, field := range fields {
			values[names[i]] = parseDBFValue(field, reader.ReadAttribute(index, i))
		}
		table.Rows = append(table.Rows, vector.Row{Geometry: geometry, Values: values})
	}
	if err := reader.Err(); err != nil {
		return vector.Table{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to read shapefile %s", path)).
			WithCause(err)
	}
	log.Ctx(ctx).Info().Str("path", path).Int("rows", table.Len()).Msg("shapefile read")
	return table, nil
}

func (a ShapefileAdapter) Write(ctx context.Context, path string, table vector.Table, opts ports.WriteOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory").
			WithCause(err)
	}
	shapes := make([]*shp.Polygon, 0, table.Len())
	for i, row := range table.Rows {
		shape, err := geometryToShape(row.Geometry)
		if err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("row %d cannot be written as a polygon", i)).
				WithCause(err)
		}
		shapes = append(shapes, shape)
	}

	writer, err := shp.Create(path, shp.POLYGON)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to create shapefile %s", path)).
			WithCause(err)
	}
	defer writer.Close()
	if err := writer.SetFields(dbfFields(opts.Schema)); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write dbf header").
			WithCause(err)
	}
	for i, row := range table.Rows {
		index := int(writer.Write(shapes[i]))
		for j, field := range opts.Schema.Fields {
			value := schemaValue(ctx, field, row.Get(field.Name))
			if value == nil {
				continue
			}
			if date, ok := value.(dateValue); ok {
				value = date.Format("20060102")
			}
			if err := writer.WriteAttribute(index, j, value); err != nil {
				return errbuilder.New().
					WithCode(errbuilder.CodeInternal).
					WithMsg(fmt.Sprintf("failed to write %s of row %d", field.Name, i)).
					WithCause(err)
			}
		}
	}
	if err := writeSidecar(path, ".prj", projectionText(table.CRS, opts.CRSWKT)); err != nil {
		return err
	}
	if err := writeSidecar(path, ".cpg", "UTF-8"); err != nil {
		return err
	}
	log.Ctx(ctx).Info().Str("path", path).Int("rows", table.Len()).Msg("shapefile written")
	return nil
}

func parseDBFValue(field shp.Field, raw string) any {
	raw = strings.TrimSpace(strings.TrimRight(raw, "\x00"))
	if raw == "" {
		return nil
	}
	switch field.Fieldtype {
	case 'N':
		if field.Precision == 0 {
			if value, err := strconv.ParseInt(raw, 10, 64); err == nil {
				return value
			}
		}
		if value, err := strconv.ParseFloat(raw, 64); err == nil {
			return value
		}
		return raw
	case 'F', 'O':
		if value, err := strconv.ParseFloat(raw, 64); err == nil {
			return value
		}
		return raw
	case 'D':
		parsed := shared.ParseTimeFlexible(raw)
		if parsed.IsZero() {
			return nil
		}
		return parsed
	case 'L':
		switch strings.ToUpper(raw) {
		case "T", "Y":
			return true
		case "F", "N":
			return false
		}
		return nil
	default:
		return raw
	}
}

func dbfFields(schema types.OutputSchema) []shp.Field {
	fields := make([]shp.Field, 0, len(schema.Fields))
	for _, field := range schema.Fields {
		switch field.Type {
		case types.FieldTypeInt:
			fields = append(fields, shp.NumberField(field.Name, uint8(field.Width)))
		case types.FieldTypeFloat:
			fields = append(fields, shp.FloatField(field.Name, uint8(field.Width), uint8(field.Precision)))
		case types.FieldTypeDate:
			fields = append(fields, shp.DateField(field.Name))
		default:
			fields = append(fields, shp.StringField(field.Name, uint8(field.Width)))
		}
	}
	return fields
}

func shapeToGeometry(shape shp.Shape) (orb.Geometry, error) {
	switch s := shape.(type) {
	case *shp.Polygon:
		return ringsToGeometry(s.Parts, s.Points), nil
	case *shp.PolygonZ:
		return ringsToGeometry(s.Parts, s.Points), nil
	case *shp.PolygonM:
		return ringsToGeometry(s.Parts, s.Points), nil
	case *shp.Null, nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("shape type %T is not a polygon", shape)
	}
}

// ringsToGeometry rebuilds polygons from shapefile parts: clockwise rings are
// shells, counter-clockwise rings are holes of the shell that contains them.
func ringsToGeometry(parts []int32, points []shp.Point) orb.Geometry {
	var polygons orb.MultiPolygon
	for i, start := range parts {
		end := len(points)
		if i+1 < len(parts) {
			end = int(parts[i+1])
		}
		ring := make(orb.Ring, 0, end-int(start))
		for _, point := range points[start:end] {
			ring = append(ring, orb.Point{point.X, point.Y})
		}
		if len(ring) == 0 {
			continue
		}
		if ring.Orientation() == orb.CW || len(polygons) == 0 {
			polygons = append(polygons, orb.Polygon{ring})
			continue
		}
		owner := len(polygons) - 1
		for j := range polygons {
			if planar.RingContains(polygons[j][0], ring[0]) {
				owner = j
				break
			}
		}
		polygons[owner] = append(polygons[owner], ring)
	}
	switch len(polygons) {
	case 0:
		return nil
	case 1:
		return polygons[0]
	default:
		return polygons
	}
}

func geometryToShape(geometry orb.Geometry) (*shp.Polygon, error) {
	var polygons []orb.Polygon
	switch g := polygonal(geometry).(type) {
	case orb.Polygon:
		polygons = []orb.Polygon{g}
	case orb.MultiPolygon:
		polygons = g
	case nil:
		return nil, fmt.Errorf("row has no geometry")
	default:
		return nil, fmt.Errorf("geometry type %s is not polygonal", geometry.GeoJSONType())
	}
	var parts [][]shp.Point
	for _, polygon := range polygons {
		for i, ring := range polygon {
			oriented := ring.Clone()
			want := orb.CCW
			if i == 0 {
				want = orb.CW
			}
			if oriented.Orientation() != want {
				oriented.Reverse()
			}
			if !oriented.Closed() && len(oriented) > 0 {
				oriented = append(oriented, oriented[0])
			}
			part := make([]shp.Point, 0, len(oriented))
			for _, point := range oriented {
				part = append(part, shp.Point{X: point[0], Y: point[1]})
			}
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("polygon is empty")
	}
	polygon := shp.Polygon(*shp.NewPolyLine(parts))
	return &polygon, nil
}

func readSidecar(path string, extension string) string {
	data, err := os.ReadFile(strings.TrimSuffix(path, filepath.Ext(path)) + extension)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func writeSidecar(path string, extension string, content string) error {
	if content == "" {
		return nil
	}
	target := strings.TrimSuffix(path, filepath.Ext(path)) + extension
	if err := os.WriteFile(target, []byte(content), 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to write %s", target)).
			WithCause(err)
	}
	return nil
}

// projectionText picks the WKT to store for crs: the configured definition
// for an AUTH:CODE identifier, or crs itself when it already is WKT.
func projectionText(crs string, wkt string) string {
	if _, _, ok := shared.SplitAuthority(crs); ok {
		return strings.TrimSpace(wkt)
	}
	return strings.TrimSpace(crs)
}
