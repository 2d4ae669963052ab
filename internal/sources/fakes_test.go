package sources

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"

	"municipal-limits/internal/core"
	"municipal-limits/internal/ports"
	"municipal-limits/internal/types"
	"municipal-limits/internal/vector"
)

const (
	testCanonicalCRS = "ESRI:102630"
	mile             = 5280.0
)

// collectUnion stands in for GEOS by gathering every polygon into one
// multipolygon.
type collectUnion struct{}

func (collectUnion) UnaryUnion(geometries []orb.Geometry) (orb.Geometry, error) {
	var out orb.MultiPolygon
	for _, geometry := range geometries {
		switch g := geometry.(type) {
		case orb.Polygon:
			out = append(out, g)
		case orb.MultiPolygon:
			out = append(out, g...)
		}
	}
	return out, nil
}

func (collectUnion) Intersection(geometry orb.Geometry, _ orb.Geometry) (orb.Geometry, error) {
	return geometry, nil
}

// labelProjection keeps coordinates and records each transformation.
type labelProjection struct {
	calls []string
}

func (p *labelProjection) Reproject(from string, to string, geometries []orb.Geometry) ([]orb.Geometry, error) {
	p.calls = append(p.calls, from+"->"+to)
	out := make([]orb.Geometry, 0, len(geometries))
	for _, geometry := range geometries {
		out = append(out, orb.Clone(geometry))
	}
	return out, nil
}

// mapReader serves tables by path.
type mapReader map[string]vector.Table

func (r mapReader) Read(_ context.Context, path string, _ ports.ReadOptions) (vector.Table, error) {
	table, ok := r[path]
	if !ok {
		return vector.Table{}, fmt.Errorf("no table for %s", path)
	}
	return table.Clone(), nil
}

func (r mapReader) ListLayers(context.Context, string, types.Driver) ([]string, error) {
	return nil, nil
}

func square(x, y, size float64) orb.Polygon {
	return orb.Polygon{orb.Ring{{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}, {x, y}}}
}

func tableOf(crs string, rows ...map[string]any) *vector.Table {
	table := vector.NewTable(crs)
	for i, values := range rows {
		table.Append(vector.Row{Geometry: square(float64(i)*2*mile, 0, mile), Values: values})
	}
	return &table
}

func testInput(path string, table *vector.Table) (Input, *labelProjection) {
	projection := &labelProjection{}
	return Input{
		Name:         path,
		Path:         path,
		Table:        table,
		CanonicalCRS: testCanonicalCRS,
		Engines:      core.Engines{Geometry: collectUnion{}, Projection: projection},
	}, projection
}
