package core

import (
	"math"

	"github.com/paulmach/orb"

	"municipal-limits/internal/vector"
)

// fakeGeometry unions by collecting polygons and intersects bounding boxes.
type fakeGeometry struct {
	unionCalls int
}

func (f *fakeGeometry) UnaryUnion(geometries []orb.Geometry) (orb.Geometry, error) {
	f.unionCalls++
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

func (f *fakeGeometry) Intersection(geometry orb.Geometry, mask orb.Geometry) (orb.Geometry, error) {
	a, b := geometry.Bound(), mask.Bound()
	bound := orb.Bound{
		Min: orb.Point{math.Max(a.Min[0], b.Min[0]), math.Max(a.Min[1], b.Min[1])},
		Max: orb.Point{math.Min(a.Max[0], b.Max[0]), math.Min(a.Max[1], b.Max[1])},
	}
	if bound.Min[0] > bound.Max[0] || bound.Min[1] > bound.Max[1] {
		return orb.Polygon{}, nil
	}
	return bound.ToPolygon(), nil
}

// shiftProjection moves every coordinate by offset and records the CRS pairs
// it was asked to transform between.
type shiftProjection struct {
	offset float64
	calls  [][2]string
}

func (p *shiftProjection) Reproject(from string, to string, geometries []orb.Geometry) ([]orb.Geometry, error) {
	p.calls = append(p.calls, [2]string{from, to})
	out := make([]orb.Geometry, 0, len(geometries))
	for _, geometry := range geometries {
		out = append(out, shiftGeometry(orb.Clone(geometry), p.offset))
	}
	return out, nil
}

func shiftGeometry(geometry orb.Geometry, offset float64) orb.Geometry {
	switch g := geometry.(type) {
	case orb.Polygon:
		for _, ring := range g {
			for i := range ring {
				ring[i] = orb.Point{ring[i][0] + offset, ring[i][1] + offset}
			}
		}
		return g
	case orb.MultiPolygon:
		for _, polygon := range g {
			shiftGeometry(polygon, offset)
		}
		return g
	}
	return geometry
}

func square(x, y, size float64) orb.Polygon {
	return orb.Polygon{orb.Ring{{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}, {x, y}}}
}

func tableOf(crs string, rows ...vector.Row) *vector.Table {
	table := vector.NewTable(crs)
	for _, row := range rows {
		table.Append(row)
	}
	return &table
}

func testEngines() (Engines, *fakeGeometry, *shiftProjection) {
	geometry := &fakeGeometry{}
	projection := &shiftProjection{offset: 1000}
	return Engines{Geometry: geometry, Projection: projection}, geometry, projection
}
