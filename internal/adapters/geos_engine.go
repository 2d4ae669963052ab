package adapters

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/twpayne/go-geos"

	"municipal-limits/internal/ports"
)

// GEOSEngineAdapter runs union and intersection through GEOS. Geometries
// cross the boundary as WKB.
type GEOSEngineAdapter struct {
	ctx *geos.Context
}

func NewGEOSEngineAdapter() GEOSEngineAdapter {
	return GEOSEngineAdapter{ctx: geos.NewContext()}
}

func (a GEOSEngineAdapter) UnaryUnion(geometries []orb.Geometry) (result orb.Geometry, err error) {
	defer recoverGEOS("union", &err)
	collection := orb.Collection{}
	for _, geometry := range geometries {
		if geometry != nil {
			collection = append(collection, geometry)
		}
	}
	if len(collection) == 0 {
		return orb.MultiPolygon{}, nil
	}
	g, err := a.toGEOS(collection)
	if err != nil {
		return nil, err
	}
	return a.fromGEOS(g.UnaryUnion())
}

func (a GEOSEngineAdapter) Intersection(geometry orb.Geometry, mask orb.Geometry) (result orb.Geometry, err error) {
	defer recoverGEOS("intersection", &err)
	g, err := a.toGEOS(geometry)
	if err != nil {
		return nil, err
	}
	m, err := a.toGEOS(mask)
	if err != nil {
		return nil, err
	}
	return a.fromGEOS(g.Intersection(m))
}

func (a GEOSEngineAdapter) toGEOS(geometry orb.Geometry) (*geos.Geom, error) {
	data, err := wkb.Marshal(geometry)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to encode geometry").
			WithCause(err)
	}
	g, err := a.ctx.NewGeomFromWKB(data)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("geos rejected geometry").
			WithCause(err)
	}
	if !g.IsValid() {
		g = g.MakeValid()
	}
	return g, nil
}

func (a GEOSEngineAdapter) fromGEOS(g *geos.Geom) (orb.Geometry, error) {
	geometry, err := wkb.Unmarshal(g.ToWKB())
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to decode geos result").
			WithCause(err)
	}
	return polygonal(geometry), nil
}

// polygonal drops the points and lines a set operation can leave behind in a
// collection, keeping a polygon or multipolygon.
func polygonal(geometry orb.Geometry) orb.Geometry {
	collection, ok := geometry.(orb.Collection)
	if !ok {
		return geometry
	}
	var polygons orb.MultiPolygon
	for _, member := range collection {
		switch g := polygonal(member).(type) {
		case orb.Polygon:
			polygons = append(polygons, g)
		case orb.MultiPolygon:
			polygons = append(polygons, g...)
		}
	}
	if len(polygons) == 1 {
		return polygons[0]
	}
	return polygons
}

func recoverGEOS(operation string, err *error) {
	if r := recover(); r != nil {
		*err = errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("geos %s failed: %v", operation, r))
	}
}

var _ ports.GeometryPort = GEOSEngineAdapter{}
