package ports

import "github.com/paulmach/orb"

// GeometryPort performs the planar set operations the pipeline delegates to
// a geometry engine.
type GeometryPort interface {
	// UnaryUnion dissolves all geometries into one.
	UnaryUnion(geometries []orb.Geometry) (orb.Geometry, error)

	// Intersection returns the part of geometry covered by mask.
	Intersection(geometry orb.Geometry, mask orb.Geometry) (orb.Geometry, error)
}

// ReprojectionPort transforms coordinates between coordinate reference systems.
type ReprojectionPort interface {
	// Reproject returns transformed copies of geometries; inputs are untouched.
	Reproject(from string, to string, geometries []orb.Geometry) ([]orb.Geometry, error)
}
