package adapters

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGEOSUnaryUnion(t *testing.T) {
	engine := NewGEOSEngineAdapter()

	merged, err := engine.UnaryUnion([]orb.Geometry{square(0, 0, 10), square(5, 0, 10)})
	require.NoError(t, err)
	_, isPolygon := merged.(orb.Polygon)
	assert.True(t, isPolygon, "overlapping squares dissolve into one polygon")
	assert.InDelta(t, 150, planar.Area(merged), 1e-9)

	disjoint, err := engine.UnaryUnion([]orb.Geometry{square(0, 0, 1), nil, square(5, 5, 1)})
	require.NoError(t, err)
	multi, ok := disjoint.(orb.MultiPolygon)
	require.True(t, ok)
	assert.Len(t, multi, 2)

	empty, err := engine.UnaryUnion(nil)
	require.NoError(t, err)
	assert.Equal(t, orb.MultiPolygon{}, empty)
}

func TestGEOSIntersection(t *testing.T) {
	engine := NewGEOSEngineAdapter()

	clipped, err := engine.Intersection(square(0, 0, 10), square(5, 5, 10))
	require.NoError(t, err)
	assert.InDelta(t, 25, planar.Area(clipped), 1e-9)
	assert.Equal(t, orb.Bound{Min: orb.Point{5, 5}, Max: orb.Point{10, 10}}, clipped.Bound())

	withHole, err := engine.Intersection(donut(), square(0, 0, 10))
	require.NoError(t, err)
	assert.InDelta(t, 96, planar.Area(withHole), 1e-9)
}

func TestGEOSRepairsInvalidInput(t *testing.T) {
	bowtie := orb.Polygon{orb.Ring{{0, 0}, {10, 10}, {10, 0}, {0, 10}, {0, 0}}}
	merged, err := NewGEOSEngineAdapter().UnaryUnion([]orb.Geometry{bowtie})
	require.NoError(t, err)
	assert.InDelta(t, 50, planar.Area(merged), 1e-9)
}

func TestPolygonalDropsLines(t *testing.T) {
	collection := orb.Collection{square(0, 0, 1), orb.LineString{{0, 0}, {1, 1}}, orb.Point{3, 3}}
	assert.Equal(t, square(0, 0, 1), polygonal(collection))
	assert.Equal(t, orb.Point{1, 1}, polygonal(orb.Point{1, 1}))
}
