package adapters

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjReprojectToStatePlane(t *testing.T) {
	// Athens, Alabama courthouse square.
	athens := orb.Point{-86.9717, 34.8026}
	out, err := NewProjReprojectorAdapter().Reproject("EPSG:4326", "ESRI:102630", []orb.Geometry{athens, nil})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Nil(t, out[1])

	point, ok := out[0].(orb.Point)
	require.True(t, ok)
	// Alabama West is in US feet east of a 1,968,500 ft false easting.
	assert.InDelta(t, 2130000, point[0], 20000)
	assert.InDelta(t, 1750000, point[1], 20000)
	assert.Equal(t, orb.Point{-86.9717, 34.8026}, athens, "input is not modified")
}

func TestProjRoundTrip(t *testing.T) {
	adapter := NewProjReprojectorAdapter()
	ring := orb.Polygon{orb.Ring{{-87, 34.7}, {-86.9, 34.7}, {-86.9, 34.8}, {-87, 34.8}, {-87, 34.7}}}

	projected, err := adapter.Reproject("EPSG:4326", "ESRI:102630", []orb.Geometry{ring})
	require.NoError(t, err)
	back, err := adapter.Reproject("ESRI:102630", "EPSG:4326", projected)
	require.NoError(t, err)

	for i, point := range back[0].(orb.Polygon)[0] {
		assert.InDelta(t, ring[0][i][0], point[0], 1e-7)
		assert.InDelta(t, ring[0][i][1], point[1], 1e-7)
	}
}

func TestProjUnknownCRS(t *testing.T) {
	_, err := NewProjReprojectorAdapter().Reproject("EPSG:4326", "NOPE:1", []orb.Geometry{orb.Point{0, 0}})
	require.Error(t, err)
}
