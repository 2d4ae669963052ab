package adapters

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
	"github.com/twpayne/go-proj/v10"

	"municipal-limits/internal/ports"
)

// ProjReprojectorAdapter transforms coordinates with PROJ. Axis order is
// normalized so that x is easting or longitude for every CRS.
type ProjReprojectorAdapter struct{}

func NewProjReprojectorAdapter() ProjReprojectorAdapter {
	return ProjReprojectorAdapter{}
}

func (a ProjReprojectorAdapter) Reproject(from string, to string, geometries []orb.Geometry) ([]orb.Geometry, error) {
	pj, err := proj.NewCRSToCRS(from, to, nil)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("cannot build transformation from %s to %s", from, to)).
			WithCause(err)
	}
	defer pj.Destroy()
	normalized, err := pj.NormalizeForVisualization()
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("cannot normalize transformation axis order").
			WithCause(err)
	}
	defer normalized.Destroy()

	var transformErr error
	transform := func(point orb.Point) orb.Point {
		coord, err := normalized.Forward(proj.NewCoord(point[0], point[1], 0, 0))
		if err != nil {
			if transformErr == nil {
				transformErr = err
			}
			return point
		}
		return orb.Point{coord.X(), coord.Y()}
	}

	out := make([]orb.Geometry, 0, len(geometries))
	for _, geometry := range geometries {
		if geometry == nil {
			out = append(out, nil)
			continue
		}
		out = append(out, project.Geometry(orb.Clone(geometry), transform))
		if transformErr != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(fmt.Sprintf("failed to transform coordinates from %s to %s", from, to)).
				WithCause(transformErr)
		}
	}
	return out, nil
}

var _ ports.ReprojectionPort = ProjReprojectorAdapter{}
