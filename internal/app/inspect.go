package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"municipal-limits/internal/adapters"
	"municipal-limits/internal/core"
	"municipal-limits/internal/ports"
	"municipal-limits/internal/shared"
	"municipal-limits/internal/types"
)

// Inspect reads one layer and summarizes it.
func (s Service) Inspect(ctx context.Context, req InspectRequest) (InspectResult, error) {
	path := strings.TrimSpace(req.Path)
	if path == "" {
		return InspectResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("a dataset path is required")
	}
	driver := req.Driver
	if driver == "" {
		inferred, err := adapters.DriverForPath(path)
		if err != nil {
			return InspectResult{}, err
		}
		driver = inferred
	}
	table, err := s.Reader.Read(ctx, path, ports.ReadOptions{Driver: driver, Layer: req.Layer})
	if err != nil {
		return InspectResult{}, err
	}
	result := InspectResult{
		Layer: types.LayerInfo{
			Path:    path,
			Driver:  driver,
			Layer:   req.Layer,
			CRS:     table.CRS,
			Rows:    table.Len(),
			Columns: append([]string(nil), table.Columns...),
		},
	}
	if latest, ok := shared.MaxTime(table.Column(core.LastUpdateField)); ok {
		result.LatestUpdate = shared.TruncateToDate(latest)
	}
	return result, nil
}

// Layers lists the layers in a dataset. Single-layer formats report one
// layer named after the file.
func (s Service) Layers(ctx context.Context, req LayersRequest) (LayersResult, error) {
	path := strings.TrimSpace(req.Path)
	if path == "" {
		return LayersResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("a dataset path is required")
	}
	layers, err := s.Reader.ListLayers(ctx, path, req.Driver)
	if err != nil {
		return LayersResult{}, err
	}
	return LayersResult{Layers: layers}, nil
}
