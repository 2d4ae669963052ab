package adapters

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"municipal-limits/internal/ports"
	"municipal-limits/internal/types"
	"municipal-limits/internal/vector"
)

// VectorFileAdapter dispatches reads and writes to the adapter for a driver,
// inferring the driver from the file extension when none is given.
type VectorFileAdapter struct {
	Shapefile  ShapefileAdapter
	GeoPackage GeoPackageAdapter
	GeoJSON    GeoJSONAdapter
}

func NewVectorFileAdapter() VectorFileAdapter {
	return VectorFileAdapter{
		Shapefile:  NewShapefileAdapter(),
		GeoPackage: NewGeoPackageAdapter(),
		GeoJSON:    NewGeoJSONAdapter(),
	}
}

// DriverForPath infers a driver from the extension of path.
func DriverForPath(path string) (types.Driver, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp":
		return types.DriverShapefile, nil
	case ".gpkg":
		return types.DriverGeoPackage, nil
	case ".geojson", ".json":
		return types.DriverGeoJSON, nil
	default:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("cannot infer driver for %s", path))
	}
}

// Extension is the file extension written for driver.
func Extension(driver types.Driver) string {
	switch driver {
	case types.DriverGeoPackage:
		return ".gpkg"
	case types.DriverGeoJSON:
		return ".geojson"
	default:
		return ".shp"
	}
}

func (a VectorFileAdapter) Read(ctx context.Context, path string, opts ports.ReadOptions) (vector.Table, error) {
	driver, err := resolveDriver(path, opts.Driver)
	if err != nil {
		return vector.Table{}, err
	}
	switch driver {
	case types.DriverShapefile:
		return a.Shapefile.Read(ctx, path, opts)
	case types.DriverGeoPackage:
		return a.GeoPackage.Read(ctx, path, opts)
	default:
		return a.GeoJSON.Read(ctx, path, opts)
	}
}

func (a VectorFileAdapter) ListLayers(ctx context.Context, path string, driver types.Driver) ([]string, error) {
	resolved, err := resolveDriver(path, driver)
	if err != nil {
		return nil, err
	}
	if resolved == types.DriverGeoPackage {
		return a.GeoPackage.ListLayers(ctx, path)
	}
	return []string{strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}, nil
}

func (a VectorFileAdapter) Write(ctx context.Context, path string, table vector.Table, opts ports.WriteOptions) error {
	driver, err := resolveDriver(path, opts.Driver)
	if err != nil {
		return err
	}
	switch driver {
	case types.DriverShapefile:
		return a.Shapefile.Write(ctx, path, table, opts)
	case types.DriverGeoPackage:
		return a.GeoPackage.Write(ctx, path, table, opts)
	default:
		return a.GeoJSON.Write(ctx, path, table, opts)
	}
}

func resolveDriver(path string, driver types.Driver) (types.Driver, error) {
	switch driver {
	case types.DriverShapefile, types.DriverGeoPackage, types.DriverGeoJSON:
		return driver, nil
	case "":
		return DriverForPath(path)
	default:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported driver: %s", driver))
	}
}

var (
	_ ports.VectorReaderPort = VectorFileAdapter{}
	_ ports.VectorWriterPort = VectorFileAdapter{}
)
