package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"

	"municipal-limits/internal/ports"
	"municipal-limits/internal/shared"
	"municipal-limits/internal/vector"
)

const geographicCRS = "EPSG:4326"

// GeoJSONAdapter reads and writes feature collections. A legacy "crs" member
// names any CRS other than WGS 84.
type GeoJSONAdapter struct{}

func NewGeoJSONAdapter() GeoJSONAdapter {
	return GeoJSONAdapter{}
}

func (a GeoJSONAdapter) Read(ctx context.Context, path string, _ ports.ReadOptions) (vector.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return vector.Table{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("geojson file not found: %s", path)).
			WithCause(err)
	}
	collection, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return vector.Table{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("failed to parse geojson %s", path)).
			WithCause(err)
	}
	table := vector.NewTable(collectionCRS(collection))
	for _, feature := range collection.Features {
		values := make(map[string]any, len(feature.Properties))
		for key, value := range feature.Properties {
			values[key] = value
		}
		table.Append(vector.Row{Geometry: feature.Geometry, Values: values})
	}
	log.Ctx(ctx).Info().Str("path", path).Int("rows", table.Len()).Msg("geojson read")
	return table, nil
}

func (a GeoJSONAdapter) Write(ctx context.Context, path string, table vector.Table, opts ports.WriteOptions) error {
	collection := geojson.NewFeatureCollection()
	for _, row := range table.Rows {
		feature := geojson.NewFeature(polygonal(row.Geometry))
		for _, field := range opts.Schema.Fields {
			value := schemaValue(ctx, field, row.Get(field.Name))
			if date, ok := value.(dateValue); ok {
				value = date.Format("2006-01-02")
			}
			feature.Properties[field.Name] = value
		}
		collection.Append(feature)
	}
	if crs := strings.TrimSpace(table.CRS); crs != "" && !shared.SameCRS(crs, geographicCRS) {
		name := crs
		if authority, code, ok := shared.SplitAuthority(crs); ok {
			name = fmt.Sprintf("urn:ogc:def:crs:%s::%d", authority, code)
		}
		collection.ExtraMembers = geojson.Properties{
			"crs": map[string]any{
				"type":       "name",
				"properties": map[string]any{"name": name},
			},
		}
	}
	data, err := json.MarshalIndent(collection, "", "  ")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode geojson").
			WithCause(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory").
			WithCause(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to write %s", path)).
			WithCause(err)
	}
	log.Ctx(ctx).Info().Str("path", path).Int("rows", table.Len()).Msg("geojson written")
	return nil
}

// collectionCRS reads the legacy crs member, e.g.
// {"type":"name","properties":{"name":"urn:ogc:def:crs:EPSG::3857"}}.
func collectionCRS(collection *geojson.FeatureCollection) string {
	member, ok := collection.ExtraMembers["crs"].(map[string]any)
	if !ok {
		return geographicCRS
	}
	properties, ok := member["properties"].(map[string]any)
	if !ok {
		return geographicCRS
	}
	name, ok := properties["name"].(string)
	if !ok || strings.TrimSpace(name) == "" {
		return geographicCRS
	}
	if strings.HasPrefix(strings.ToLower(name), "urn:ogc:def:crs:") {
		parts := strings.Split(name, ":")
		authority := parts[4]
		code := parts[len(parts)-1]
		if strings.EqualFold(authority, "OGC") && code == "CRS84" {
			return geographicCRS
		}
		return strings.ToUpper(authority) + ":" + code
	}
	return name
}
