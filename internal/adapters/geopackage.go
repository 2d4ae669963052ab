package adapters

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/go-spatial/geom/encoding/gpkg"
	spatialwkb "github.com/go-spatial/geom/encoding/wkb"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/rs/zerolog/log"
	"modernc.org/sqlite"

	"municipal-limits/internal/ports"
	"municipal-limits/internal/shared"
	"municipal-limits/internal/types"
	"municipal-limits/internal/vector"
)

const (
	gpkgCustomSRSID = 100000
	geometryColumn  = "geom"
)

// The rtree triggers registered with every feature table call these
// functions on insert and update.
func init() {
	sqlite.MustRegisterDeterministicScalarFunction("ST_IsEmpty", 1, func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
		_, empty, err := blobBound(args[0])
		if err != nil {
			return nil, err
		}
		if empty {
			return int64(1), nil
		}
		return int64(0), nil
	})
	for name, pick := range map[string]func(orb.Bound) float64{
		"ST_MinX": func(b orb.Bound) float64 { return b.Min[0] },
		"ST_MaxX": func(b orb.Bound) float64 { return b.Max[0] },
		"ST_MinY": func(b orb.Bound) float64 { return b.Min[1] },
		"ST_MaxY": func(b orb.Bound) float64 { return b.Max[1] },
	} {
		sqlite.MustRegisterDeterministicScalarFunction(name, 1, func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			bound, empty, err := blobBound(args[0])
			if err != nil || empty {
				return nil, err
			}
			return pick(bound), nil
		})
	}
}

// GeoPackageAdapter reads and writes OGC GeoPackage feature tables, the
// multi-layer container used for sources that deliver several layers in one
// file.
type GeoPackageAdapter struct{}

func NewGeoPackageAdapter() GeoPackageAdapter {
	return GeoPackageAdapter{}
}

func (a GeoPackageAdapter) ListLayers(ctx context.Context, path string) ([]string, error) {
	db, err := openGeoPackage(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return listFeatureTables(ctx, db)
}

func (a GeoPackageAdapter) Read(ctx context.Context, path string, opts ports.ReadOptions) (vector.Table, error) {
	db, err := openGeoPackage(path)
	if err != nil {
		return vector.Table{}, err
	}
	defer db.Close()

	layer := strings.TrimSpace(opts.Layer)
	if layer == "" {
		layers, err := listFeatureTables(ctx, db)
		if err != nil {
			return vector.Table{}, err
		}
		if len(layers) == 0 {
			return vector.Table{}, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(fmt.Sprintf("no feature layers in %s", path))
		}
		layer = layers[0]
	}

	var geometryColumn string
	var srsID int64
	err = db.QueryRowContext(ctx,
		`SELECT column_name, srs_id FROM gpkg_geometry_columns WHERE table_name = ?`, layer,
	).Scan(&geometryColumn, &srsID)
	if err != nil {
		return vector.Table{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("layer %s not found in %s", layer, path)).
			WithCause(err)
	}
	crs, err := lookupCRS(ctx, db, srsID)
	if err != nil {
		return vector.Table{}, err
	}
	columns, err := attributeColumns(ctx, db, layer, geometryColumn)
	if err != nil {
		return vector.Table{}, err
	}

	names := make([]string, 0, len(columns))
	selects := []string{quoteIdent(geometryColumn)}
	for _, column := range columns {
		names = append(names, column.name)
		selects = append(selects, quoteIdent(column.name))
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid", strings.Join(selects, ", "), quoteIdent(layer))
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return vector.Table{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to query layer %s", layer)).
			WithCause(err)
	}
	defer rows.Close()

	table := vector.NewTable(crs, names...)
	for rows.Next() {
		raw := make([]any, len(selects))
		pointers := make([]any, len(selects))
		for i := range raw {
			pointers[i] = &raw[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return vector.Table{}, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("failed to scan layer %s", layer)).
				WithCause(err)
		}
		var geometry orb.Geometry
		if blob, ok := raw[0].([]byte); ok && len(blob) > 0 {
			geometry, err = decodeGeoPackageGeometry(blob)
			if err != nil {
				return vector.Table{}, err
			}
		}
		values := make(map[string]any, len(columns))
		for i, column := range columns {
			values[column.name] = column.convert(raw[i+1])
		}
		table.Rows = append(table.Rows, vector.Row{Geometry: geometry, Values: values})
	}
	if err := rows.Err(); err != nil {
		return vector.Table{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to read layer %s", layer)).
			WithCause(err)
	}
	log.Ctx(ctx).Info().Str("path", path).Str("layer", layer).Int("rows", table.Len()).Msg("geopackage layer read")
	return table, nil
}

// Write replaces path with a GeoPackage holding table as a single feature layer.
func (a GeoPackageAdapter) Write(ctx context.Context, path string, table vector.Table, opts ports.WriteOptions) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to replace %s", path)).
			WithCause(err)
	}
	return a.WriteLayer(ctx, path, table, opts)
}

// WriteLayer adds table to path as a feature layer, creating the GeoPackage
// when needed and replacing a layer of the same name.
func (a GeoPackageAdapter) WriteLayer(ctx context.Context, path string, table vector.Table, opts ports.WriteOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory").
			WithCause(err)
	}
	layer := layerName(opts.Layer)
	if layer == "" {
		layer = layerName(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to create %s", path)).
			WithCause(err)
	}
	defer db.Close()
	handle := &gpkg.Handle{DB: db}

	srs := srsForCRS(table.CRS, opts.CRSWKT)
	if err := prepareGeoPackage(ctx, handle, srs); err != nil {
		return gpkgWriteError(err)
	}
	if err := dropLayer(ctx, handle, layer); err != nil {
		return gpkgWriteError(err)
	}

	columns := []string{"fid INTEGER PRIMARY KEY AUTOINCREMENT", quoteIdent(geometryColumn) + " MULTIPOLYGON"}
	placeholders := []string{"?"}
	inserts := []string{quoteIdent(geometryColumn)}
	for _, field := range opts.Schema.Fields {
		columns = append(columns, fmt.Sprintf("%s %s", quoteIdent(field.Name), sqliteType(field)))
		placeholders = append(placeholders, "?")
		inserts = append(inserts, quoteIdent(field.Name))
	}
	if _, err := handle.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(layer), strings.Join(columns, ", "))); err != nil {
		return gpkgWriteError(err)
	}
	err = handle.AddGeometryTable(gpkg.TableDescription{
		Name:          layer,
		ShortName:     layer,
		GeometryField: geometryColumn,
		GeometryType:  gpkg.MultiPolygon,
		SRS:           int32(srs.id),
		Z:             gpkg.Prohibited,
		M:             gpkg.Prohibited,
	})
	if err != nil {
		return gpkgWriteError(err)
	}

	tx, err := handle.BeginTx(ctx, nil)
	if err != nil {
		return gpkgWriteError(err)
	}
	defer tx.Rollback()
	insert, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(layer), strings.Join(inserts, ", "), strings.Join(placeholders, ", "),
	))
	if err != nil {
		return gpkgWriteError(err)
	}
	defer insert.Close()

	for i, row := range table.Rows {
		blob, err := encodeGeoPackageGeometry(row.Geometry, srs.id)
		if err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("row %d geometry cannot be encoded", i)).
				WithCause(err)
		}
		args := []any{nil}
		if blob != nil {
			args[0] = blob
		}
		for _, field := range opts.Schema.Fields {
			value := schemaValue(ctx, field, row.Get(field.Name))
			if date, ok := value.(dateValue); ok {
				value = date.Format("2006-01-02")
			}
			args = append(args, value)
		}
		if _, err := insert.ExecContext(ctx, args...); err != nil {
			return gpkgWriteError(err)
		}
	}
	if err := tx.Commit(); err != nil {
		return gpkgWriteError(err)
	}

	extent, err := handle.CalculateGeometryExtent(layer)
	if err != nil {
		return gpkgWriteError(err)
	}
	if err := handle.UpdateGeometryExtent(layer, extent); err != nil {
		return gpkgWriteError(err)
	}
	log.Ctx(ctx).Info().Str("path", path).Str("layer", layer).Int("rows", table.Len()).Msg("geopackage written")
	return nil
}

// prepareGeoPackage stamps the container pragmas and creates the metadata
// tables and spatial reference rows a feature layer needs.
func prepareGeoPackage(ctx context.Context, handle *gpkg.Handle, srs spatialRef) error {
	statements := []string{
		fmt.Sprintf("PRAGMA application_id = %d", gpkg.ApplicationID),
		fmt.Sprintf("PRAGMA user_version = %d", gpkg.UserVersion),
		gpkg.TableSpatialRefSysSQL,
		gpkg.TableContentsSQL,
		gpkg.TableGeometryColumnsSQL,
		gpkg.TableExtensionsSQL,
	}
	for _, statement := range statements {
		if _, err := handle.ExecContext(ctx, statement); err != nil {
			return err
		}
	}
	systems := make([]gpkg.SpatialReferenceSystem, 0, len(gpkg.KnownSRS)+1)
	for _, known := range gpkg.KnownSRS {
		systems = append(systems, known)
	}
	if _, known := gpkg.KnownSRS[int32(srs.id)]; !known {
		systems = append(systems, gpkg.SpatialReferenceSystem{
			Name:                   srs.name,
			ID:                     int(srs.id),
			Organization:           srs.organization,
			OrganizationCoordsysID: int(srs.code),
			Definition:             srs.definition,
		})
	}
	return handle.UpdateSRS(systems...)
}

// dropLayer removes a feature table with its spatial index and registrations.
func dropLayer(ctx context.Context, handle *gpkg.Handle, layer string) error {
	statements := []string{
		fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdent(layer)),
		fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdent(rtreeName(layer))),
	}
	for _, statement := range statements {
		if _, err := handle.ExecContext(ctx, statement); err != nil {
			return err
		}
	}
	for _, registry := range []string{"gpkg_extensions", "gpkg_geometry_columns", "gpkg_contents"} {
		if _, err := handle.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE table_name = ?", registry), layer); err != nil {
			return err
		}
	}
	return nil
}

func rtreeName(layer string) string {
	return "rtree_" + layer + "_" + geometryColumn
}

// layerName keeps letters, digits and underscores so the name can be used in
// the spatial index trigger names.
func layerName(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, strings.TrimSpace(name))
}

func openGeoPackage(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("geopackage not found: %s", path)).
			WithCause(err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to open %s", path)).
			WithCause(err)
	}
	return db, nil
}

func listFeatureTables(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT table_name FROM gpkg_contents WHERE data_type = 'features' ORDER BY table_name`)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("file is not a geopackage").
			WithCause(err)
	}
	defer rows.Close()
	var layers []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to list layers").
				WithCause(err)
		}
		layers = append(layers, name)
	}
	return layers, rows.Err()
}

func lookupCRS(ctx context.Context, db *sql.DB, srsID int64) (string, error) {
	var organization, definition string
	var code int64
	err := db.QueryRowContext(ctx,
		`SELECT organization, organization_coordsys_id, definition FROM gpkg_spatial_ref_sys WHERE srs_id = ?`, srsID,
	).Scan(&organization, &code, &definition)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read spatial reference").
			WithCause(err)
	}
	if organization != "" && !strings.EqualFold(organization, "NONE") && code > 0 {
		return fmt.Sprintf("%s:%d", strings.ToUpper(organization), code), nil
	}
	if definition != "" && !strings.EqualFold(definition, "undefined") {
		return definition, nil
	}
	return "", nil
}

type attributeColumn struct {
	name     string
	declared string
}

func (c attributeColumn) convert(value any) any {
	if data, ok := value.([]byte); ok {
		value = string(data)
	}
	if value == nil {
		return nil
	}
	switch {
	case strings.Contains(c.declared, "DATE"):
		if date, ok := shared.AsTime(value); ok {
			return date
		}
		return nil
	case c.declared == "BOOLEAN":
		if number, ok := shared.AsInt64(value); ok {
			return number != 0
		}
	}
	return value
}

func attributeColumns(ctx context.Context, db *sql.DB, layer string, geometryColumn string) ([]attributeColumn, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(layer)))
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to describe layer %s", layer)).
			WithCause(err)
	}
	defer rows.Close()
	var columns []attributeColumn
	for rows.Next() {
		var (
			cid        int
			name       string
			declared   string
			notNull    int
			defaultVal sql.NullString
			primaryKey int
		)
		if err := rows.Scan(&cid, &name, &declared, &notNull, &defaultVal, &primaryKey); err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("failed to describe layer %s", layer)).
				WithCause(err)
		}
		if primaryKey > 0 || strings.EqualFold(name, geometryColumn) {
			continue
		}
		columns = append(columns, attributeColumn{name: name, declared: strings.ToUpper(declared)})
	}
	return columns, rows.Err()
}

type spatialRef struct {
	id           int64
	name         string
	organization string
	code         int64
	definition   string
}

func srsForCRS(crs string, wkt string) spatialRef {
	crs = strings.TrimSpace(crs)
	if crs == "" {
		return spatialRef{id: -1}
	}
	definition := strings.TrimSpace(wkt)
	if authority, code, ok := shared.SplitAuthority(crs); ok {
		if definition == "" {
			definition = "undefined"
		}
		return spatialRef{id: code, name: crs, organization: authority, code: code, definition: definition}
	}
	return spatialRef{id: gpkgCustomSRSID, name: "custom", organization: "NONE", code: gpkgCustomSRSID, definition: crs}
}

func sqliteType(field types.FieldSpec) string {
	switch field.Type {
	case types.FieldTypeInt:
		return "INTEGER"
	case types.FieldTypeFloat:
		return "DOUBLE"
	case types.FieldTypeDate:
		return "DATE"
	default:
		if field.Width > 0 {
			return fmt.Sprintf("TEXT(%d)", field.Width)
		}
		return "TEXT"
	}
}

// encodeGeoPackageGeometry wraps little-endian WKB in a GeoPackage binary
// header carrying the XY envelope.
func encodeGeoPackageGeometry(geometry orb.Geometry, srsID int64) ([]byte, error) {
	if geometry == nil {
		return nil, nil
	}
	body, err := wkb.Marshal(geometry, binary.LittleEndian)
	if err != nil {
		return nil, err
	}
	decoded, err := spatialwkb.DecodeBytes(body)
	if err != nil {
		return nil, err
	}
	bound := geometry.Bound()
	header, err := gpkg.NewBinaryHeader(binary.LittleEndian, int32(srsID),
		[]float64{bound.Min[0], bound.Max[0], bound.Min[1], bound.Max[1]},
		gpkg.EnvelopeTypeXY, false, false)
	if err != nil {
		return nil, err
	}
	return gpkg.StandardBinary{Header: header, SRSID: int32(srsID), Geometry: decoded}.Encode()
}

func decodeGeoPackageGeometry(blob []byte) (orb.Geometry, error) {
	header, err := gpkg.DecodeBinaryHeader(blob)
	if err == nil && header.Magic() != gpkg.Magic {
		err = gpkg.ErrInvalidMagicNumber
	}
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("geometry blob is not a geopackage geometry").
			WithCause(err)
	}
	if header.IsGeometryEmpty() {
		return nil, nil
	}
	geometry, err := wkb.Unmarshal(blob[header.Size():])
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to decode geometry").
			WithCause(err)
	}
	return geometry, nil
}

// blobBound reads the bounds of a geometry blob from its header envelope,
// decoding the geometry when no envelope was written.
func blobBound(value driver.Value) (orb.Bound, bool, error) {
	blob, ok := value.([]byte)
	if !ok || len(blob) == 0 {
		return orb.Bound{}, true, nil
	}
	header, err := gpkg.DecodeBinaryHeader(blob)
	if err != nil {
		return orb.Bound{}, false, err
	}
	if header.IsGeometryEmpty() {
		return orb.Bound{}, true, nil
	}
	if envelope := header.Envelope(); len(envelope) >= 4 {
		return orb.Bound{Min: orb.Point{envelope[0], envelope[2]}, Max: orb.Point{envelope[1], envelope[3]}}, false, nil
	}
	geometry, err := decodeGeoPackageGeometry(blob)
	if err != nil || geometry == nil {
		return orb.Bound{}, geometry == nil, err
	}
	return geometry.Bound(), false, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func gpkgWriteError(err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("failed to write geopackage").
		WithCause(err)
}
