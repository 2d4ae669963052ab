// Package vector holds the in-memory geometry and attribute table that every
// layer in municipal-limits operates on.
package vector

import (
	"slices"
	"time"

	"github.com/paulmach/orb"
)

// Row is a single feature: one geometry plus its attribute values keyed by
// column name. Values are string, int64, float64, bool, time.Time or nil.
type Row struct {
	Geometry orb.Geometry
	Values   map[string]any
}

// Get returns the value of column name, or nil when absent.
func (r Row) Get(name string) any {
	if r.Values == nil {
		return nil
	}
	return r.Values[name]
}

func (r Row) clone() Row {
	values := make(map[string]any, len(r.Values))
	for key, value := range r.Values {
		values[key] = value
	}
	var geometry orb.Geometry
	if r.Geometry != nil {
		geometry = orb.Clone(r.Geometry)
	}
	return Row{Geometry: geometry, Values: values}
}

// Table is an ordered collection of rows sharing a column list and a CRS.
type Table struct {
	CRS     string
	Columns []string
	Rows    []Row
}

func NewTable(crs string, columns ...string) Table {
	return Table{CRS: crs, Columns: append([]string(nil), columns...)}
}

func (t Table) Len() int {
	return len(t.Rows)
}

func (t Table) HasColumn(name string) bool {
	return slices.Contains(t.Columns, name)
}

// Append adds a row, registering any columns the table has not seen yet.
func (t *Table) Append(row Row) {
	if row.Values == nil {
		row.Values = map[string]any{}
	}
	for _, name := range sortedKeys(row.Values) {
		t.addColumn(name)
	}
	t.Rows = append(t.Rows, row)
}

// SetConstant assigns value to column name on every row.
func (t *Table) SetConstant(name string, value any) {
	t.SetFunc(name, func(Row) any { return value })
}

// SetFunc assigns fn(row) to column name on every row.
func (t *Table) SetFunc(name string, fn func(Row) any) {
	t.addColumn(name)
	for i := range t.Rows {
		if t.Rows[i].Values == nil {
			t.Rows[i].Values = map[string]any{}
		}
		t.Rows[i].Values[name] = fn(t.Rows[i])
	}
}

// Column returns the values of column name in row order.
func (t Table) Column(name string) []any {
	values := make([]any, 0, len(t.Rows))
	for _, row := range t.Rows {
		values = append(values, row.Get(name))
	}
	return values
}

// DropColumns removes the named columns from the column list and every row.
func (t *Table) DropColumns(names ...string) {
	drop := make(map[string]struct{}, len(names))
	for _, name := range names {
		drop[name] = struct{}{}
	}
	t.Columns = slices.DeleteFunc(t.Columns, func(name string) bool {
		_, ok := drop[name]
		return ok
	})
	for i := range t.Rows {
		for name := range drop {
			delete(t.Rows[i].Values, name)
		}
	}
}

// Filter keeps only the rows for which keep returns true.
func (t *Table) Filter(keep func(Row) bool) {
	t.Rows = slices.DeleteFunc(t.Rows, func(row Row) bool {
		return !keep(row)
	})
}

// Geometries returns the row geometries in order.
func (t Table) Geometries() []orb.Geometry {
	geometries := make([]orb.Geometry, 0, len(t.Rows))
	for _, row := range t.Rows {
		geometries = append(geometries, row.Geometry)
	}
	return geometries
}

// SetGeometries replaces the row geometries in order. The slice must be as
// long as the table.
func (t *Table) SetGeometries(geometries []orb.Geometry) {
	for i := range t.Rows {
		if i < len(geometries) {
			t.Rows[i].Geometry = geometries[i]
		}
	}
}

// Clone returns a deep copy that shares no rows, values or coordinates with t.
func (t Table) Clone() Table {
	out := Table{
		CRS:     t.CRS,
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Row, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		out.Rows = append(out.Rows, row.clone())
	}
	return out
}

// Concat stacks the rows of tables in order into a new table. Columns are the
// union in first-seen order, duplicates are kept and the CRS is taken from the
// first table that carries one. No input is modified.
func Concat(tables ...Table) Table {
	out := Table{}
	for _, table := range tables {
		if out.CRS == "" {
			out.CRS = table.CRS
		}
		for _, name := range table.Columns {
			out.addColumn(name)
		}
		for _, row := range table.Rows {
			out.Rows = append(out.Rows, row.clone())
		}
	}
	return out
}

func (t *Table) addColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}

func sortedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// IsEmptyValue reports whether value should be treated as missing.
func IsEmptyValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case time.Time:
		return v.IsZero()
	default:
		return false
	}
}
