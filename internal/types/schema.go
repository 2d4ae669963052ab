package types

// FieldSpec describes one attribute of the output schema.
type FieldSpec struct {
	Name      string
	Type      FieldType
	Width     int
	Precision int
}

// OutputSchema is the attribute layout every written dataset conforms to.
type OutputSchema struct {
	GeometryType string
	Fields       []FieldSpec
}

// CanonicalSchema is the municipal limits layout published by the county.
func CanonicalSchema() OutputSchema {
	return OutputSchema{
		GeometryType: "Polygon",
		Fields: []FieldSpec{
			{Name: "NAME", Type: FieldTypeString, Width: 50},
			{Name: "ProperName", Type: FieldTypeString, Width: 50},
			{Name: "MUNITYP", Type: FieldTypeString, Width: 10},
			{Name: "GNIS", Type: FieldTypeInt, Width: 10},
			{Name: "LOCALFIPS", Type: FieldTypeString, Width: 5},
			{Name: "GlobalID", Type: FieldTypeString, Width: 38},
			{Name: "LASTEDITOR", Type: FieldTypeString, Width: 50},
			{Name: "LASTUPDATE", Type: FieldTypeDate},
			{Name: "ChangeDesc", Type: FieldTypeString, Width: 254},
			{Name: "MUNIAREA", Type: FieldTypeFloat, Width: 24, Precision: 3},
			{Name: "Source", Type: FieldTypeString, Width: 100},
			{Name: "SrcURL", Type: FieldTypeString, Width: 254},
		},
	}
}

func (s OutputSchema) FieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for _, field := range s.Fields {
		names = append(names, field.Name)
	}
	return names
}

func (s OutputSchema) Field(name string) (FieldSpec, bool) {
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldSpec{}, false
}
