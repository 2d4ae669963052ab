package types

// Driver names a vector file format.
type Driver string

const (
	DriverShapefile  Driver = "ESRI Shapefile"
	DriverGeoPackage Driver = "GPKG"
	DriverGeoJSON    Driver = "GeoJSON"
)

type ManifestKind string

const (
	ManifestKindMunicipalLimits ManifestKind = "municipal-limits"
)

type FieldType string

const (
	FieldTypeString FieldType = "str"
	FieldTypeInt    FieldType = "int"
	FieldTypeFloat  FieldType = "float"
	FieldTypeDate   FieldType = "date"
)

// Variant names a per-source normalization recipe.
type Variant string

const (
	VariantAthens      Variant = "athens"
	VariantDecatur     Variant = "decatur"
	VariantHuntsville  Variant = "huntsville"
	VariantMadison     Variant = "madison"
	VariantTowns       Variant = "towns"
	VariantDeclarative Variant = "declarative"
)

// LastUpdate modes for declarative sources.
const (
	LastUpdateFolder = "folder"
	LastUpdateMax    = "max:"
	LastUpdateColumn = "column:"
)
