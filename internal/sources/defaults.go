package sources

import (
	"municipal-limits/internal/types"
)

const (
	DefaultCanonicalCRS = "ESRI:102630"
	DefaultOutputStem   = "limestone_co_municipal_limits"
	DefaultBaseDir      = "./municipal_limits/cities"
	DefaultOutput       = "./municipal_limits"
)

// DefaultCanonicalCRSWKT is Alabama West State Plane in US survey feet, the
// definition written to .prj files for DefaultCanonicalCRS.
const DefaultCanonicalCRSWKT = `PROJCS["NAD_1983_StatePlane_Alabama_West_FIPS_0102_Feet",GEOGCS["GCS_North_American_1983",DATUM["D_North_American_1983",SPHEROID["GRS_1980",6378137.0,298.257222101]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]],PROJECTION["Transverse_Mercator"],PARAMETER["False_Easting",1968500.0],PARAMETER["False_Northing",0.0],PARAMETER["Central_Meridian",-87.5],PARAMETER["Scale_Factor",0.9999333333333333],PARAMETER["Latitude_Of_Origin",30.0],UNIT["Foot_US",0.3048006096012192]]`

// DefaultManifest is the county's source layout, used when no manifest file
// is given.
func DefaultManifest() types.Manifest {
	return types.Manifest{
		APIVersion: "v1",
		Kind:       types.ManifestKindMunicipalLimits,
		Metadata: types.Metadata{
			Name:        "limestone-county",
			Description: "Municipal limits of Limestone County, Alabama",
		},
		Defaults: types.ManifestDefaults{
			BaseDir:         DefaultBaseDir,
			Output:          DefaultOutput,
			Driver:          types.DriverShapefile,
			OutputStem:      DefaultOutputStem,
			CanonicalCRS:    DefaultCanonicalCRS,
			CanonicalCRSWKT: DefaultCanonicalCRSWKT,
		},
		Sources: []types.SourceEntry{
			{
				Name:        "athens",
				Variant:     types.VariantAthens,
				Path:        "./municipal_limits/AthensMunicipalLimits.gpkg",
				Driver:      types.DriverGeoPackage,
				LayerPrefix: "AthensMunicipalBoundary",
			},
			{Name: "decatur", Variant: types.VariantDecatur, Folder: "decatur"},
			{Name: "madison", Variant: types.VariantMadison, Folder: "madison"},
			{Name: "huntsville", Variant: types.VariantHuntsville, Folder: "huntsville"},
			{
				Name:    "towns",
				Variant: types.VariantTowns,
				Path:    "./municipal_limits/MunicipalLimits.gpkg",
				Driver:  types.DriverGeoPackage,
				Layer:   "MunicipalBoundary",
			},
		},
	}
}
