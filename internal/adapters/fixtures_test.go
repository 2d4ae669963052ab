package adapters

import (
	"time"

	"github.com/paulmach/orb"

	"municipal-limits/internal/ports"
	"municipal-limits/internal/types"
	"municipal-limits/internal/vector"
)

func square(x, y, size float64) orb.Polygon {
	return orb.Polygon{orb.Ring{{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}, {x, y}}}
}

func donut() orb.Polygon {
	outer := square(0, 0, 10)
	hole := orb.Ring{{2, 2}, {2, 4}, {4, 4}, {4, 2}, {2, 2}}
	return orb.Polygon{outer[0], hole}
}

func canonicalTable() vector.Table {
	table := vector.NewTable("ESRI:102630")
	table.Append(vector.Row{Geometry: square(0, 0, 660), Values: map[string]any{
		"NAME":       "Madison",
		"ProperName": "City of Madison",
		"MUNITYP":    "City",
		"GNIS":       int64(2404989),
		"LOCALFIPS":  "45784",
		"LASTUPDATE": time.Date(2019, 6, 10, 0, 0, 0, 0, time.UTC),
		"MUNIAREA":   0.015625,
		"Source":     "City of Madison, Engineering Dept.",
	}})
	table.Append(vector.Row{Geometry: orb.MultiPolygon{donut(), square(20, 20, 5)}, Values: map[string]any{
		"NAME":       "Decatur",
		"ProperName": "City of Decatur",
		"MUNITYP":    "City",
		"GNIS":       int64(2404206),
		"LOCALFIPS":  "20104",
		"LASTUPDATE": time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC),
		"MUNIAREA":   1.5,
		"Source":     "City of Decatur, Information Technology Dept.",
		"Shape_STAr": 12.0,
	}})
	return table
}

func canonicalWriteOptions(driver types.Driver) ports.WriteOptions {
	return ports.WriteOptions{Driver: driver, Schema: types.CanonicalSchema(), CRSWKT: testWKT}
}

const testWKT = `PROJCS["NAD_1983_StatePlane_Alabama_West_FIPS_0102_Feet",GEOGCS["GCS_North_American_1983",DATUM["D_North_American_1983",SPHEROID["GRS_1980",6378137.0,298.257222101]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]],PROJECTION["Transverse_Mercator"],PARAMETER["False_Easting",1968500.0],PARAMETER["False_Northing",0.0],PARAMETER["Central_Meridian",-87.5],PARAMETER["Scale_Factor",0.9999333333333333],PARAMETER["Latitude_Of_Origin",30.0],UNIT["Foot_US",0.3048006096012192]]`
