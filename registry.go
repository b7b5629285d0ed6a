package roadtopo

import (
	"strings"
	"sync"

	"github.com/paulmach/orb"
)

// Registry is a source of CRS definitions keyed by EPSG code
type Registry interface {
	// Lookup returns CRS for given code
	Lookup(code EpsgCode) (CRS, error)
	// ProjectedCRSContaining returns projected CRSs whose area of use contains lon/lat point (degrees),
	// ordered by code
	ProjectedCRSContaining(lon, lat float64) []CRS
}

var (
	worldBound = orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}}

	defaultRegistry     *ProjDatabase
	defaultRegistryOnce sync.Once
)

// EPSGRegistry returns registry over EPSG dataset of PROJ database. It is safe for concurrent use.
func EPSGRegistry() Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewProjDatabase()
	})
	return defaultRegistry
}

// WGS84 returns EPSG:4326
func WGS84() CRS {
	return CRS{
		Authority: AUTHORITY_EPSG,
		Code:      4326,
		Name:      "WGS 84",
		Kind:      CRS_GEOGRAPHIC,
		AreaOfUse: worldBound,
	}
}

// ParseCRS resolves strings like "EPSG:32654" with the PROJ database
func ParseCRS(str string) (CRS, error) {
	code, err := ParseAuthorityString(str)
	if err != nil {
		return CRS{}, err
	}
	if code == 4326 {
		return WGS84(), nil
	}
	return EPSGRegistry().Lookup(code)
}

// areaOfUseBound converts area of use to bound. Areas crossing the antimeridian
// (west > east) get east shifted by 360 degrees.
func areaOfUseBound(west, south, east, north float64) orb.Bound {
	if east < west {
		east += 360
	}
	return orb.Bound{Min: orb.Point{west, south}, Max: orb.Point{east, north}}
}

// datumOfCRSName returns text before the first "/" without any whitespace,
// e.g. "WGS 84 / UTM zone 54N" -> "WGS84"
func datumOfCRSName(name string) string {
	datum := strings.SplitN(name, "/", 2)[0]
	return strings.Join(strings.Fields(datum), "")
}
