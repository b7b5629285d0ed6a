package roadtopo

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
)

const (
	utmZoneWidth = 6.0
	utmMinLat    = -80.0
	utmMaxLat    = 84.0
	utmBandWidth = 8.0
	// Bands of 8 degrees from 80S. The last band X spans 12 degrees (72N..84N), so it is repeated.
	utmBandLetters = "CDEFGHJKLMNPQRSTUVWXX"
	// Band which starts at the equator. Letters up to and including it are treated as southern
	// hemisphere when composing proj definitions.
	utmEquatorLetter = 'N'
	utmMaxLetter     = 'X'
)

// QueryUTMZone returns EPSG codes of UTM zones (from the registry) whose area of use
// contains lon/lat point given in degrees. When datum is not empty only zones defined
// on that datum are returned, e.g. "WGS84", "NAD83", "Tokyo". The datum is compared to the
// part of CRS name before "/" with spaces removed, so "WGS 84 / UTM zone 54N" has datum "WGS84".
//
// Empty result is not an error.
func QueryUTMZone(registry Registry, lon, lat float64, datum string) []EpsgCode {
	result := make([]EpsgCode, 0)
	for _, crs := range registry.ProjectedCRSContaining(lon, lat) {
		if !strings.Contains(crs.Name, "UTM zone") {
			continue
		}
		if datum != "" && datumOfCRSName(crs.Name) != datum {
			continue
		}
		result = append(result, crs.Code)
	}
	return result
}

// UTMZoneNumberAndLetter computes zone number with plain 6-degree banding (no Norway/Svalbard
// exceptions) and latitude band letter. Latitudes outside of [-80; 84] have no letter.
func UTMZoneNumberAndLetter(lon, lat float64) (int, byte, error) {
	if math.IsNaN(lon) || math.IsNaN(lat) {
		return 0, 0, errors.Wrap(ErrInvalidParameter, "Coordinate is NaN")
	}
	if lat < utmMinLat || lat > utmMaxLat {
		return 0, 0, errors.Wrapf(ErrInvalidParameter, "Latitude %f is outside of UTM bands", lat)
	}
	number := int(math.Floor((lon+180.0)/utmZoneWidth))%60 + 1
	if number < 1 {
		number += 60
	}
	band := int(math.Floor((lat - utmMinLat) / utmBandWidth))
	return number, utmBandLetters[band], nil
}

// BuildUTMProjDefinition composes proj definition of UTM zone.
//
// Note: zone letter 'N' (0..8N) selects southern hemisphere as well as every letter below it.
func BuildUTMProjDefinition(zoneNumber int, zoneLetter byte, datum string) (string, error) {
	if zoneLetter > utmMaxLetter {
		return "", errors.Wrapf(ErrInvalidParameter, "Zone letter '%c' is after '%c'", zoneLetter, utmMaxLetter)
	}
	if zoneNumber < 1 || zoneNumber > 60 {
		return "", errors.Wrapf(ErrInvalidParameter, "Zone number %d is out of [1; 60]", zoneNumber)
	}
	south := ""
	if zoneLetter <= utmEquatorLetter {
		south = " +south"
	}
	return fmt.Sprintf("+proj=utm +zone=%d%s +datum=%s +units=m +no_defs", zoneNumber, south, datum), nil
}
