package roadtopo

import (
	"github.com/pkg/errors"
)

type HighwayType uint16

const (
	HIGHWAY_MOTORWAY = HighwayType(iota + 1)
	HIGHWAY_MOTORWAY_LINK
	HIGHWAY_TRUNK
	HIGHWAY_TRUNK_LINK
	HIGHWAY_PRIMARY
	HIGHWAY_PRIMARY_LINK
	HIGHWAY_SECONDARY
	HIGHWAY_SECONDARY_LINK
	HIGHWAY_TERTIARY
	HIGHWAY_TERTIARY_LINK
	HIGHWAY_RESIDENTIAL
	HIGHWAY_RESIDENTIAL_LINK
	HIGHWAY_LIVING_STREET
	HIGHWAY_SERVICE
	HIGHWAY_SERVICES
	HIGHWAY_CYCLEWAY
	HIGHWAY_FOOTWAY
	HIGHWAY_PEDESTRIAN
	HIGHWAY_STEPS
	HIGHWAY_TRACK
	HIGHWAY_UNCLASSIFIED
)

func (iotaIdx HighwayType) String() string {
	return [...]string{"motorway", "motorway_link", "trunk", "trunk_link", "primary", "primary_link", "secondary", "secondary_link", "tertiary", "tertiary_link", "residential", "residential_link", "living_street", "service", "services", "cycleway", "footway", "pedestrian", "steps", "track", "unclassified"}[iotaIdx-1]
}

// AllowedIn reports whether agents of given network use the road
func (iotaIdx HighwayType) AllowedIn(networkType NetworkType) bool {
	switch networkType {
	case NETWORK_AUTO:
		switch iotaIdx {
		case HIGHWAY_CYCLEWAY, HIGHWAY_FOOTWAY, HIGHWAY_PEDESTRIAN, HIGHWAY_STEPS, HIGHWAY_TRACK:
			return false
		}
		return true
	case NETWORK_BIKE:
		switch iotaIdx {
		case HIGHWAY_MOTORWAY, HIGHWAY_MOTORWAY_LINK, HIGHWAY_FOOTWAY, HIGHWAY_STEPS:
			return false
		}
		return true
	case NETWORK_WALK:
		switch iotaIdx {
		case HIGHWAY_MOTORWAY, HIGHWAY_MOTORWAY_LINK, HIGHWAY_TRUNK, HIGHWAY_TRUNK_LINK, HIGHWAY_CYCLEWAY:
			return false
		}
		return true
	default:
		return true
	}
}

// ParseHighwayType converts OSM "highway" value into HighwayType
func ParseHighwayType(str string) (HighwayType, error) {
	if found, ok := highwaysTypes[str]; ok {
		return found, nil
	}
	return 0, errors.Wrapf(ErrInvalidParameter, "Unknown highway type '%s'", str)
}

var (
	highwaysTypes = map[string]HighwayType{
		"motorway":         HIGHWAY_MOTORWAY,
		"motorway_link":    HIGHWAY_MOTORWAY_LINK,
		"trunk":            HIGHWAY_TRUNK,
		"trunk_link":       HIGHWAY_TRUNK_LINK,
		"primary":          HIGHWAY_PRIMARY,
		"primary_link":     HIGHWAY_PRIMARY_LINK,
		"secondary":        HIGHWAY_SECONDARY,
		"secondary_link":   HIGHWAY_SECONDARY_LINK,
		"tertiary":         HIGHWAY_TERTIARY,
		"tertiary_link":    HIGHWAY_TERTIARY_LINK,
		"residential":      HIGHWAY_RESIDENTIAL,
		"residential_link": HIGHWAY_RESIDENTIAL_LINK,
		"living_street":    HIGHWAY_LIVING_STREET,
		"service":          HIGHWAY_SERVICE,
		"services":         HIGHWAY_SERVICES,
		"cycleway":         HIGHWAY_CYCLEWAY,
		"footway":          HIGHWAY_FOOTWAY,
		"pedestrian":       HIGHWAY_PEDESTRIAN,
		"steps":            HIGHWAY_STEPS,
		"track":            HIGHWAY_TRACK,
		"unclassified":     HIGHWAY_UNCLASSIFIED,
	}
)
