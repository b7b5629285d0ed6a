package roadtopo

import (
	"github.com/pkg/errors"
)

// NetworkType selects which roads are taken from OSM data
type NetworkType uint16

const (
	NETWORK_AUTO = NetworkType(iota + 1)
	NETWORK_BIKE
	NETWORK_WALK
	NETWORK_UNDEFINED = NetworkType(0)
)

func (iotaIdx NetworkType) String() string {
	return [...]string{"undefined", "auto", "bike", "walk"}[iotaIdx]
}

var (
	networkTypes = map[string]NetworkType{
		"auto": NETWORK_AUTO,
		"bike": NETWORK_BIKE,
		"walk": NETWORK_WALK,
	}
)

// ParseNetworkType converts "auto", "bike" or "walk" into NetworkType
func ParseNetworkType(str string) (NetworkType, error) {
	networkType, ok := networkTypes[str]
	if !ok {
		return NETWORK_UNDEFINED, errors.Wrapf(ErrInvalidParameter, "Unknown network type '%s'", str)
	}
	return networkType, nil
}
