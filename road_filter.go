package roadtopo

import (
	"fmt"
	"strings"
)

// RoadFilter allows to filter ways by certain tags from OSM data
type RoadFilter struct {
	// EntityName is a tag key, e.g. "highway"
	EntityName string
	// Tags are accepted values of EntityName. Empty list accepts every way having EntityName.
	Tags []string
}

// DefaultRoadFilter accepts highways of NETWORK_AUTO
func DefaultRoadFilter() *RoadFilter {
	return RoadFilterForNetwork(NETWORK_AUTO)
}

// RoadFilterForNetwork accepts highways used by agents of given network
func RoadFilterForNetwork(networkType NetworkType) *RoadFilter {
	tags := make([]string, 0, len(highwaysTypes))
	for highway := HIGHWAY_MOTORWAY; highway <= HIGHWAY_UNCLASSIFIED; highway++ {
		if highway.AllowedIn(networkType) {
			tags = append(tags, highway.String())
		}
	}
	return &RoadFilter{
		EntityName: "highway",
		Tags:       tags,
	}
}

// CheckTag checks if incoming tag is represented in filter
func (filter *RoadFilter) CheckTag(tag string) bool {
	if len(filter.Tags) == 0 {
		return true
	}
	for i := range filter.Tags {
		if filter.Tags[i] == tag {
			return true
		}
	}
	return false
}

func (filter *RoadFilter) String() string {
	return fmt.Sprintf("%s=%s", filter.EntityName, strings.Join(filter.Tags, "|"))
}
