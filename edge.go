package roadtopo

import (
	"github.com/paulmach/orb"
)

// Edge is a polyline between two graph nodes. Geom[0] is placed at Source node and
// Geom[len(Geom)-1] at Target node.
type Edge struct {
	Source NodeID
	Target NodeID
	Geom   orb.LineString
	Data   Attributes
}

// edgeKey is an endpoint pair. For undirected graphs it is normalized so that from <= to.
type edgeKey struct {
	from NodeID
	to   NodeID
}
