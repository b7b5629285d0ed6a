package roadtopo

import (
	"fmt"

	"github.com/paulmach/orb"
)

// NodeID is an index of a graph node. Ids are assigned sequentially from zero.
type NodeID uint64

type Node struct {
	ID   NodeID
	Geom orb.Point
	Data Attributes
}

// String returns pretty printed value for Node
func (node *Node) String() string {
	return fmt.Sprintf("Node %d | X: %f | Y: %f", node.ID, node.Geom.X(), node.Geom.Y())
}
