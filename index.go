package roadtopo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/quadtree"
	"github.com/pkg/errors"
)

// Candidate is a result of radius query
type Candidate struct {
	SquaredDistance float64
	NodeID          int
}

// SpatialIndex answers radius queries over TopoNodes. Implementations must be safe for concurrent reads.
type SpatialIndex interface {
	// WithinSquaredRadius returns every indexed node whose squared distance to pt is not greater than squaredRadius.
	// Order of candidates is defined by the index and is not nearest-first.
	WithinSquaredRadius(pt orb.Point, squaredRadius float64) []Candidate
}

// indexedTopoNode is a sample stored in PointIndex
type indexedTopoNode struct {
	geom orb.Point
	id   int
}

func (n *indexedTopoNode) Point() orb.Point {
	return n.geom
}

// PointIndex is a quadtree over TopoNodes
type PointIndex struct {
	tree *quadtree.Quadtree
	size int
}

// NewPointIndex indexes geometries of given nodes
func NewPointIndex(nodes []TopoNode) (*PointIndex, error) {
	bound := orb.Bound{}
	for i := range nodes {
		if i == 0 {
			bound = nodes[i].Geom.Bound()
			continue
		}
		bound = bound.Extend(nodes[i].Geom)
	}
	index := &PointIndex{
		tree: quadtree.New(bound),
		size: len(nodes),
	}
	for i := range nodes {
		err := index.tree.Add(&indexedTopoNode{geom: nodes[i].Geom, id: nodes[i].ID})
		if err != nil {
			return nil, errors.Wrapf(ErrSpatialIndexFailure, "Can't index node %d at %v: %s", nodes[i].ID, nodes[i].Geom, err.Error())
		}
	}
	return index, nil
}

// Size returns number of indexed nodes
func (index *PointIndex) Size() int {
	return index.size
}

func (index *PointIndex) WithinSquaredRadius(pt orb.Point, squaredRadius float64) []Candidate {
	result := make([]Candidate, 0)
	if index.size == 0 || squaredRadius < 0 || math.IsNaN(squaredRadius) {
		return result
	}
	radius := math.Sqrt(squaredRadius)
	query := orb.Bound{
		Min: orb.Point{pt.X() - radius, pt.Y() - radius},
		Max: orb.Point{pt.X() + radius, pt.Y() + radius},
	}
	for _, found := range index.tree.InBound(nil, query) {
		node := found.(*indexedTopoNode)
		squaredDistance := planar.DistanceSquared(pt, node.geom)
		if squaredDistance <= squaredRadius {
			result = append(result, Candidate{SquaredDistance: squaredDistance, NodeID: node.id})
		}
	}
	return result
}
