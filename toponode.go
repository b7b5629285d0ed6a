package roadtopo

import (
	"fmt"
)

// TopoParams are parameters of TOPO metric. Both values are in units of the graphs' CRS (meters for UTM).
type TopoParams struct {
	// ResamplingDistance is a desired spacing between samples along an edge. Should be positive.
	ResamplingDistance float64 `yaml:"resampling_distance"`
	// HoleRadius is a matching tolerance. Should be non-negative.
	HoleRadius float64 `yaml:"hole_radius"`
}

func (params TopoParams) String() string {
	return fmt.Sprintf("resampling_distance: %f | hole_radius: %f", params.ResamplingDistance, params.HoleRadius)
}

// TopoNode is a sample of proposal or ground truth network
type TopoNode struct {
	// ID is sequential per side, starting from 0
	ID int
	RoadPoint
	Matched bool
	// MatchDistance is set for matched nodes only
	MatchDistance *float64
}

func (node TopoNode) String() string {
	distance := "-"
	if node.MatchDistance != nil {
		distance = fmt.Sprintf("%f", *node.MatchDistance)
	}
	return fmt.Sprintf("ID: %d | %s | Matched: %t | Distance: %s", node.ID, node.RoadPoint, node.Matched, distance)
}

// claim marks node as matched at given distance
func (node *TopoNode) claim(distance float64) {
	node.Matched = true
	node.MatchDistance = &distance
}

// wrapRoadPoints flattens samples edge by edge keeping their order along the edge and assigns ids from 0
func wrapRoadPoints(samples [][]RoadPoint) []TopoNode {
	total := 0
	for i := range samples {
		total += len(samples[i])
	}
	nodes := make([]TopoNode, 0, total)
	for i := range samples {
		for _, pt := range samples[i] {
			nodes = append(nodes, TopoNode{
				ID:        len(nodes),
				RoadPoint: pt,
			})
		}
	}
	return nodes
}
