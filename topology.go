package roadtopo

import (
	"fmt"
	"math"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/quadtree"
	"github.com/pkg/errors"
)

// indexedNode is a point stored in node indexer
type indexedNode struct {
	geom orb.Point
	id   NodeID
}

func (n *indexedNode) Point() orb.Point {
	return n.geom
}

// NodeIndexer hands out node ids for line endpoints. Coordinates closer than snap tolerance
// to an already known node share its id. Zero tolerance means exact equality.
type NodeIndexer struct {
	tree          *quadtree.Quadtree
	snapTolerance float64
	currentIndex  NodeID
}

// NewNodeIndexer creates indexer for coordinates inside of given bound
func NewNodeIndexer(bound orb.Bound, snapTolerance float64) *NodeIndexer {
	return &NodeIndexer{
		tree:          quadtree.New(bound),
		snapTolerance: snapTolerance,
		currentIndex:  0,
	}
}

// IndexForCoordinate returns id of node at given coordinate and geometry of that node.
// Unknown coordinates get next sequential id.
func (indexer *NodeIndexer) IndexForCoordinate(pt orb.Point) (NodeID, orb.Point, error) {
	if found := indexer.tree.Find(pt); found != nil {
		node := found.(*indexedNode)
		if node.geom.Equal(pt) {
			return node.id, node.geom, nil
		}
		if indexer.snapTolerance > 0 && planar.DistanceSquared(node.geom, pt) <= indexer.snapTolerance*indexer.snapTolerance {
			return node.id, node.geom, nil
		}
	}
	node := &indexedNode{
		geom: pt,
		id:   indexer.currentIndex,
	}
	err := indexer.tree.Add(node)
	if err != nil {
		return 0, pt, errors.Wrapf(ErrSpatialIndexFailure, "Can't index point %v: %s", pt, err.Error())
	}
	indexer.currentIndex++
	return node.id, node.geom, nil
}

// TopologyBuilder converts independent lines into a graph where coincident endpoints share nodes
type TopologyBuilder struct {
	crs           CRS
	snapTolerance float64
	directed      bool
	verbose       bool
}

func (builder *TopologyBuilder) String() string {
	return fmt.Sprintf(`
Topology builder parameters:
	crs: '%s'
	snap_tolerance: %f
	directed: %t
	`,
		builder.crs,
		builder.snapTolerance,
		builder.directed,
	)
}

func NewTopologyBuilder(options ...func(*TopologyBuilder)) *TopologyBuilder {
	builder := &TopologyBuilder{
		crs:           WGS84(),
		snapTolerance: 0,
		directed:      false,
		verbose:       false,
	}
	for _, option := range options {
		option(builder)
	}
	return builder
}

// WithCRS sets CRS of produced graph. EPSG:4326 is used by default.
func WithCRS(crs CRS) func(*TopologyBuilder) {
	return func(builder *TopologyBuilder) {
		builder.crs = crs
	}
}

// WithSnapTolerance sets distance (in CRS units) under which endpoints are merged into one node.
// Negative and non-finite values make Build fail.
// Default is zero: only exactly equal coordinates share a node, so floating point noise
// in input data produces disconnected nodes.
func WithSnapTolerance(tolerance float64) func(*TopologyBuilder) {
	return func(builder *TopologyBuilder) {
		builder.snapTolerance = tolerance
	}
}

func WithDirected(directed bool) func(*TopologyBuilder) {
	return func(builder *TopologyBuilder) {
		builder.directed = directed
	}
}

func WithBuilderVerbose(verbose bool) func(*TopologyBuilder) {
	return func(builder *TopologyBuilder) {
		builder.verbose = verbose
	}
}

// BuildGraphFromLines builds graph from lines with empty edge data
func BuildGraphFromLines(lines []orb.LineString, options ...func(*TopologyBuilder)) (*Graph, error) {
	return NewTopologyBuilder(options...).Build(lines, nil)
}

// BuildGraphFromLinesWithData is like BuildGraphFromLines, but edge i gets data[i]
func BuildGraphFromLinesWithData(lines []orb.LineString, data []Attributes, options ...func(*TopologyBuilder)) (*Graph, error) {
	if len(lines) != len(data) {
		return nil, errors.Wrapf(ErrInvalidParameter, "Number of lines (%d) must match number of data (%d)", len(lines), len(data))
	}
	return NewTopologyBuilder(options...).Build(lines, data)
}

// Build iterates lines in input order. Lines with less than two points are skipped.
// Nodes are numbered from zero in order of first appearance.
func (builder *TopologyBuilder) Build(lines []orb.LineString, data []Attributes) (*Graph, error) {
	if builder.snapTolerance < 0 || math.IsNaN(builder.snapTolerance) || math.IsInf(builder.snapTolerance, 0) {
		return nil, errors.Wrapf(ErrInvalidParameter, "Option WithSnapTolerance should be finite and non-negative, got %f", builder.snapTolerance)
	}
	if builder.verbose {
		fmt.Printf("Building topology for %d lines... ", len(lines))
	}
	st := time.Now()

	// Only endpoints go to the index, so its bound is the bound of endpoints
	endpoints := make(orb.MultiPoint, 0, 2*len(lines))
	for _, line := range lines {
		if len(line) < 2 {
			continue
		}
		endpoints = append(endpoints, line[0], line[len(line)-1])
	}
	graph := NewGraph(builder.crs, builder.directed)
	if len(endpoints) == 0 {
		if builder.verbose {
			fmt.Printf("Done in %v (no lines with two or more points)\n", time.Since(st))
		}
		return graph, nil
	}
	indexer := NewNodeIndexer(endpoints.Bound().Pad(builder.snapTolerance), builder.snapTolerance)

	skipped := 0
	for i, line := range lines {
		if len(line) < 2 {
			skipped++
			continue
		}
		sourceID, sourceGeom, err := indexer.IndexForCoordinate(line[0])
		if err != nil {
			return nil, errors.Wrapf(err, "Can't index start of line #%d", i)
		}
		targetID, targetGeom, err := indexer.IndexForCoordinate(line[len(line)-1])
		if err != nil {
			return nil, errors.Wrapf(err, "Can't index end of line #%d", i)
		}
		geom := line
		if !sourceGeom.Equal(line[0]) || !targetGeom.Equal(line[len(line)-1]) {
			// Snapped: move endpoints onto nodes and leave caller's line untouched
			geom = line.Clone()
			geom[0] = sourceGeom
			geom[len(geom)-1] = targetGeom
		}
		var edgeData Attributes
		if data != nil {
			edgeData = data[i]
		}
		err = graph.InsertEdgeWithData(sourceID, targetID, geom, edgeData)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't insert line #%d", i)
		}
	}
	if builder.verbose {
		fmt.Printf("Done in %v\n\tNodes: %d\n\tEdges: %d\n\tSkipped lines: %d\n", time.Since(st), graph.NodeCount(), graph.EdgeCount(), skipped)
	}
	return graph, nil
}
