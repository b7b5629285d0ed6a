package roadtopo

import (
	"fmt"
	"sort"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// Graph is a multigraph of geometric edges. Edges between the same pair of nodes are kept
// as a list (in insertion order). Graph is not safe for concurrent mutation.
type Graph struct {
	CRS CRS

	directed bool
	nodes    map[NodeID]*Node
	edges    []*Edge
	adjacent map[edgeKey][]int
}

// NewGraph returns empty graph in given CRS
func NewGraph(crs CRS, directed bool) *Graph {
	return &Graph{
		CRS:      crs,
		directed: directed,
		nodes:    make(map[NodeID]*Node),
		edges:    make([]*Edge, 0),
		adjacent: make(map[edgeKey][]int),
	}
}

func (graph *Graph) Directed() bool {
	return graph.directed
}

func (graph *Graph) NodeCount() int {
	return len(graph.nodes)
}

func (graph *Graph) EdgeCount() int {
	return len(graph.edges)
}

// Node returns node by its id
func (graph *Graph) Node(id NodeID) (*Node, bool) {
	node, ok := graph.nodes[id]
	return node, ok
}

// Nodes returns nodes ordered by id
func (graph *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(graph.nodes))
	for _, node := range graph.nodes {
		nodes = append(nodes, node)
	}
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].ID < nodes[j].ID
	})
	return nodes
}

// Edges returns all edges in insertion order
func (graph *Graph) Edges() []*Edge {
	return graph.edges
}

// EdgesBetween returns parallel edges between source and target. For undirected graphs the
// order of arguments doesn't matter.
func (graph *Graph) EdgesBetween(source, target NodeID) []*Edge {
	indices := graph.adjacent[graph.key(source, target)]
	edges := make([]*Edge, len(indices))
	for i, idx := range indices {
		edges[i] = graph.edges[idx]
	}
	return edges
}

// EdgeGeometries returns geometries of all edges in insertion order
func (graph *Graph) EdgeGeometries() []orb.LineString {
	lines := make([]orb.LineString, len(graph.edges))
	for i, edge := range graph.edges {
		lines[i] = edge.Geom
	}
	return lines
}

// InsertNode adds node with given id. Inserting the same id twice is allowed only when
// the geometry is the same.
func (graph *Graph) InsertNode(id NodeID, geom orb.Point) error {
	if node, ok := graph.nodes[id]; ok {
		if !node.Geom.Equal(geom) {
			return errors.Wrapf(ErrInvalidGeometry, "Node with the same index (%d) but different geometry already exists", id)
		}
		return nil
	}
	graph.nodes[id] = &Node{
		ID:   id,
		Geom: geom,
		Data: make(Attributes),
	}
	return nil
}

// InsertEdge adds edge between source and target. Endpoint nodes are created from the
// first and the last point of geometry.
func (graph *Graph) InsertEdge(source, target NodeID, geom orb.LineString) error {
	return graph.InsertEdgeWithData(source, target, geom, make(Attributes))
}

func (graph *Graph) InsertEdgeWithData(source, target NodeID, geom orb.LineString, data Attributes) error {
	if len(geom) < 2 {
		return errors.Wrap(ErrInvalidGeometry, "Cannot insert edge with less than two points")
	}
	err := graph.InsertNode(source, geom[0])
	if err != nil {
		return errors.Wrap(err, "Can't insert source node")
	}
	err = graph.InsertNode(target, geom[len(geom)-1])
	if err != nil {
		return errors.Wrap(err, "Can't insert target node")
	}
	if data == nil {
		data = make(Attributes)
	}
	graph.edges = append(graph.edges, &Edge{
		Source: source,
		Target: target,
		Geom:   geom,
		Data:   data,
	})
	key := graph.key(source, target)
	graph.adjacent[key] = append(graph.adjacent[key], len(graph.edges)-1)
	return nil
}

func (graph *Graph) key(source, target NodeID) edgeKey {
	if !graph.directed && target < source {
		return edgeKey{from: target, to: source}
	}
	return edgeKey{from: source, to: target}
}

// String returns short summary of the graph
func (graph *Graph) String() string {
	direction := "undirected"
	if graph.directed {
		direction = "directed"
	}
	return fmt.Sprintf("Graph (%s) in %s: %d nodes, %d edges", direction, graph.CRS, len(graph.nodes), len(graph.edges))
}
