package roadtopo

import (
	"fmt"
	"runtime"
	"time"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	DEFAULT_DATUM = "WGS84"
)

// Unifier brings two graphs into one projected CRS, so that euclidean distances are in meters
type Unifier struct {
	registry   Registry
	transforms TransformProvider
	datum      string
	workers    int
	verbose    bool
}

func (unifier *Unifier) String() string {
	return fmt.Sprintf(`
CRS unifier parameters:
	datum: '%s'
	workers: %d
	`,
		unifier.datum,
		unifier.workers,
	)
}

func NewUnifier(options ...func(*Unifier)) *Unifier {
	unifier := &Unifier{
		registry: EPSGRegistry(),
		datum:    DEFAULT_DATUM,
		workers:  runtime.NumCPU(),
		verbose:  false,
	}
	for _, option := range options {
		option(unifier)
	}
	if unifier.transforms == nil {
		unifier.transforms = NewProjTransformProvider()
	}
	return unifier
}

// WithRegistry replaces PROJ database as a source of UTM zones
func WithRegistry(registry Registry) func(*Unifier) {
	return func(unifier *Unifier) {
		unifier.registry = registry
	}
}

func WithTransformProvider(provider TransformProvider) func(*Unifier) {
	return func(unifier *Unifier) {
		unifier.transforms = provider
	}
}

// WithDatum sets datum of UTM zones picked for geographic graphs. Empty string allows any datum.
func WithDatum(datum string) func(*Unifier) {
	return func(unifier *Unifier) {
		unifier.datum = datum
	}
}

func WithUnifierWorkers(workers int) func(*Unifier) {
	return func(unifier *Unifier) {
		unifier.workers = workers
	}
}

func WithUnifierVerbose(verbose bool) func(*Unifier) {
	return func(unifier *Unifier) {
		unifier.verbose = verbose
	}
}

// EnsureCommonCRS is EnsureCommonProjectedCRS with default unifier
func EnsureCommonCRS(graphA, graphB *Graph) error {
	return NewUnifier().EnsureCommonProjectedCRS(graphA, graphB)
}

// EnsureCommonProjectedCRS makes both graphs share a projected CRS.
// If graphA is already projected, graphB is reprojected into graphA's CRS (when it differs).
// Otherwise UTM zone of graphA's first node is picked and both graphs are reprojected into it.
func (unifier *Unifier) EnsureCommonProjectedCRS(graphA, graphB *Graph) error {
	if graphA.CRS.IsProjected() {
		codeA, err := graphA.CRS.AuthorityCode()
		if err != nil {
			return err
		}
		codeB, err := graphB.CRS.AuthorityCode()
		if err != nil {
			return err
		}
		if codeA == codeB {
			return nil
		}
		if unifier.verbose {
			fmt.Printf("Projecting second graph to %s\n", EPSGAuthorityString(codeA))
		}
		return unifier.ProjectGraph(graphB, graphA.CRS)
	}

	utmZone, err := unifier.utmZoneForGraph(graphA)
	if err != nil {
		return err
	}
	if unifier.verbose {
		fmt.Printf("Projecting both graphs to %s\n", utmZone)
	}
	err = unifier.ProjectGraph(graphA, utmZone)
	if err != nil {
		return errors.Wrap(err, "Can't project first graph")
	}
	err = unifier.ProjectGraph(graphB, utmZone)
	if err != nil {
		return errors.Wrap(err, "Can't project second graph")
	}
	return nil
}

// utmZoneForGraph picks UTM zone for the node with the smallest id
func (unifier *Unifier) utmZoneForGraph(graph *Graph) (CRS, error) {
	if !graph.CRS.IsGeographic() {
		return CRS{}, errors.Wrapf(ErrNoProjectedCRSFound, "Graph CRS %s is not geographic", graph.CRS)
	}
	first, ok := graph.Node(0)
	if !ok {
		nodes := graph.Nodes()
		if len(nodes) == 0 {
			return CRS{}, errors.Wrap(ErrNoProjectedCRSFound, "Could not determine UTM zone for empty graph")
		}
		first = nodes[0]
	}
	codes := QueryUTMZone(unifier.registry, first.Geom.Lon(), first.Geom.Lat(), unifier.datum)
	if len(codes) == 0 {
		return CRS{}, errors.Wrapf(ErrNoProjectedCRSFound, "No UTM zones found for lon %f lat %f (datum '%s')", first.Geom.Lon(), first.Geom.Lat(), unifier.datum)
	}
	return unifier.registry.Lookup(codes[0])
}

// ProjectGraph transforms every node and every edge point into target CRS and replaces graph's CRS.
// Edge endpoints are set to transformed node geometries so they stay exactly equal.
func (unifier *Unifier) ProjectGraph(graph *Graph, target CRS) error {
	from, err := graph.CRS.AuthorityCode()
	if err != nil {
		return err
	}
	to, err := target.AuthorityCode()
	if err != nil {
		return err
	}
	transform, err := unifier.transforms.NewTransform(from, to)
	if err != nil {
		return errors.Wrapf(err, "Can't prepare transform to %s", EPSGAuthorityString(to))
	}

	if unifier.verbose {
		fmt.Printf("Projecting %d nodes and %d edges from %s to %s... ", graph.NodeCount(), graph.EdgeCount(), EPSGAuthorityString(from), EPSGAuthorityString(to))
	}
	st := time.Now()

	nodes := graph.Nodes()
	projectedNodes := make(map[NodeID]orb.Point, len(nodes))
	for _, node := range nodes {
		pt, err := transformPoint(transform, node.Geom)
		if err != nil {
			return errors.Wrapf(err, "Can't project node %d", node.ID)
		}
		projectedNodes[node.ID] = pt
	}

	edges := graph.Edges()
	projectedEdges := make([]orb.LineString, len(edges))
	group := new(errgroup.Group)
	group.SetLimit(workersLimit(unifier.workers))
	for i := range edges {
		i := i
		group.Go(func() error {
			edge := edges[i]
			line := make(orb.LineString, len(edge.Geom))
			for j := 1; j < len(edge.Geom)-1; j++ {
				pt, err := transformPoint(transform, edge.Geom[j])
				if err != nil {
					return errors.Wrapf(err, "Can't project point #%d of edge %d-%d", j, edge.Source, edge.Target)
				}
				line[j] = pt
			}
			line[0] = projectedNodes[edge.Source]
			line[len(line)-1] = projectedNodes[edge.Target]
			projectedEdges[i] = line
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	// Nothing is modified before every point has been transformed successfully
	for _, node := range nodes {
		node.Geom = projectedNodes[node.ID]
	}
	for i, edge := range edges {
		edge.Geom = projectedEdges[i]
	}
	graph.CRS = target

	if unifier.verbose {
		fmt.Printf("Done in %v\n", time.Since(st))
	}
	return nil
}

func transformPoint(transform Transformer, pt orb.Point) (orb.Point, error) {
	x, y, err := transform(pt.X(), pt.Y())
	if err != nil {
		return pt, errors.Wrapf(err, "Can't transform point %v", pt)
	}
	return orb.Point{x, y}, nil
}

func workersLimit(workers int) int {
	if workers < 1 {
		return 1
	}
	return workers
}
