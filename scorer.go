package roadtopo

import (
	"fmt"
	"runtime"
	"time"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// TopoResult is a score plus annotated samples of both networks
type TopoResult struct {
	F1ScoreResult
	ProposalNodes    []TopoNode
	GroundTruthNodes []TopoNode
}

// IndexFactory builds spatial index over ground truth samples
type IndexFactory func(nodes []TopoNode) (SpatialIndex, error)

func defaultIndexFactory(nodes []TopoNode) (SpatialIndex, error) {
	return NewPointIndex(nodes)
}

// Scorer calculates TOPO metric
type Scorer struct {
	params       TopoParams
	workers      int
	verbose      bool
	indexFactory IndexFactory
}

func (scorer *Scorer) String() string {
	return fmt.Sprintf(`
TOPO scorer parameters:
	resampling_distance: %f
	hole_radius: %f
	workers: %d
	`,
		scorer.params.ResamplingDistance,
		scorer.params.HoleRadius,
		scorer.workers,
	)
}

func NewScorer(params TopoParams, options ...func(*Scorer)) *Scorer {
	scorer := &Scorer{
		params:       params,
		workers:      runtime.NumCPU(),
		verbose:      false,
		indexFactory: defaultIndexFactory,
	}
	for _, option := range options {
		option(scorer)
	}
	return scorer
}

// WithWorkers limits number of goroutines for resampling and candidates lookup
func WithWorkers(workers int) func(*Scorer) {
	return func(scorer *Scorer) {
		scorer.workers = workers
	}
}

func WithVerbose(verbose bool) func(*Scorer) {
	return func(scorer *Scorer) {
		scorer.verbose = verbose
	}
}

// WithIndexFactory replaces quadtree index over ground truth samples
func WithIndexFactory(factory IndexFactory) func(*Scorer) {
	return func(scorer *Scorer) {
		scorer.indexFactory = factory
	}
}

// CalculateTopo scores proposal lines against ground truth lines with default scorer.
// Both sets must share one linear CRS.
func CalculateTopo(proposal, groundTruth []orb.LineString, params TopoParams) (*TopoResult, error) {
	return NewScorer(params).Calculate(proposal, groundTruth)
}

// CalculateGraphs scores edges of two graphs. Graphs must share CRS already, see EnsureCommonProjectedCRS.
func (scorer *Scorer) CalculateGraphs(proposal, groundTruth *Graph) (*TopoResult, error) {
	if !proposal.CRS.Equal(groundTruth.CRS) {
		return nil, errors.Wrapf(ErrInvalidParameter, "Graphs have different CRS: %s and %s", proposal.CRS, groundTruth.CRS)
	}
	if proposal.CRS.IsGeographic() {
		fmt.Printf("[WARNING]: Graphs are in geographic CRS %s, distances are not in meters\n", proposal.CRS)
	}
	return scorer.Calculate(proposal.EdgeGeometries(), groundTruth.EdgeGeometries())
}

// Calculate resamples both sets of lines, matches proposal samples to ground truth samples and computes score
func (scorer *Scorer) Calculate(proposal, groundTruth []orb.LineString) (*TopoResult, error) {
	if scorer.verbose {
		fmt.Printf("Resampling %d proposal edges and %d ground truth edges... ", len(proposal), len(groundTruth))
	}
	st := time.Now()
	proposalSamples, err := resampleLines(proposal, scorer.params.ResamplingDistance, scorer.workers)
	if err != nil {
		return nil, errors.Wrap(err, "Can't resample proposal")
	}
	groundTruthSamples, err := resampleLines(groundTruth, scorer.params.ResamplingDistance, scorer.workers)
	if err != nil {
		return nil, errors.Wrap(err, "Can't resample ground truth")
	}
	proposalNodes := wrapRoadPoints(proposalSamples)
	groundTruthNodes := wrapRoadPoints(groundTruthSamples)
	if scorer.verbose {
		fmt.Printf("Done in %v\n", time.Since(st))
		fmt.Printf("Indexing %d ground truth nodes... ", len(groundTruthNodes))
	}

	st = time.Now()
	index, err := scorer.indexFactory(groundTruthNodes)
	if err != nil {
		return nil, errors.Wrap(err, "Can't build index over ground truth")
	}
	if scorer.verbose {
		fmt.Printf("Done in %v\n", time.Since(st))
	}

	tp, err := matchTopoNodes(index, proposalNodes, groundTruthNodes, scorer.params.HoleRadius, scorer.workers, scorer.verbose)
	if err != nil {
		return nil, errors.Wrap(err, "Can't match nodes")
	}
	fp := len(proposalNodes) - tp
	fn := len(groundTruthNodes) - tp

	return &TopoResult{
		F1ScoreResult:    NewF1ScoreResult(tp, fp, fn),
		ProposalNodes:    proposalNodes,
		GroundTruthNodes: groundTruthNodes,
	}, nil
}

// resampleLines resamples every line in parallel. Result keeps order of lines.
func resampleLines(lines []orb.LineString, resamplingDistance float64, workers int) ([][]RoadPoint, error) {
	samples := make([][]RoadPoint, len(lines))
	group := new(errgroup.Group)
	group.SetLimit(workersLimit(workers))
	for i := range lines {
		i := i
		group.Go(func() error {
			points, err := Resample(lines[i], resamplingDistance)
			if err != nil {
				return errors.Wrapf(err, "Can't resample line #%d", i)
			}
			samples[i] = points
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return samples, nil
}
