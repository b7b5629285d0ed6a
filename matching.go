package roadtopo

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"
)

// lookupCandidates queries index for every proposal node in parallel. Result is indexed by position in proposal.
func lookupCandidates(index SpatialIndex, proposal []TopoNode, squaredRadius float64, workers int) ([][]Candidate, error) {
	candidates := make([][]Candidate, len(proposal))
	group := new(errgroup.Group)
	group.SetLimit(workersLimit(workers))
	for i := range proposal {
		i := i
		group.Go(func() error {
			candidates[i] = index.WithinSquaredRadius(proposal[i].Geom, squaredRadius)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return candidates, nil
}

// claimCandidates walks proposal nodes in ascending id and lets each one claim the first unclaimed
// ground truth candidate in the order returned by the index. Returns number of claimed ground truth nodes.
func claimCandidates(proposal, groundTruth []TopoNode, candidates [][]Candidate) int {
	claimed := make(map[int]struct{})
	for i := range proposal {
		for _, candidate := range candidates[i] {
			if _, ok := claimed[candidate.NodeID]; ok {
				continue
			}
			claimed[candidate.NodeID] = struct{}{}
			distance := math.Sqrt(candidate.SquaredDistance)
			proposal[i].claim(distance)
			groundTruth[candidate.NodeID].claim(distance)
			break
		}
	}
	return len(claimed)
}

// matchTopoNodes matches proposal nodes against ground truth nodes within holeRadius and returns number of matches.
// Ground truth nodes must have ids equal to their positions.
func matchTopoNodes(index SpatialIndex, proposal, groundTruth []TopoNode, holeRadius float64, workers int, verbose bool) (int, error) {
	if verbose {
		fmt.Printf("Looking for candidates of %d proposal nodes... ", len(proposal))
	}
	st := time.Now()
	candidates, err := lookupCandidates(index, proposal, holeRadius*holeRadius, workers)
	if err != nil {
		return 0, err
	}
	if verbose {
		fmt.Printf("Done in %v\n", time.Since(st))
		fmt.Printf("Claiming candidates... ")
	}
	st = time.Now()
	matched := claimCandidates(proposal, groundTruth, candidates)
	if verbose {
		fmt.Printf("Done in %v\n", time.Since(st))
	}
	return matched, nil
}
