package roadtopo

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/paulmach/orb/encoding/wkt"
	"github.com/pkg/errors"
)

// ExportToCSV writes graph into two files: <fname>_nodes.csv and <fname>_edges.csv
func (graph *Graph) ExportToCSV(fname string) error {
	fnameParts := strings.Split(fname, ".csv")
	fnameNodes := fnameParts[0] + "_nodes.csv"
	fnameEdges := fnameParts[0] + "_edges.csv"

	err := graph.exportNodesToCSV(fnameNodes)
	if err != nil {
		return errors.Wrap(err, "Can't export nodes")
	}

	err = graph.exportEdgesToCSV(fnameEdges)
	if err != nil {
		return errors.Wrap(err, "Can't export edges")
	}
	return nil
}

func (graph *Graph) exportNodesToCSV(fname string) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"id", "x", "y", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}

	for _, node := range graph.Nodes() {
		err = writer.Write([]string{
			fmt.Sprintf("%d", node.ID),
			fmt.Sprintf("%f", node.Geom.X()),
			fmt.Sprintf("%f", node.Geom.Y()),
			wkt.MarshalString(node.Geom),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write node")
		}
	}
	return nil
}

func (graph *Graph) exportEdgesToCSV(fname string) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"id", "source_node", "target_node", "attributes", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}

	for i, edge := range graph.Edges() {
		err = writer.Write([]string{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%d", edge.Source),
			fmt.Sprintf("%d", edge.Target),
			formatAttributes(edge.Data),
			wkt.MarshalString(edge.Geom),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write edge")
		}
	}
	return nil
}

// ExportToCSV writes samples of both networks into <fname>_proposal_nodes.csv and <fname>_ground_truth_nodes.csv
func (result *TopoResult) ExportToCSV(fname string) error {
	fnameParts := strings.Split(fname, ".csv")
	fnameProposal := fnameParts[0] + "_proposal_nodes.csv"
	fnameGroundTruth := fnameParts[0] + "_ground_truth_nodes.csv"

	err := ExportTopoNodesToCSV(result.ProposalNodes, fnameProposal)
	if err != nil {
		return errors.Wrap(err, "Can't export proposal nodes")
	}
	err = ExportTopoNodesToCSV(result.GroundTruthNodes, fnameGroundTruth)
	if err != nil {
		return errors.Wrap(err, "Can't export ground truth nodes")
	}
	return nil
}

// ExportTopoNodesToCSV writes samples with ';' separator. Unmatched nodes have empty match_distance.
func ExportTopoNodesToCSV(nodes []TopoNode, fname string) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"id", "matched", "match_distance", "azimuth", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}

	for _, node := range nodes {
		distance := ""
		if node.MatchDistance != nil {
			distance = fmt.Sprintf("%f", *node.MatchDistance)
		}
		err = writer.Write([]string{
			fmt.Sprintf("%d", node.ID),
			fmt.Sprintf("%t", node.Matched),
			distance,
			fmt.Sprintf("%f", node.Azimuth),
			wkt.MarshalString(node.Geom),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write node")
		}
	}
	return nil
}

// formatAttributes renders attributes as "key=value" pairs sorted by key
func formatAttributes(data Attributes) string {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, key := range keys {
		pairs[i] = fmt.Sprintf("%s=%s", key, data[key])
	}
	return strings.Join(pairs, ",")
}
