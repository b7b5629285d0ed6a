package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/LdDl/roadtopo"
	"github.com/pkg/errors"
)

var (
	configPath = flag.String("config", "config.yaml", "Path to YAML configuration file")
	verbose    = flag.Bool("verbose", true, "Print progress")
)

func main() {
	flag.Parse()

	config, err := roadtopo.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Can't load configuration: %s", err.Error())
	}
	if *verbose {
		fmt.Printf("Configuration loaded from '%s'\n", *configPath)
	}
	err = os.MkdirAll(config.DataDir, 0755)
	if err != nil {
		log.Fatalf("Can't create data directory: %s", err.Error())
	}

	st := time.Now()
	groundTruth, err := loadGroundTruth(config)
	if err != nil {
		log.Fatalf("Can't load ground truth: %s", err.Error())
	}
	if *verbose {
		fmt.Printf("Ground truth: %s\n", groundTruth)
	}

	proposal, err := roadtopo.LoadGraphFromGeoJSON(config.ProposalGeofilePath, builderOptions(config)...)
	if err != nil {
		log.Fatalf("Can't load proposal: %s", err.Error())
	}
	if *verbose {
		fmt.Printf("Proposal: %s\n", proposal)
	}

	err = roadtopo.WriteLinesToGeoJSON(groundTruth.EdgeGeometries(), groundTruth.CRS, filepath.Join(config.DataDir, "ground_truth.geojson"))
	if err != nil {
		log.Fatalf("Can't dump ground truth: %s", err.Error())
	}

	unifier := roadtopo.NewUnifier(
		roadtopo.WithDatum(config.DatumOrDefault()),
		roadtopo.WithUnifierWorkers(config.Workers),
		roadtopo.WithUnifierVerbose(*verbose),
	)
	err = unifier.EnsureCommonProjectedCRS(groundTruth, proposal)
	if err != nil {
		log.Fatalf("Can't bring graphs into common CRS: %s", err.Error())
	}

	scorer := roadtopo.NewScorer(
		config.TopoParams,
		roadtopo.WithWorkers(config.Workers),
		roadtopo.WithVerbose(*verbose),
	)
	if *verbose {
		fmt.Println(scorer)
	}
	result, err := scorer.CalculateGraphs(proposal, groundTruth)
	if err != nil {
		log.Fatalf("Can't calculate TOPO: %s", err.Error())
	}
	fmt.Printf("TOPO: %s\n", result.F1ScoreResult)

	err = writeResult(config.DataDir, result, proposal.CRS)
	if err != nil {
		log.Fatalf("Can't write results: %s", err.Error())
	}
	if *verbose {
		fmt.Printf("Done in %v\n", time.Since(st))
	}
}

func builderOptions(config *roadtopo.Config) []func(*roadtopo.TopologyBuilder) {
	return []func(*roadtopo.TopologyBuilder){
		roadtopo.WithSnapTolerance(config.SnapTolerance),
		roadtopo.WithBuilderVerbose(*verbose),
	}
}

func loadGroundTruth(config *roadtopo.Config) (*roadtopo.Graph, error) {
	source := config.GroundTruth
	if source.Geofile != nil {
		return roadtopo.LoadGraphFromGeoJSON(source.Geofile.Filepath, builderOptions(config)...)
	}
	osmFile := source.OSM.Filepath
	if source.OSM.BoundingBox != nil {
		fname, err := roadtopo.SyncOSMDataToFile(context.Background(), *source.OSM.BoundingBox, config.DataDir, *verbose)
		if err != nil {
			return nil, errors.Wrap(err, "Can't sync OSM data")
		}
		osmFile = fname
	}
	return roadtopo.LoadGraphFromOSM(osmFile, config.RoadFilter(), *verbose, builderOptions(config)...)
}

func writeResult(dataDir string, result *roadtopo.TopoResult, crs roadtopo.CRS) error {
	err := roadtopo.WriteTopoNodesToGeoJSON(result.ProposalNodes, crs, filepath.Join(dataDir, "proposal_nodes.geojson"))
	if err != nil {
		return errors.Wrap(err, "Can't write proposal nodes")
	}
	err = roadtopo.WriteTopoNodesToGeoJSON(result.GroundTruthNodes, crs, filepath.Join(dataDir, "ground_truth_nodes.geojson"))
	if err != nil {
		return errors.Wrap(err, "Can't write ground truth nodes")
	}
	err = roadtopo.ExportTopoNodesToCSV(result.ProposalNodes, filepath.Join(dataDir, "proposal_nodes.csv"))
	if err != nil {
		return errors.Wrap(err, "Can't export proposal nodes to CSV")
	}
	err = roadtopo.ExportTopoNodesToCSV(result.GroundTruthNodes, filepath.Join(dataDir, "ground_truth_nodes.csv"))
	if err != nil {
		return errors.Wrap(err, "Can't export ground truth nodes to CSV")
	}
	return nil
}
