package roadtopo

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"
)

type OSMScanner interface {
	Scan() bool
	Close() error
	Err() error
	Object() osm.Object
}

// newOSMScanner guesses file format by extension
func newOSMScanner(filename string, reader io.Reader) (OSMScanner, error) {
	ext := filepath.Ext(filename)
	switch ext {
	case ".osm", ".xml":
		return osmxml.New(context.Background(), reader), nil
	case ".pbf":
		return osmpbf.New(context.Background(), reader, 4), nil
	default:
		return nil, errors.Wrapf(ErrInvalidParameter, "File extension '%s' for file '%s' is not handled yet", ext, filename)
	}
}

// osmWay is an accepted way waiting for its nodes
type osmWay struct {
	ID    osm.WayID
	Nodes osm.WayNodes
	Tags  osm.Tags
}

// ReadOSMRoads reads ways accepted by filter (every way when filter is nil) and returns them as lines
// in EPSG:4326 in order of appearance. Each line comes with attributes: "osm_way_id" and, when present,
// the filter's tag and "name".
func ReadOSMRoads(filename string, filter *RoadFilter, verbose bool) ([]orb.LineString, []Attributes, error) {
	if verbose {
		fmt.Printf("Opening file: '%s'...\n", filename)
	}
	file, err := os.Open(filename)
	if err != nil {
		return nil, nil, errors.Wrap(err, "Can't open file")
	}
	defer file.Close()

	/* Process ways */
	if verbose {
		fmt.Printf("\tProcessing ways... ")
	}
	st := time.Now()
	ways := []*osmWay{}
	nodesSeen := make(map[osm.NodeID]struct{})
	{
		scannerWays, err := newOSMScanner(filename, file)
		if err != nil {
			return nil, nil, err
		}
		defer scannerWays.Close()

		for scannerWays.Scan() {
			obj := scannerWays.Object()
			if obj.ObjectID().Type() != "way" {
				continue
			}
			way := obj.(*osm.Way)
			if filter != nil {
				tag := way.Tags.Find(filter.EntityName)
				if tag == "" || !filter.CheckTag(tag) {
					continue
				}
			}
			preparedWay := &osmWay{
				ID:    way.ID,
				Nodes: make(osm.WayNodes, len(way.Nodes)),
				Tags:  make(osm.Tags, len(way.Tags)),
			}
			copy(preparedWay.Nodes, way.Nodes)
			copy(preparedWay.Tags, way.Tags)
			ways = append(ways, preparedWay)
			for _, node := range way.Nodes {
				nodesSeen[node.ID] = struct{}{}
			}
		}
		if scannerWays.Err() != nil {
			return nil, nil, errors.Wrap(scannerWays.Err(), "Scanner error on ways")
		}
	}
	if verbose {
		fmt.Printf("Done in %v\n\t\tWays: %d\n", time.Since(st), len(ways))
	}

	// Seek file to start
	_, err = file.Seek(0, io.SeekStart)
	if err != nil {
		return nil, nil, errors.Wrap(err, "Can't repeat seeking after ways scanning")
	}

	/* Process nodes */
	if verbose {
		fmt.Printf("\tProcessing nodes... ")
	}
	st = time.Now()
	nodes := make(map[osm.NodeID]orb.Point, len(nodesSeen))
	{
		scannerNodes, err := newOSMScanner(filename, file)
		if err != nil {
			return nil, nil, err
		}
		defer scannerNodes.Close()

		for scannerNodes.Scan() {
			obj := scannerNodes.Object()
			if obj.ObjectID().Type() != "node" {
				continue
			}
			node := obj.(*osm.Node)
			if _, ok := nodesSeen[node.ID]; ok {
				nodes[node.ID] = orb.Point{node.Lon, node.Lat}
			}
		}
		if scannerNodes.Err() != nil {
			return nil, nil, errors.Wrap(scannerNodes.Err(), "Scanner error on nodes")
		}
	}
	if verbose {
		fmt.Printf("Done in %v\n\t\tNodes: %d\n", time.Since(st), len(nodes))
	}

	lines := make([]orb.LineString, 0, len(ways))
	data := make([]Attributes, 0, len(ways))
	for _, way := range ways {
		line := make(orb.LineString, 0, len(way.Nodes))
		for _, wayNode := range way.Nodes {
			pt, ok := nodes[wayNode.ID]
			if !ok {
				return nil, nil, errors.Wrapf(ErrInvalidGeometry, "Missing node with id %d for way %d", wayNode.ID, way.ID)
			}
			line = append(line, pt)
		}
		attrs := Attributes{
			"osm_way_id": IntegerValue(int64(way.ID)),
		}
		if filter != nil {
			attrs[filter.EntityName] = StringValue(way.Tags.Find(filter.EntityName))
		}
		if name := strings.TrimSpace(way.Tags.Find("name")); name != "" {
			attrs["name"] = StringValue(name)
		}
		lines = append(lines, line)
		data = append(data, attrs)
	}
	return lines, data, nil
}

// LoadGraphFromOSM reads roads from OSM file and builds graph in EPSG:4326 over them
func LoadGraphFromOSM(filename string, filter *RoadFilter, verbose bool, options ...func(*TopologyBuilder)) (*Graph, error) {
	lines, data, err := ReadOSMRoads(filename, filter, verbose)
	if err != nil {
		return nil, errors.Wrap(err, "Can't read OSM roads")
	}
	return BuildGraphFromLinesWithData(lines, data, append([]func(*TopologyBuilder){WithCRS(WGS84()), WithBuilderVerbose(verbose)}, options...)...)
}
