package roadtopo

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	geojson "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"
)

// ReadLinesFromGeoJSON reads LineString features of a feature collection. Other geometries are skipped with a warning.
// CRS is taken from legacy "crs" member; EPSG:4326 is used when it is absent.
func ReadLinesFromGeoJSON(fname string) ([]orb.LineString, []Attributes, CRS, error) {
	bytes, err := os.ReadFile(fname)
	if err != nil {
		return nil, nil, CRS{}, errors.Wrap(err, "Can't read file")
	}
	fc, err := geojson.UnmarshalFeatureCollection(bytes)
	if err != nil {
		return nil, nil, CRS{}, errors.Wrap(err, "Can't parse feature collection")
	}
	crs, err := crsOfFeatureCollection(fc)
	if err != nil {
		return nil, nil, CRS{}, errors.Wrap(err, "Can't resolve CRS of feature collection")
	}

	lines := make([]orb.LineString, 0, len(fc.Features))
	data := make([]Attributes, 0, len(fc.Features))
	skipped := 0
	for _, feature := range fc.Features {
		if feature.Geometry == nil || !feature.Geometry.IsLineString() {
			skipped++
			continue
		}
		line := make(orb.LineString, 0, len(feature.Geometry.LineString))
		for i, coordinate := range feature.Geometry.LineString {
			if len(coordinate) < 2 {
				return nil, nil, CRS{}, errors.Wrapf(ErrInvalidGeometry, "Coordinate #%d of feature %v has less than two values", i, feature.ID)
			}
			line = append(line, orb.Point{coordinate[0], coordinate[1]})
		}
		lines = append(lines, line)
		data = append(data, AttributesFromMap(feature.Properties))
	}
	if skipped > 0 {
		fmt.Printf("[WARNING]: %d features of '%s' are not LineString and have been skipped\n", skipped, fname)
	}
	return lines, data, crs, nil
}

// LoadGraphFromGeoJSON reads lines from file and builds graph over them. Graph gets CRS of the file
// unless options override it.
func LoadGraphFromGeoJSON(fname string, options ...func(*TopologyBuilder)) (*Graph, error) {
	lines, data, crs, err := ReadLinesFromGeoJSON(fname)
	if err != nil {
		return nil, err
	}
	return BuildGraphFromLinesWithData(lines, data, append([]func(*TopologyBuilder){WithCRS(crs)}, options...)...)
}

func crsOfFeatureCollection(fc *geojson.FeatureCollection) (CRS, error) {
	if len(fc.CRS) == 0 {
		return WGS84(), nil
	}
	properties, ok := fc.CRS["properties"].(map[string]interface{})
	if !ok {
		return CRS{}, errors.Wrap(ErrInvalidCRSAuthority, "Member 'crs' has no properties")
	}
	name, ok := properties["name"].(string)
	if !ok {
		return CRS{}, errors.Wrap(ErrInvalidCRSAuthority, "Member 'crs' has no name")
	}
	if name == "urn:ogc:def:crs:OGC:1.3:CRS84" || name == "urn:ogc:def:crs:OGC::CRS84" {
		return WGS84(), nil
	}
	return ParseCRS(name)
}

// setCRSOfFeatureCollection writes legacy "crs" member for everything but EPSG:4326
func setCRSOfFeatureCollection(fc *geojson.FeatureCollection, crs CRS) {
	if crs.Equal(WGS84()) || crs.Code == 0 {
		return
	}
	fc.CRS = map[string]interface{}{
		"type": "name",
		"properties": map[string]interface{}{
			"name": fmt.Sprintf("urn:ogc:def:crs:%s::%d", AUTHORITY_EPSG, crs.Code),
		},
	}
}

// WriteLinesToGeoJSON writes lines given in crs as LineString features
func WriteLinesToGeoJSON(lines []orb.LineString, crs CRS, fname string) error {
	fc := geojson.NewFeatureCollection()
	setCRSOfFeatureCollection(fc, crs)
	for i, line := range lines {
		feature := geojson.NewLineStringFeature(lineToCoordinates(line))
		feature.SetProperty("id", i)
		fc.AddFeature(feature)
	}
	return writeFeatureCollection(fc, fname)
}

// ExportToGeoJSON writes edges of the graph as LineString features with their attributes
func (graph *Graph) ExportToGeoJSON(fname string) error {
	fc := geojson.NewFeatureCollection()
	setCRSOfFeatureCollection(fc, graph.CRS)
	for i, edge := range graph.Edges() {
		feature := geojson.NewLineStringFeature(lineToCoordinates(edge.Geom))
		for key, value := range edge.Data {
			feature.SetProperty(key, value.Interface())
		}
		feature.SetProperty("id", i)
		feature.SetProperty("source_node", int64(edge.Source))
		feature.SetProperty("target_node", int64(edge.Target))
		fc.AddFeature(feature)
	}
	return writeFeatureCollection(fc, fname)
}

// WriteTopoNodesToGeoJSON writes samples as Point features with "id", "azimuth", "matched" and "match_distance" properties
func WriteTopoNodesToGeoJSON(nodes []TopoNode, crs CRS, fname string) error {
	fc := geojson.NewFeatureCollection()
	setCRSOfFeatureCollection(fc, crs)
	for _, node := range nodes {
		feature := geojson.NewPointFeature([]float64{node.Geom.X(), node.Geom.Y()})
		feature.SetProperty("id", node.ID)
		feature.SetProperty("azimuth", node.Azimuth)
		feature.SetProperty("matched", node.Matched)
		if node.MatchDistance != nil {
			feature.SetProperty("match_distance", *node.MatchDistance)
		} else {
			feature.SetProperty("match_distance", nil)
		}
		fc.AddFeature(feature)
	}
	return writeFeatureCollection(fc, fname)
}

func writeFeatureCollection(fc *geojson.FeatureCollection, fname string) error {
	bytes, err := fc.MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "Can't convert features to GeoJSON")
	}
	err = os.WriteFile(fname, bytes, 0644)
	if err != nil {
		return errors.Wrap(err, "Can't write file")
	}
	return nil
}

func lineToCoordinates(line orb.LineString) [][]float64 {
	coordinates := make([][]float64, len(line))
	for i := range line {
		coordinates[i] = []float64{line[i].X(), line[i].Y()}
	}
	return coordinates
}
