package roadtopo

import (
	"os"
	"runtime"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config describes a single evaluation run of the command line tool
type Config struct {
	ProposalGeofilePath string            `yaml:"proposal_geofile_path"`
	GroundTruth         GroundTruthConfig `yaml:"ground_truth"`
	TopoParams          TopoParams        `yaml:"topo_params"`
	DataDir             string            `yaml:"data_dir"`
	Workers             int               `yaml:"workers"`
	SnapTolerance       float64           `yaml:"snap_tolerance"`
	Datum               *string           `yaml:"datum"`
	// NetworkType is one of "auto" (default), "bike" or "walk"
	NetworkType string `yaml:"network_type"`
	// RoadTags are accepted "highway" values of OSM ways. They take precedence over NetworkType.
	RoadTags []string `yaml:"road_tags"`
}

// GroundTruthConfig must have exactly one source
type GroundTruthConfig struct {
	Geofile *GeofileSource `yaml:"geofile"`
	OSM     *OSMSource     `yaml:"osm"`
}

type GeofileSource struct {
	Filepath string `yaml:"filepath"`
}

// OSMSource is either local OSM file or a bounding box to download
type OSMSource struct {
	Filepath    string       `yaml:"filepath"`
	BoundingBox *BoundingBox `yaml:"bounding_box"`
}

// LoadConfig reads YAML file and validates it
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.Wrap(err, "Can't read config file")
	}
	config := &Config{}
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, errors.Wrap(err, "Can't parse config file")
	}
	err = config.Validate()
	if err != nil {
		return nil, errors.Wrap(err, "Invalid config")
	}
	return config, nil
}

// Validate checks required fields and fills defaults
func (config *Config) Validate() error {
	if config.ProposalGeofilePath == "" {
		return errors.Wrap(ErrInvalidParameter, "Field 'proposal_geofile_path' is required")
	}
	if config.DataDir == "" {
		return errors.Wrap(ErrInvalidParameter, "Field 'data_dir' is required")
	}
	if !(config.TopoParams.ResamplingDistance > 0) {
		return errors.Wrapf(ErrInvalidParameter, "Field 'topo_params.resampling_distance' should be positive, got %f", config.TopoParams.ResamplingDistance)
	}
	if !(config.TopoParams.HoleRadius >= 0) {
		return errors.Wrapf(ErrInvalidParameter, "Field 'topo_params.hole_radius' should be non-negative, got %f", config.TopoParams.HoleRadius)
	}
	if config.SnapTolerance < 0 {
		return errors.Wrapf(ErrInvalidParameter, "Field 'snap_tolerance' should be non-negative, got %f", config.SnapTolerance)
	}
	ground := config.GroundTruth
	switch {
	case ground.Geofile != nil && ground.OSM != nil:
		return errors.Wrap(ErrInvalidParameter, "Only one of 'ground_truth.geofile' and 'ground_truth.osm' is allowed")
	case ground.Geofile != nil:
		if ground.Geofile.Filepath == "" {
			return errors.Wrap(ErrInvalidParameter, "Field 'ground_truth.geofile.filepath' is required")
		}
	case ground.OSM != nil:
		if (ground.OSM.Filepath == "") == (ground.OSM.BoundingBox == nil) {
			return errors.Wrap(ErrInvalidParameter, "Exactly one of 'ground_truth.osm.filepath' and 'ground_truth.osm.bounding_box' is required")
		}
		if ground.OSM.BoundingBox != nil {
			if err := ground.OSM.BoundingBox.Validate(); err != nil {
				return err
			}
		}
	default:
		return errors.Wrap(ErrInvalidParameter, "Field 'ground_truth' should have either 'geofile' or 'osm'")
	}
	if config.NetworkType == "" {
		config.NetworkType = NETWORK_AUTO.String()
	}
	if _, err := ParseNetworkType(config.NetworkType); err != nil {
		return err
	}
	for _, tag := range config.RoadTags {
		if _, err := ParseHighwayType(tag); err != nil {
			return err
		}
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	return nil
}

// DatumOrDefault returns configured datum of UTM zones, "WGS84" when not set
func (config *Config) DatumOrDefault() string {
	if config.Datum == nil {
		return DEFAULT_DATUM
	}
	return *config.Datum
}

// RoadFilter returns filter for OSM ways. Config must be validated.
func (config *Config) RoadFilter() *RoadFilter {
	if len(config.RoadTags) == 0 {
		networkType, err := ParseNetworkType(config.NetworkType)
		if err != nil {
			return DefaultRoadFilter()
		}
		return RoadFilterForNetwork(networkType)
	}
	return &RoadFilter{
		EntityName: "highway",
		Tags:       config.RoadTags,
	}
}
