package roadtopo

import (
	"github.com/pkg/errors"
)

// Error kinds. Failures of graph building, CRS handling and scoring wrap one of them, so callers
// can test with errors.Is. File and network failures are wrapped as they are.
var (
	// ErrInvalidGeometry is returned when a node id is reused with a different coordinate
	// or when an edge has less than two points.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrInvalidParameter is returned for out-of-range arguments (zone letters, config values).
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNoProjectedCRSFound is returned when no UTM zone can be resolved for a geographic CRS.
	ErrNoProjectedCRSFound = errors.New("no projected CRS found")

	// ErrInvalidCRSAuthority is returned when a CRS has no usable authority code.
	ErrInvalidCRSAuthority = errors.New("invalid CRS authority")

	// ErrSpatialIndexFailure is returned when a point can't be indexed or queried.
	ErrSpatialIndexFailure = errors.New("spatial index failure")
)
