package roadtopo

import (
	"math"
	"sync"

	"github.com/pkg/errors"
	proj "github.com/twpayne/go-proj/v10"
)

// Transformer converts single coordinate between two CRSs. Implementations must be safe for
// concurrent use.
type Transformer func(x, y float64) (float64, float64, error)

// TransformProvider creates transformers keyed by pair of EPSG codes
type TransformProvider interface {
	NewTransform(from, to EpsgCode) (Transformer, error)
}

type transformKey struct {
	from EpsgCode
	to   EpsgCode
}

// ProjTransformProvider builds PROJ transformations between EPSG codes and caches them.
// Coordinates are in lon/lat (degrees) or easting/northing order whatever the authority axis order is.
type ProjTransformProvider struct {
	mu    sync.Mutex
	cache map[transformKey]Transformer
}

func NewProjTransformProvider() *ProjTransformProvider {
	return &ProjTransformProvider{
		cache: make(map[transformKey]Transformer),
	}
}

func identityTransform(x, y float64) (float64, float64, error) {
	return x, y, nil
}

func (provider *ProjTransformProvider) NewTransform(from, to EpsgCode) (Transformer, error) {
	if from == to {
		return identityTransform, nil
	}
	key := transformKey{from: from, to: to}
	provider.mu.Lock()
	defer provider.mu.Unlock()
	if transformer, ok := provider.cache[key]; ok {
		return transformer, nil
	}
	pj, err := proj.NewCRSToCRS(EPSGAuthorityString(from), EPSGAuthorityString(to), nil)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidCRSAuthority, "Can't create transform %s -> %s: %s", EPSGAuthorityString(from), EPSGAuthorityString(to), err.Error())
	}
	normalized, err := pj.NormalizeForVisualization()
	if err != nil {
		return nil, errors.Wrapf(err, "Can't normalize axis order of transform %s -> %s", EPSGAuthorityString(from), EPSGAuthorityString(to))
	}
	transformer := newProjTransformer(normalized)
	provider.cache[key] = transformer
	return transformer, nil
}

// newProjTransformer serializes calls: a PJ object must not be used by several goroutines at once
func newProjTransformer(pj *proj.PJ) Transformer {
	mu := &sync.Mutex{}
	return func(x, y float64) (float64, float64, error) {
		mu.Lock()
		defer mu.Unlock()
		coord, err := pj.Forward(proj.Coord{x, y, 0, 0})
		if err != nil {
			return x, y, err
		}
		if math.IsNaN(coord[0]) || math.IsNaN(coord[1]) || math.IsInf(coord[0], 0) || math.IsInf(coord[1], 0) {
			return x, y, errors.Errorf("Point (%f, %f) is outside of transform domain", x, y)
		}
		return coord[0], coord[1], nil
	}
}
