package roadtopo

import (
	"math"

	"github.com/paulmach/orb"
)

// segmentAzimuth returns undirected heading of segment p->q in radians, in (-pi/2; pi/2].
// Segment is mirrored so its x-component is non-negative, hence p->q and q->p give the same value.
// Vertical segments always give +pi/2.
func segmentAzimuth(p, q orb.Point) float64 {
	dx := q.X() - p.X()
	dy := q.Y() - p.Y()
	if dx < 0 {
		dx, dy = -dx, -dy
	}
	azimuth := math.Atan2(dy, dx)
	if azimuth == -math.Pi/2 {
		azimuth = math.Pi / 2
	}
	return azimuth
}
