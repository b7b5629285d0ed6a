package roadtopo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// getLength returns length for given line (assuming points of the line are Euclidean)
func getLength(line orb.LineString) float64 {
	return planar.Length(line)
}

// pointOnSegmentByFraction returns a point on given segment. Fraction 0 gives p, fraction 1 gives q exactly.
func pointOnSegmentByFraction(p, q orb.Point, fraction float64) orb.Point {
	if fraction == 1 {
		return q
	}
	return orb.Point{
		(1-fraction)*p.X() + (fraction * q.X()),
		(1-fraction)*p.Y() + (fraction * q.Y()),
	}
}

// clampFraction keeps fraction in [0; 1]
func clampFraction(fraction float64) float64 {
	if fraction < 0 {
		return 0
	}
	if fraction > 1 {
		return 1
	}
	return fraction
}
