package roadtopo

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

const (
	// MAX_SAMPLES_PER_EDGE bounds number of step boundaries placed on a single line
	MAX_SAMPLES_PER_EDGE = 1 << 24
)

// RoadPoint is a sample placed along an edge
type RoadPoint struct {
	Geom orb.Point
	// Azimuth is the undirected heading (radians) of the segment the point was taken from
	Azimuth float64
}

func (pt RoadPoint) String() string {
	return fmt.Sprintf("X: %f | Y: %f | Azimuth: %f", pt.Geom.X(), pt.Geom.Y(), pt.Azimuth)
}

// Resample places points along line at equal steps.
//
// The step is length / floor(length / resamplingDistance), so samples cover the whole line evenly.
// Lines shorter than resamplingDistance are kept as a single segment: only the endpoints are returned.
// Otherwise one sample is placed at every step boundary, the last of them falling on the end of the line.
// The exact first and last coordinates are always the first and the last returned points.
//
// Lines with less than two points and non-positive resamplingDistance give empty result.
// More than MAX_SAMPLES_PER_EDGE step boundaries is ErrInvalidParameter.
func Resample(line orb.LineString, resamplingDistance float64) ([]RoadPoint, error) {
	if len(line) < 2 || !(resamplingDistance > 0) {
		return []RoadPoint{}, nil
	}
	first := RoadPoint{Geom: line[0], Azimuth: segmentAzimuth(line[0], line[1])}
	last := RoadPoint{Geom: line[len(line)-1], Azimuth: segmentAzimuth(line[len(line)-2], line[len(line)-1])}

	length := getLength(line)
	numParts := math.Floor(length / resamplingDistance)
	if math.IsNaN(numParts) {
		return nil, errors.Wrapf(ErrInvalidGeometry, "Length of line is %f", length)
	}
	if numParts > MAX_SAMPLES_PER_EDGE {
		return nil, errors.Wrapf(ErrInvalidParameter, "Resampling distance %g gives %g samples for line of length %f, limit is %d", resamplingDistance, numParts, length, MAX_SAMPLES_PER_EDGE)
	}
	if numParts < 1 {
		return []RoadPoint{first, last}, nil
	}
	step := length / numParts
	parts := int(numParts)

	points := make([]RoadPoint, 0, parts+2)
	points = append(points, first)

	traversed := 0.0
	k := 1
	for i := 1; i < len(line) && k <= parts; i++ {
		p, q := line[i-1], line[i]
		segmentLength := getLength(orb.LineString{p, q})
		segmentEnd := traversed + segmentLength
		isLastSegment := i == len(line)-1
		azimuth := math.NaN()
		for k <= parts {
			boundary := float64(k) * step
			// Rounding may push the final boundary slightly past the end of the line: it still belongs to the last segment
			if boundary > segmentEnd && !isLastSegment {
				break
			}
			if math.IsNaN(azimuth) {
				azimuth = segmentAzimuth(p, q)
			}
			fraction := 1.0
			if segmentLength > 0 {
				fraction = clampFraction((boundary - traversed) / segmentLength)
			}
			points = append(points, RoadPoint{Geom: pointOnSegmentByFraction(p, q, fraction), Azimuth: azimuth})
			k++
		}
		traversed = segmentEnd
	}

	points = append(points, last)
	return points, nil
}
