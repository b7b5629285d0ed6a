package roadtopo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shiftTransforms moves points by a fixed offset and fails on a given x coordinate
type shiftTransforms struct {
	dx, dy float64
	failX  *float64
}

func (provider shiftTransforms) NewTransform(from, to EpsgCode) (Transformer, error) {
	return func(x, y float64) (float64, float64, error) {
		if provider.failX != nil && x == *provider.failX {
			return 0, 0, errors.New("transform failed")
		}
		return x + provider.dx, y + provider.dy, nil
	}, nil
}

func tokyoGraph(t *testing.T) *Graph {
	t.Helper()
	graph, err := BuildGraphFromLines([]orb.LineString{
		{{139.69, 35.68}, {139.70, 35.69}, {139.71, 35.68}},
		{{139.71, 35.68}, {139.72, 35.67}},
	}, WithCRS(WGS84()))
	require.NoError(t, err)
	return graph
}

func TestProjectGraphIdentity(t *testing.T) {
	utm, err := ParseCRS("EPSG:32654")
	require.NoError(t, err)
	lines := []orb.LineString{{{380000.5, 3950000.25}, {380010, 3950020}, {380100, 3950000}}}
	graph, err := BuildGraphFromLines(lines, WithCRS(utm))
	require.NoError(t, err)

	err = NewUnifier().ProjectGraph(graph, utm)
	require.NoError(t, err)
	assert.Equal(t, lines[0], graph.Edges()[0].Geom)
	assert.True(t, graph.CRS.Equal(utm))
}

func TestProjectGraphCentralMeridian(t *testing.T) {
	graph, err := BuildGraphFromLines([]orb.LineString{{{141, 0}, {141, 1}}}, WithCRS(WGS84()))
	require.NoError(t, err)
	utm, err := ParseCRS("EPSG:32654")
	require.NoError(t, err)

	err = NewUnifier().ProjectGraph(graph, utm)
	require.NoError(t, err)
	geom := graph.Edges()[0].Geom
	assert.InDelta(t, 500000.0, geom[0].X(), 1e-3)
	assert.InDelta(t, 0.0, geom[0].Y(), 1e-3)
	assert.InDelta(t, 500000.0, geom[1].X(), 1e-3)
	assert.InDelta(t, 0.9996*meridianArc(1.0), geom[1].Y(), 1e-3)
	assert.True(t, graph.CRS.Equal(utm))
	assertEndpointsMatchNodes(t, graph)
}

func TestProjectGraphRoundTrip(t *testing.T) {
	graph := tokyoGraph(t)
	original := make([]orb.LineString, 0, graph.EdgeCount())
	for _, line := range graph.EdgeGeometries() {
		original = append(original, line.Clone())
	}
	utm, err := ParseCRS("EPSG:32654")
	require.NoError(t, err)

	unifier := NewUnifier()
	require.NoError(t, unifier.ProjectGraph(graph, utm))
	assert.Greater(t, graph.Edges()[0].Geom[0].X(), 100000.0)
	require.NoError(t, unifier.ProjectGraph(graph, WGS84()))
	for i, line := range graph.EdgeGeometries() {
		require.Len(t, line, len(original[i]))
		for j := range line {
			assert.InDelta(t, original[i][j].X(), line[j].X(), 1e-7)
			assert.InDelta(t, original[i][j].Y(), line[j].Y(), 1e-7)
		}
	}
	assertEndpointsMatchNodes(t, graph)
}

func TestEnsureCommonProjectedCRSBothGeographic(t *testing.T) {
	graphA := tokyoGraph(t)
	graphB := tokyoGraph(t)
	err := EnsureCommonCRS(graphA, graphB)
	require.NoError(t, err)
	assert.Equal(t, EpsgCode(32654), graphA.CRS.Code)
	assert.Equal(t, EpsgCode(32654), graphB.CRS.Code)
	assert.True(t, graphA.CRS.IsProjected())
	assertEndpointsMatchNodes(t, graphA)
	assertEndpointsMatchNodes(t, graphB)
}

func TestEnsureCommonProjectedCRSDatum(t *testing.T) {
	graphA := tokyoGraph(t)
	graphB := tokyoGraph(t)
	err := NewUnifier(WithDatum("Tokyo"), WithTransformProvider(shiftTransforms{})).EnsureCommonProjectedCRS(graphA, graphB)
	require.NoError(t, err)
	assert.Equal(t, EpsgCode(3095), graphA.CRS.Code)
	assert.Equal(t, EpsgCode(3095), graphB.CRS.Code)

	err = NewUnifier(WithDatum("NAD83")).EnsureCommonProjectedCRS(tokyoGraph(t), tokyoGraph(t))
	assert.True(t, errors.Is(err, ErrNoProjectedCRSFound))
}

func TestEnsureCommonProjectedCRSFirstProjected(t *testing.T) {
	utm, err := ParseCRS("EPSG:32654")
	require.NoError(t, err)
	projected, err := BuildGraphFromLines([]orb.LineString{{{380000, 3950000}, {380100, 3950000}}}, WithCRS(utm))
	require.NoError(t, err)
	geographic := tokyoGraph(t)

	unifier := NewUnifier(WithTransformProvider(shiftTransforms{dx: 1000, dy: 2000}))
	err = unifier.EnsureCommonProjectedCRS(projected, geographic)
	require.NoError(t, err)
	assert.True(t, geographic.CRS.Equal(utm))
	assert.Equal(t, orb.Point{380000, 3950000}, projected.Edges()[0].Geom[0])
	assert.InDelta(t, 1139.69, geographic.Edges()[0].Geom[0].X(), 1e-9)
	assert.InDelta(t, 2035.68, geographic.Edges()[0].Geom[0].Y(), 1e-9)
	assertEndpointsMatchNodes(t, geographic)

	// Same CRS: nothing to do
	other, err := BuildGraphFromLines([]orb.LineString{{{1, 1}, {2, 2}}}, WithCRS(utm))
	require.NoError(t, err)
	require.NoError(t, unifier.EnsureCommonProjectedCRS(projected, other))
	assert.Equal(t, orb.Point{1, 1}, other.Edges()[0].Geom[0])

	local, err := BuildGraphFromLines([]orb.LineString{{{1, 1}, {2, 2}}}, WithCRS(CRS{Name: "local", Kind: CRS_PROJECTED}))
	require.NoError(t, err)
	err = unifier.EnsureCommonProjectedCRS(projected, local)
	assert.True(t, errors.Is(err, ErrInvalidCRSAuthority))
}

func TestEnsureCommonProjectedCRSErrors(t *testing.T) {
	empty := NewGraph(WGS84(), false)
	err := EnsureCommonCRS(empty, tokyoGraph(t))
	assert.True(t, errors.Is(err, ErrNoProjectedCRSFound))

	polar, err := BuildGraphFromLines([]orb.LineString{{{10, 85}, {11, 86}}}, WithCRS(WGS84()))
	require.NoError(t, err)
	err = EnsureCommonCRS(polar, tokyoGraph(t))
	assert.True(t, errors.Is(err, ErrNoProjectedCRSFound))

	unknown, err := BuildGraphFromLines([]orb.LineString{{{10, 50}, {11, 51}}}, WithCRS(CRS{Name: "unknown"}))
	require.NoError(t, err)
	err = EnsureCommonCRS(unknown, tokyoGraph(t))
	assert.True(t, errors.Is(err, ErrNoProjectedCRSFound))
}

func TestProjectGraphFailureKeepsGraph(t *testing.T) {
	graph := tokyoGraph(t)
	failX := 139.70
	utm, err := ParseCRS("EPSG:32654")
	require.NoError(t, err)

	err = NewUnifier(WithTransformProvider(shiftTransforms{dx: 1, failX: &failX})).ProjectGraph(graph, utm)
	require.Error(t, err)
	assert.True(t, graph.CRS.Equal(WGS84()))
	assert.Equal(t, orb.Point{139.69, 35.68}, graph.Edges()[0].Geom[0])
	node, ok := graph.Node(0)
	require.True(t, ok)
	assert.Equal(t, orb.Point{139.69, 35.68}, node.Geom)
}

func TestProjTransformProvider(t *testing.T) {
	provider := NewProjTransformProvider()
	transform, err := provider.NewTransform(4326, 4326)
	require.NoError(t, err)
	x, y, err := transform(139.69, 35.68)
	require.NoError(t, err)
	assert.Equal(t, 139.69, x)
	assert.Equal(t, 35.68, y)

	_, err = provider.NewTransform(4326, 999999)
	assert.True(t, errors.Is(err, ErrInvalidCRSAuthority))

	first, err := provider.NewTransform(4326, 32654)
	require.NoError(t, err)
	second, err := provider.NewTransform(4326, 32654)
	require.NoError(t, err)
	x1, y1, err := first(139.69, 35.68)
	require.NoError(t, err)
	x2, y2, err := second(139.69, 35.68)
	require.NoError(t, err)
	assert.Equal(t, x1, x2)
	assert.Equal(t, y1, y2)
}

func TestProjTransformProviderUTMAccuracy(t *testing.T) {
	tests := []struct {
		lon   float64
		lat   float64
		code  EpsgCode
		zone  int
		south bool
	}{
		{141, 1, 32654, 54, false},
		{139.69, 35.68, 32654, 54, false},
		{138.5, 45, 32654, 54, false},
		{143.9, 20, 32654, 54, false},
		{-98.26, 35.58, 32614, 14, false},
		{151.2, -33.87, 32756, 56, true},
	}
	provider := NewProjTransformProvider()
	for _, test := range tests {
		transform, err := provider.NewTransform(4326, test.code)
		require.NoError(t, err)
		easting, northing, err := transform(test.lon, test.lat)
		require.NoError(t, err)
		expectedEasting, expectedNorthing := krugerUTM(test.lon, test.lat, test.zone, test.south)
		assert.InDelta(t, expectedEasting, easting, 1e-3, "lon %f lat %f", test.lon, test.lat)
		assert.InDelta(t, expectedNorthing, northing, 1e-3, "lon %f lat %f", test.lon, test.lat)
	}
}

func TestEnsureCommonProjectedCRSNationalGrid(t *testing.T) {
	grid, err := ParseCRS("EPSG:27700")
	require.NoError(t, err)
	projected, err := BuildGraphFromLines([]orb.LineString{{{530000, 180000}, {530100, 180000}}}, WithCRS(grid))
	require.NoError(t, err)
	london, err := BuildGraphFromLines([]orb.LineString{{{-0.1276, 51.5072}, {-0.1270, 51.5080}}}, WithCRS(WGS84()))
	require.NoError(t, err)

	require.NoError(t, EnsureCommonCRS(projected, london))
	assert.True(t, london.CRS.Equal(grid))
	assert.Equal(t, orb.Point{530000, 180000}, projected.Edges()[0].Geom[0])
	// Charing Cross is about 530000 E, 180400 N
	start := london.Edges()[0].Geom[0]
	assert.InDelta(t, 530000, start.X(), 500)
	assert.InDelta(t, 180400, start.Y(), 500)
	assertEndpointsMatchNodes(t, london)
}

// meridianArc is a length of WGS 84 meridian from the equator to given latitude (degrees)
func meridianArc(lat float64) float64 {
	a := 6378137.0
	f := 1 / 298.257223563
	e2 := f * (2 - f)
	e4 := e2 * e2
	e6 := e4 * e2
	phi := lat * math.Pi / 180
	return a * ((1-e2/4-3*e4/64-5*e6/256)*phi -
		(3*e2/8+3*e4/32+45*e6/1024)*math.Sin(2*phi) +
		(15*e4/256+45*e6/1024)*math.Sin(4*phi) -
		(35*e6/3072)*math.Sin(6*phi))
}

// krugerUTM projects WGS 84 lon/lat (degrees) to UTM with Krüger series in the third flattening
func krugerUTM(lon, lat float64, zone int, south bool) (float64, float64) {
	a := 6378137.0
	f := 1 / 298.257223563
	k0 := 0.9996
	n := f / (2 - f)
	bigA := a / (1 + n) * (1 + n*n/4 + n*n*n*n/64)
	alpha := []float64{
		n/2 - 2*n*n/3 + 5*n*n*n/16,
		13*n*n/48 - 3*n*n*n/5,
		61 * n * n * n / 240,
	}
	phi := lat * math.Pi / 180
	lambda := (lon - float64(6*zone-183)) * math.Pi / 180
	e := 2 * math.Sqrt(n) / (1 + n)
	tau := math.Sinh(math.Atanh(math.Sin(phi)) - e*math.Atanh(e*math.Sin(phi)))
	xiPrime := math.Atan2(tau, math.Cos(lambda))
	etaPrime := math.Atanh(math.Sin(lambda) / math.Sqrt(1+tau*tau))
	xi, eta := xiPrime, etaPrime
	for j, coefficient := range alpha {
		k := 2 * float64(j+1)
		xi += coefficient * math.Sin(k*xiPrime) * math.Cosh(k*etaPrime)
		eta += coefficient * math.Cos(k*xiPrime) * math.Sinh(k*etaPrime)
	}
	northing := k0 * bigA * xi
	if south {
		northing += 10000000
	}
	return 500000 + k0*bigA*eta, northing
}
