package roadtopo

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedRegistry returns its list for every point
type fixedRegistry []CRS

func (registry fixedRegistry) Lookup(code EpsgCode) (CRS, error) {
	for _, crs := range registry {
		if crs.Code == code {
			return crs, nil
		}
	}
	return CRS{}, errors.Wrapf(ErrInvalidCRSAuthority, "Unknown CRS '%s'", EPSGAuthorityString(code))
}

func (registry fixedRegistry) ProjectedCRSContaining(lon, lat float64) []CRS {
	return registry
}

func TestQueryUTMZoneFilters(t *testing.T) {
	registry := fixedRegistry{
		{Authority: AUTHORITY_EPSG, Code: 3095, Name: "Tokyo / UTM zone 54N", Kind: CRS_PROJECTED},
		{Authority: AUTHORITY_EPSG, Code: 6677, Name: "JGD2011 / Japan Plane Rectangular CS IX", Kind: CRS_PROJECTED},
		{Authority: AUTHORITY_EPSG, Code: 32654, Name: "WGS 84 / UTM zone 54N", Kind: CRS_PROJECTED},
		{Authority: AUTHORITY_EPSG, Code: 32254, Name: "WGS 72 / UTM zone 54N", Kind: CRS_PROJECTED},
	}
	assert.Equal(t, []EpsgCode{3095, 32654, 32254}, QueryUTMZone(registry, 139.69, 35.68, ""))
	assert.Equal(t, []EpsgCode{32654}, QueryUTMZone(registry, 139.69, 35.68, "WGS84"))
	assert.Equal(t, []EpsgCode{32254}, QueryUTMZone(registry, 139.69, 35.68, "WGS72"))
	assert.Equal(t, []EpsgCode{}, QueryUTMZone(registry, 139.69, 35.68, "JGD2011"))
	assert.Equal(t, []EpsgCode{}, QueryUTMZone(fixedRegistry{}, 139.69, 35.68, ""))
}

func TestQueryUTMZone(t *testing.T) {
	tests := []struct {
		name     string
		lon      float64
		lat      float64
		datum    string
		expected []EpsgCode
	}{
		{"Tokyo in WGS84", 139.69, 35.68, "WGS84", []EpsgCode{32654}},
		{"Tokyo in Tokyo datum", 139.69, 35.68, "Tokyo", []EpsgCode{3095}},
		{"Tokyo in NAD83", 139.69, 35.68, "NAD83", []EpsgCode{}},
		{"Oklahoma in NAD83", -98.26, 35.58, "NAD83", []EpsgCode{26914}},
		{"Oklahoma in WGS84", -98.26, 35.58, "WGS84", []EpsgCode{32614}},
		{"Southern hemisphere", 151.2, -33.87, "WGS84", []EpsgCode{32756}},
		{"Datum is compared exactly", 139.69, 35.68, "WGS 84", []EpsgCode{}},
		{"Beyond UTM coverage", 0, 85, "WGS84", []EpsgCode{}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			codes := QueryUTMZone(EPSGRegistry(), test.lon, test.lat, test.datum)
			assert.Equal(t, test.expected, codes)
		})
	}

	t.Run("Tokyo in any datum", func(t *testing.T) {
		codes := QueryUTMZone(EPSGRegistry(), 139.69, 35.68, "")
		assert.Subset(t, codes, []EpsgCode{3095, 3100, 6691, 32654})
		for _, code := range codes {
			crs, err := EPSGRegistry().Lookup(code)
			require.NoError(t, err)
			assert.Contains(t, crs.Name, "UTM zone 54N")
		}
	})
}

func TestUTMZoneNumberAndLetter(t *testing.T) {
	tests := []struct {
		lon    float64
		lat    float64
		number int
		letter byte
	}{
		{139.69, 35.68, 54, 'S'},
		{-98.26, 35.58, 14, 'S'},
		{-180, -80, 1, 'C'},
		{180, 0, 1, 'N'},
		{0, -0.5, 31, 'M'},
		{5, 75, 31, 'X'},
		{5, 84, 31, 'X'},
	}
	for _, test := range tests {
		number, letter, err := UTMZoneNumberAndLetter(test.lon, test.lat)
		require.NoError(t, err)
		assert.Equal(t, test.number, number, "lon %f lat %f", test.lon, test.lat)
		assert.Equal(t, string(test.letter), string(letter), "lon %f lat %f", test.lon, test.lat)
	}

	_, _, err := UTMZoneNumberAndLetter(0, 84.5)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
	_, _, err = UTMZoneNumberAndLetter(0, -81)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
}

func TestBuildUTMProjDefinition(t *testing.T) {
	definition, err := BuildUTMProjDefinition(54, 'S', "WGS84")
	require.NoError(t, err)
	assert.Equal(t, "+proj=utm +zone=54 +datum=WGS84 +units=m +no_defs", definition)

	// Band N starts at the equator, but it is still treated as southern
	definition, err = BuildUTMProjDefinition(31, 'N', "WGS84")
	require.NoError(t, err)
	assert.Equal(t, "+proj=utm +zone=31 +south +datum=WGS84 +units=m +no_defs", definition)

	definition, err = BuildUTMProjDefinition(56, 'H', "WGS84")
	require.NoError(t, err)
	assert.Equal(t, "+proj=utm +zone=56 +south +datum=WGS84 +units=m +no_defs", definition)

	definition, err = BuildUTMProjDefinition(31, 'P', "WGS84")
	require.NoError(t, err)
	assert.Equal(t, "+proj=utm +zone=31 +datum=WGS84 +units=m +no_defs", definition)

	_, err = BuildUTMProjDefinition(31, 'Y', "WGS84")
	assert.True(t, errors.Is(err, ErrInvalidParameter))
	_, err = BuildUTMProjDefinition(0, 'S', "WGS84")
	assert.True(t, errors.Is(err, ErrInvalidParameter))
	_, err = BuildUTMProjDefinition(61, 'S', "WGS84")
	assert.True(t, errors.Is(err, ErrInvalidParameter))
}
