package roadtopo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// EpsgCode is a numeric code in the EPSG registry
type EpsgCode uint32

const (
	AUTHORITY_EPSG = "EPSG"
)

type CRSKind uint16

const (
	CRS_GEOGRAPHIC = CRSKind(iota + 1)
	CRS_PROJECTED
)

func (iotaIdx CRSKind) String() string {
	return [...]string{"geographic", "projected"}[iotaIdx-1]
}

// CRS describes a coordinate reference system known to a Registry
type CRS struct {
	Authority string
	Code      EpsgCode
	Name      string
	Kind      CRSKind
	// AreaOfUse is expressed in WGS 84 degrees (X = lon, Y = lat)
	AreaOfUse orb.Bound
}

func (crs CRS) IsGeographic() bool {
	return crs.Kind == CRS_GEOGRAPHIC
}

// IsProjected reports whether coordinates are in linear units
func (crs CRS) IsProjected() bool {
	return crs.Kind == CRS_PROJECTED
}

// AuthorityCode returns numeric EPSG code of the CRS
func (crs CRS) AuthorityCode() (EpsgCode, error) {
	if crs.Authority != AUTHORITY_EPSG || crs.Code == 0 {
		return 0, errors.Wrapf(ErrInvalidCRSAuthority, "CRS '%s' has no EPSG code", crs.Name)
	}
	return crs.Code, nil
}

// Equal compares authority codes
func (crs CRS) Equal(other CRS) bool {
	return crs.Authority == other.Authority && crs.Code == other.Code
}

func (crs CRS) String() string {
	if crs.Code == 0 {
		return crs.Name
	}
	return fmt.Sprintf("%s (%s)", EPSGAuthorityString(crs.Code), crs.Name)
}

// EPSGAuthorityString formats code as "EPSG:<code>"
func EPSGAuthorityString(code EpsgCode) string {
	return fmt.Sprintf("%s:%d", AUTHORITY_EPSG, code)
}

// ParseAuthorityString extracts EPSG code from strings like "EPSG:32654",
// "epsg:4326" or "urn:ogc:def:crs:EPSG::32654"
func ParseAuthorityString(str string) (EpsgCode, error) {
	str = strings.TrimSpace(str)
	idx := strings.LastIndex(str, ":")
	if idx < 0 {
		return 0, errors.Wrapf(ErrInvalidCRSAuthority, "Can't find authority code in '%s'", str)
	}
	if !strings.Contains(strings.ToUpper(str[:idx]), AUTHORITY_EPSG) {
		return 0, errors.Wrapf(ErrInvalidCRSAuthority, "Authority of '%s' is not EPSG", str)
	}
	code, err := strconv.ParseUint(str[idx+1:], 10, 32)
	if err != nil || code == 0 {
		return 0, errors.Wrapf(ErrInvalidCRSAuthority, "Can't parse authority code in '%s'", str)
	}
	return EpsgCode(code), nil
}
