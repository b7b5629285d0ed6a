package roadtopo

/*
#cgo pkg-config: proj
#include <stdlib.h>
#include <proj.h>
*/
import "C"

import (
	"math"
	"sort"
	"strconv"
	"sync"
	"unsafe"

	"github.com/pkg/errors"
)

// ProjDatabase is a Registry backed by EPSG dataset of PROJ database (proj.db).
// Lookups are cached. It is safe for concurrent use.
type ProjDatabase struct {
	mu    sync.Mutex
	ctx   *C.PJ_CONTEXT
	cache map[EpsgCode]CRS
}

func NewProjDatabase() *ProjDatabase {
	ctx := C.proj_context_create()
	// Unknown codes are reported as errors, not on stderr
	C.proj_log_level(ctx, C.PJ_LOG_NONE)
	return &ProjDatabase{
		ctx:   ctx,
		cache: make(map[EpsgCode]CRS),
	}
}

// Close releases PROJ context. Database must not be used afterwards.
func (db *ProjDatabase) Close() {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.ctx != nil {
		C.proj_context_destroy(db.ctx)
		db.ctx = nil
	}
}

func (db *ProjDatabase) Lookup(code EpsgCode) (CRS, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if crs, ok := db.cache[code]; ok {
		return crs, nil
	}
	if db.ctx == nil {
		return CRS{}, errors.Wrap(ErrInvalidCRSAuthority, "PROJ database is closed")
	}

	authName := C.CString(AUTHORITY_EPSG)
	defer C.free(unsafe.Pointer(authName))
	codeStr := C.CString(strconv.FormatUint(uint64(code), 10))
	defer C.free(unsafe.Pointer(codeStr))

	pj := C.proj_create_from_database(db.ctx, authName, codeStr, C.PJ_CATEGORY_CRS, 0, nil)
	if pj == nil {
		return CRS{}, errors.Wrapf(ErrInvalidCRSAuthority, "Unknown CRS '%s'", EPSGAuthorityString(code))
	}
	defer C.proj_destroy(pj)

	kind, ok := crsKindOfProjType(C.proj_get_type(pj))
	if !ok {
		return CRS{}, errors.Wrapf(ErrInvalidCRSAuthority, "CRS '%s' is neither geographic nor projected", EPSGAuthorityString(code))
	}
	crs := CRS{
		Authority: AUTHORITY_EPSG,
		Code:      code,
		Name:      C.GoString(C.proj_get_name(pj)),
		Kind:      kind,
		AreaOfUse: worldBound,
	}
	var west, south, east, north C.double
	if C.proj_get_area_of_use(db.ctx, pj, &west, &south, &east, &north, nil) != 0 {
		crs.AreaOfUse = areaOfUseBound(float64(west), float64(south), float64(east), float64(north))
	}
	db.cache[code] = crs
	return crs, nil
}

// ProjectedCRSContaining lists non-deprecated projected EPSG CRSs whose area of use contains the point
func (db *ProjDatabase) ProjectedCRSContaining(lon, lat float64) []CRS {
	result := make([]CRS, 0)
	if math.IsNaN(lon) || math.IsNaN(lat) {
		return result
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.ctx == nil {
		return result
	}

	authName := C.CString(AUTHORITY_EPSG)
	defer C.free(unsafe.Pointer(authName))
	projectedType := (*C.PJ_TYPE)(C.malloc(C.size_t(unsafe.Sizeof(C.PJ_TYPE(0)))))
	defer C.free(unsafe.Pointer(projectedType))
	*projectedType = C.PJ_TYPE_PROJECTED_CRS

	params := C.proj_get_crs_list_parameters_create()
	defer C.proj_get_crs_list_parameters_destroy(params)
	params.types = projectedType
	params.typesCount = 1
	params.crs_area_of_use_contains_bbox = 1
	params.bbox_valid = 1
	params.west_lon_degree = C.double(lon)
	params.south_lat_degree = C.double(lat)
	params.east_lon_degree = C.double(lon)
	params.north_lat_degree = C.double(lat)
	params.allow_deprecated = 0

	var count C.int
	infos := C.proj_get_crs_info_list_from_database(db.ctx, authName, params, &count)
	if infos == nil {
		return result
	}
	defer C.proj_crs_info_list_destroy(infos)

	for _, info := range unsafe.Slice(infos, int(count)) {
		code, err := strconv.ParseUint(C.GoString(info.code), 10, 32)
		if err != nil {
			continue
		}
		crs := CRS{
			Authority: AUTHORITY_EPSG,
			Code:      EpsgCode(code),
			Name:      C.GoString(info.name),
			Kind:      CRS_PROJECTED,
			AreaOfUse: worldBound,
		}
		if info.bbox_valid != 0 {
			crs.AreaOfUse = areaOfUseBound(float64(info.west_lon_degree), float64(info.south_lat_degree), float64(info.east_lon_degree), float64(info.north_lat_degree))
		}
		result = append(result, crs)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Code < result[j].Code
	})
	return result
}

func crsKindOfProjType(projType C.PJ_TYPE) (CRSKind, bool) {
	switch projType {
	case C.PJ_TYPE_GEOGRAPHIC_CRS, C.PJ_TYPE_GEOGRAPHIC_2D_CRS, C.PJ_TYPE_GEOGRAPHIC_3D_CRS:
		return CRS_GEOGRAPHIC, true
	case C.PJ_TYPE_PROJECTED_CRS:
		return CRS_PROJECTED, true
	default:
		return 0, false
	}
}
