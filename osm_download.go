package roadtopo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/mmcloughlin/geohash"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

const (
	DEFAULT_OVERPASS_URL = "https://overpass-api.de/api/map"
	OVERPASS_USER_AGENT  = "roadtopo"
	bboxGeohashLength    = 8
)

// BoundingBox is an area in WGS 84 degrees
type BoundingBox struct {
	LeftLon   float64 `yaml:"left_lon"`
	RightLon  float64 `yaml:"right_lon"`
	BottomLat float64 `yaml:"bottom_lat"`
	TopLat    float64 `yaml:"top_lat"`
}

// Validate checks that the box is not empty and lies inside of WGS 84 bounds
func (bbox BoundingBox) Validate() error {
	if bbox.LeftLon < -180 || bbox.RightLon > 180 || bbox.BottomLat < -90 || bbox.TopLat > 90 {
		return errors.Wrapf(ErrInvalidParameter, "Bounding box %s is out of WGS 84 bounds", bbox)
	}
	if bbox.LeftLon >= bbox.RightLon || bbox.BottomLat >= bbox.TopLat {
		return errors.Wrapf(ErrInvalidParameter, "Bounding box %s is empty", bbox)
	}
	return nil
}

func (bbox BoundingBox) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{bbox.LeftLon, bbox.BottomLat},
		Max: orb.Point{bbox.RightLon, bbox.TopLat},
	}
}

// String returns box in Overpass order: left,bottom,right,top
func (bbox BoundingBox) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", bbox.LeftLon, bbox.BottomLat, bbox.RightLon, bbox.TopLat)
}

// FilenameForBoundingBox returns "<top left geohash>_<bottom right geohash>_osm.xml"
func FilenameForBoundingBox(bbox BoundingBox) string {
	topLeft := geohash.EncodeWithPrecision(bbox.TopLat, bbox.LeftLon, bboxGeohashLength)
	bottomRight := geohash.EncodeWithPrecision(bbox.BottomLat, bbox.RightLon, bboxGeohashLength)
	return fmt.Sprintf("%s_%s_osm.xml", topLeft, bottomRight)
}

// DownloadOSMByBoundingBox requests OSM XML of the box from Overpass "map" endpoint at baseURL
func DownloadOSMByBoundingBox(ctx context.Context, client *http.Client, baseURL string, bbox BoundingBox) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?bbox=%s", baseURL, bbox), nil)
	if err != nil {
		return nil, errors.Wrap(err, "Can't prepare request")
	}
	req.Header.Set("User-Agent", OVERPASS_USER_AGENT)
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "Can't execute request")
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "Can't read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("Overpass responded with status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// SyncOSMDataToFile downloads OSM data of the box into outputDir unless the file is there already.
// Returns path to the file.
func SyncOSMDataToFile(ctx context.Context, bbox BoundingBox, outputDir string, verbose bool) (string, error) {
	return syncOSMDataToFile(ctx, &http.Client{Timeout: 5 * time.Minute}, DEFAULT_OVERPASS_URL, bbox, outputDir, verbose)
}

func syncOSMDataToFile(ctx context.Context, client *http.Client, baseURL string, bbox BoundingBox, outputDir string, verbose bool) (string, error) {
	if err := bbox.Validate(); err != nil {
		return "", err
	}
	fname := filepath.Join(outputDir, FilenameForBoundingBox(bbox))
	if _, err := os.Stat(fname); err == nil {
		if verbose {
			fmt.Printf("Local file exists for OSM data: '%s'\n", fname)
		}
		return fname, nil
	}
	if verbose {
		fmt.Printf("Downloading OSM data for %s... ", bbox)
	}
	st := time.Now()
	data, err := DownloadOSMByBoundingBox(ctx, client, baseURL, bbox)
	if err != nil {
		return "", errors.Wrap(err, "Can't download OSM data")
	}
	err = os.MkdirAll(outputDir, 0755)
	if err != nil {
		return "", errors.Wrap(err, "Can't create output directory")
	}
	err = os.WriteFile(fname, data, 0644)
	if err != nil {
		return "", errors.Wrap(err, "Could not write OSM data to file")
	}
	if verbose {
		fmt.Printf("Done in %v\n", time.Since(st))
	}
	return fname, nil
}
