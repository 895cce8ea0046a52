package geo

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// BBox is an axis-aligned lat/lon rectangle approximating a country's extent.
// Coarse plausibility only, not polygon containment.
type BBox struct {
	LatMin float64 `yaml:"lat_min" json:"lat_min"`
	LatMax float64 `yaml:"lat_max" json:"lat_max"`
	LonMin float64 `yaml:"lon_min" json:"lon_min"`
	LonMax float64 `yaml:"lon_max" json:"lon_max"`
}

// Contains reports whether the point falls inside the box (edges inclusive).
func (b BBox) Contains(lat, lon float64) bool {
	return lat >= b.LatMin && lat <= b.LatMax && lon >= b.LonMin && lon <= b.LonMax
}

// BoundsTable maps ISO 3166-1 alpha-3 country codes to approximate bounding
// boxes. Absence of an entry is a handled case (unknown_country), not an error.
type BoundsTable map[string]BBox

// DefaultBounds returns the built-in bounding boxes for the mining
// jurisdictions the dataset covers. Values are generous approximations;
// territories and minor islands are deliberately excluded where they would
// blow the box out (e.g. FRA excludes overseas departments).
func DefaultBounds() BoundsTable {
	return BoundsTable{
		"AGO": {LatMin: -18.1, LatMax: -4.3, LonMin: 11.6, LonMax: 24.1},
		"ARG": {LatMin: -55.1, LatMax: -21.8, LonMin: -73.6, LonMax: -53.6},
		"AUS": {LatMin: -43.7, LatMax: -10.0, LonMin: 112.9, LonMax: 153.7},
		"BOL": {LatMin: -22.9, LatMax: -9.6, LonMin: -69.7, LonMax: -57.4},
		"BRA": {LatMin: -33.8, LatMax: 5.3, LonMin: -73.9, LonMax: -34.7},
		"BWA": {LatMin: -26.9, LatMax: -17.7, LonMin: 19.9, LonMax: 29.4},
		"CAN": {LatMin: 41.7, LatMax: 83.1, LonMin: -141.0, LonMax: -52.6},
		"CHL": {LatMin: -56.0, LatMax: -17.5, LonMin: -75.7, LonMax: -66.4},
		"CHN": {LatMin: 18.1, LatMax: 53.6, LonMin: 73.5, LonMax: 134.8},
		"COD": {LatMin: -13.5, LatMax: 5.4, LonMin: 12.2, LonMax: 31.3},
		"COL": {LatMin: -4.2, LatMax: 12.5, LonMin: -79.0, LonMax: -66.9},
		"ESP": {LatMin: 36.0, LatMax: 43.8, LonMin: -9.3, LonMax: 3.3},
		"FIN": {LatMin: 59.8, LatMax: 70.1, LonMin: 20.5, LonMax: 31.6},
		"FRA": {LatMin: 41.3, LatMax: 51.1, LonMin: -5.1, LonMax: 9.6},
		"GBR": {LatMin: 49.9, LatMax: 60.9, LonMin: -8.6, LonMax: 1.8},
		"GHA": {LatMin: 4.7, LatMax: 11.2, LonMin: -3.3, LonMax: 1.2},
		"GIN": {LatMin: 7.2, LatMax: 12.7, LonMin: -15.1, LonMax: -7.6},
		"IDN": {LatMin: -11.0, LatMax: 6.1, LonMin: 95.0, LonMax: 141.0},
		"IND": {LatMin: 6.7, LatMax: 35.5, LonMin: 68.1, LonMax: 97.4},
		"KAZ": {LatMin: 40.6, LatMax: 55.4, LonMin: 46.5, LonMax: 87.3},
		"MEX": {LatMin: 14.5, LatMax: 32.7, LonMin: -118.4, LonMax: -86.7},
		"MLI": {LatMin: 10.2, LatMax: 25.0, LonMin: -12.2, LonMax: 4.2},
		"MNG": {LatMin: 41.6, LatMax: 52.2, LonMin: 87.7, LonMax: 119.9},
		"MOZ": {LatMin: -26.9, LatMax: -10.5, LonMin: 30.2, LonMax: 40.8},
		"NAM": {LatMin: -28.97, LatMax: -16.9, LonMin: 11.7, LonMax: 25.3},
		"NCL": {LatMin: -22.7, LatMax: -19.5, LonMin: 163.6, LonMax: 168.1},
		"PER": {LatMin: -18.3, LatMax: -0.04, LonMin: -81.3, LonMax: -68.7},
		"PHL": {LatMin: 4.6, LatMax: 21.1, LonMin: 116.9, LonMax: 126.6},
		"PNG": {LatMin: -11.7, LatMax: -1.3, LonMin: 140.8, LonMax: 155.9},
		"POL": {LatMin: 49.0, LatMax: 54.8, LonMin: 14.1, LonMax: 24.1},
		"RUS": {LatMin: 41.2, LatMax: 81.9, LonMin: 19.6, LonMax: 180.0},
		"SWE": {LatMin: 55.3, LatMax: 69.1, LonMin: 11.1, LonMax: 24.2},
		"TZA": {LatMin: -11.7, LatMax: -1.0, LonMin: 29.3, LonMax: 40.4},
		"USA": {LatMin: 24.5, LatMax: 71.4, LonMin: -179.1, LonMax: -66.9},
		"ZAF": {LatMin: -34.8, LatMax: -22.1, LonMin: 16.5, LonMax: 32.9},
		"ZMB": {LatMin: -18.1, LatMax: -8.2, LonMin: 22.0, LonMax: 33.7},
		"ZWE": {LatMin: -22.4, LatMax: -15.6, LonMin: 25.2, LonMax: 33.1},
	}
}

// LoadBounds reads a YAML bounding-box table keyed by alpha-3 country code.
// Entries override the defaults; countries not present keep the built-in box.
func LoadBounds(path string) (BoundsTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "geo: read bounds file")
	}

	var override BoundsTable
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, eris.Wrap(err, "geo: parse bounds file")
	}

	table := DefaultBounds()
	for code, box := range override {
		table[code] = box
	}
	return table, nil
}
