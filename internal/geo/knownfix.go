package geo

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/terralode/facility-cli/internal/model"
)

// KnownFix is a manually researched correction for a single facility.
// Delete marks records whose coordinates could not be salvaged at all;
// acting on the marker is an external policy decision, not ours.
type KnownFix struct {
	Lat    float64 `yaml:"lat"`
	Lon    float64 `yaml:"lon"`
	Delete bool    `yaml:"delete,omitempty"`
	Note   string  `yaml:"note,omitempty"`
}

// FixTable maps facility id to its curated correction. The table is
// maintained outside this tool and injected at construction.
type FixTable map[string]KnownFix

// Coordinate returns the corrected coordinate, or nil for deletion markers.
func (f KnownFix) Coordinate() *model.Coordinate {
	if f.Delete {
		return nil
	}
	return &model.Coordinate{Lat: f.Lat, Lon: f.Lon}
}

// LoadFixes reads a YAML known-fix table keyed by facility id.
func LoadFixes(path string) (FixTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "geo: read fixes file")
	}

	var table FixTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, eris.Wrap(err, "geo: parse fixes file")
	}
	return table, nil
}
