package geo

import (
	"os"
	"strings"

	shp "github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// BuildBoundsFromShapefile derives a per-country bounding-box table from a
// country boundary shapefile (e.g. Natural Earth admin-0). codeField names
// the attribute holding the ISO alpha-3 code. Shapes sharing a code extend
// the same box, so multipart territories accumulate into one extent.
func BuildBoundsFromShapefile(path, codeField string) (BoundsTable, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "geo: open shapefile")
	}
	defer func() { _ = reader.Close() }()

	codeIdx := fieldIndex(reader, codeField)
	if codeIdx < 0 {
		return nil, eris.Errorf("geo: shapefile field %q not found", codeField)
	}

	// Accumulate extents per country with go-geom bounds.
	extents := make(map[string]*geom.Bounds)
	var read int
	for reader.Next() {
		_, shape := reader.Shape()
		if shape == nil {
			continue
		}
		code := strings.ToUpper(strings.TrimSpace(reader.Attribute(codeIdx)))
		if len(code) != 3 {
			continue
		}

		box := shape.BBox()
		b, ok := extents[code]
		if !ok {
			b = geom.NewBounds(geom.XY)
			extents[code] = b
		}
		b.Extend(geom.NewPointFlat(geom.XY, []float64{box.MinX, box.MinY}))
		b.Extend(geom.NewPointFlat(geom.XY, []float64{box.MaxX, box.MaxY}))
		read++
	}

	table := make(BoundsTable, len(extents))
	for code, b := range extents {
		table[code] = BBox{
			LatMin: b.Min(1),
			LatMax: b.Max(1),
			LonMin: b.Min(0),
			LonMax: b.Max(0),
		}
	}

	zap.L().Info("geo: built bounds from shapefile",
		zap.String("path", path),
		zap.Int("shapes", read),
		zap.Int("countries", len(table)),
	)

	return table, nil
}

// WriteBounds writes a bounds table as YAML, suitable for LoadBounds.
func WriteBounds(table BoundsTable, path string) error {
	data, err := yaml.Marshal(table)
	if err != nil {
		return eris.Wrap(err, "geo: marshal bounds")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrap(err, "geo: write bounds file")
	}
	return nil
}

// fieldIndex returns the index of the named attribute field, or -1.
func fieldIndex(reader *shp.Reader, name string) int {
	for i, f := range reader.Fields() {
		if strings.EqualFold(strings.TrimRight(string(f.Name[:]), "\x00"), name) {
			return i
		}
	}
	return -1
}
