package geo

import (
	"fmt"
	"path/filepath"
	"testing"

	shp "github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestShapefile writes a point shapefile with one ISO alpha-3 attribute
// column and returns its path.
func writeTestShapefile(t *testing.T, points []shp.Point, codes []string) string {
	t.Helper()
	require.Equal(t, len(points), len(codes))

	path := filepath.Join(t.TempDir(), "countries.shp")
	w, err := shp.Create(path, shp.POINT)
	require.NoError(t, err)

	require.NoError(t, w.SetFields([]shp.Field{shp.StringField("ADM0_A3", 10)}))
	for i := range points {
		row := w.Write(&points[i])
		// dbf character fields are space-padded to the field width; go-shp's
		// writer leaves NUL padding, so pad here to match real shapefiles.
		require.NoError(t, w.WriteAttribute(int(row), 0, fmt.Sprintf("%-10s", codes[i])))
	}
	w.Close()

	return path
}

func TestBuildBoundsFromShapefile(t *testing.T) {
	path := writeTestShapefile(t,
		[]shp.Point{
			{X: 115.0, Y: -32.0},
			{X: 150.0, Y: -20.0},
			{X: -70.0, Y: -33.0},
		},
		[]string{"AUS", "AUS", "CHL"},
	)

	table, err := BuildBoundsFromShapefile(path, "ADM0_A3")
	require.NoError(t, err)
	require.Len(t, table, 2)

	// Two AUS shapes accumulate into one extent.
	aus := table["AUS"]
	assert.Equal(t, -32.0, aus.LatMin)
	assert.Equal(t, -20.0, aus.LatMax)
	assert.Equal(t, 115.0, aus.LonMin)
	assert.Equal(t, 150.0, aus.LonMax)

	chl := table["CHL"]
	assert.Equal(t, -33.0, chl.LatMin)
	assert.Equal(t, -70.0, chl.LonMin)
}

func TestBuildBoundsFromShapefileSkipsBadCodes(t *testing.T) {
	path := writeTestShapefile(t,
		[]shp.Point{
			{X: 10.0, Y: 10.0},
			{X: 20.0, Y: 20.0},
		},
		[]string{"ZW", "ZWE"}, // alpha-2 rows are ignored
	)

	table, err := BuildBoundsFromShapefile(path, "ADM0_A3")
	require.NoError(t, err)
	require.Len(t, table, 1)
	assert.Contains(t, table, "ZWE")
}

func TestBuildBoundsFromShapefileUnknownField(t *testing.T) {
	path := writeTestShapefile(t, []shp.Point{{X: 1, Y: 1}}, []string{"AUS"})

	_, err := BuildBoundsFromShapefile(path, "NOPE")
	assert.Error(t, err)
}

func TestWriteBoundsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bounds.yaml")
	table := BoundsTable{
		"AUS": {LatMin: -44, LatMax: -9, LonMin: 112, LonMax: 154},
	}
	require.NoError(t, WriteBounds(table, path))

	loaded, err := LoadBounds(path)
	require.NoError(t, err)
	assert.Equal(t, table["AUS"], loaded["AUS"])
}
