package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terralode/facility-cli/internal/model"
)

func testChecker(t *testing.T) *Checker {
	t.Helper()
	return NewChecker(nil, FixTable{
		"fac-curated": {Lat: -23.5, Lon: 133.9},
		"fac-doomed":  {Delete: true},
	})
}

func TestCheckNullIsland(t *testing.T) {
	t.Parallel()
	c := testChecker(t)

	for _, country := range []string{"AUS", "XYZ", ""} {
		v := c.Check("", 0, 0, country)
		assert.Equal(t, model.VerdictNullIsland, v.Status)
	}
}

func TestCheckKnownFixShortCircuits(t *testing.T) {
	t.Parallel()
	c := testChecker(t)

	// Even a perfectly valid coordinate defers to the curated correction.
	v := c.Check("fac-curated", -33.8688, 151.2093, "AUS")
	require.Equal(t, model.VerdictKnownFix, v.Status)
	require.NotNil(t, v.SuggestedFix)
	assert.Equal(t, -23.5, v.SuggestedFix.Lat)
	assert.Equal(t, 133.9, v.SuggestedFix.Lon)
}

func TestCheckKnownFixDeletionMarker(t *testing.T) {
	t.Parallel()
	c := testChecker(t)

	v := c.Check("fac-doomed", 12.0, 34.0, "AUS")
	assert.Equal(t, model.VerdictKnownFix, v.Status)
	assert.Nil(t, v.SuggestedFix)
}

func TestCheckTruncatedLongitude(t *testing.T) {
	t.Parallel()
	c := testChecker(t)

	tests := []struct {
		name    string
		lat     float64
		lon     float64
		country string
		want    model.VerdictStatus
	}{
		{"mid band ZAF", -26.2, 1.0, "ZAF", model.VerdictTruncated},
		{"band floor ZAF", -26.2, 0.5, "ZAF", model.VerdictTruncated},
		{"band ceiling ZAF", -26.2, 1.5, "ZAF", model.VerdictTruncated},
		{"unknown country still truncated", 5.0, 1.0, "XYZ", model.VerdictTruncated},
		{"FRA spans the band", 46.2, 1.0, "FRA", model.VerdictValid},
		{"GBR spans the band", 51.9, 0.9, "GBR", model.VerdictValid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v := c.Check("", tt.lat, tt.lon, tt.country)
			assert.Equal(t, tt.want, v.Status)
		})
	}
}

func TestCheckUnknownCountry(t *testing.T) {
	t.Parallel()
	c := testChecker(t)

	v := c.Check("", 5.0, 5.0, "XYZ")
	assert.Equal(t, model.VerdictUnknownCountry, v.Status)
}

func TestCheckValid(t *testing.T) {
	t.Parallel()
	c := testChecker(t)

	tests := []struct {
		name    string
		lat     float64
		lon     float64
		country string
	}{
		{"Sydney", -33.8688, 151.2093, "AUS"},
		{"Escondida", -24.27, -69.07, "CHL"},
		{"Kolwezi", -10.72, 25.47, "COD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v := c.Check("", tt.lat, tt.lon, tt.country)
			assert.Equal(t, model.VerdictValid, v.Status)
			assert.Nil(t, v.SuggestedFix)
		})
	}
}

func TestCheckSignError(t *testing.T) {
	t.Parallel()
	c := testChecker(t)

	// Chilean site recorded with a positive longitude.
	v := c.Check("", -33.45, 70.66, "CHL")
	require.Equal(t, model.VerdictSignError, v.Status)
	require.NotNil(t, v.SuggestedFix)
	assert.Equal(t, -33.45, v.SuggestedFix.Lat)
	assert.Equal(t, -70.66, v.SuggestedFix.Lon)
}

func TestCheckAxisSwap(t *testing.T) {
	t.Parallel()
	c := testChecker(t)

	// Latitude and longitude exchanged for an Australian site.
	v := c.Check("", 133.0, -25.0, "AUS")
	require.Equal(t, model.VerdictAxisSwap, v.Status)
	require.NotNil(t, v.SuggestedFix)
	assert.Equal(t, -25.0, v.SuggestedFix.Lat)
	assert.Equal(t, 133.0, v.SuggestedFix.Lon)
}

func TestCheckSignErrorBeatsAxisSwap(t *testing.T) {
	t.Parallel()

	// A box symmetric around the origin can satisfy both hypotheses; the
	// chain must pick sign_error.
	c := NewChecker(BoundsTable{
		"SYM": {LatMin: -10, LatMax: 10, LonMin: -10, LonMax: 10},
	}, nil)

	v := c.Check("", 5, 20, "SYM")
	assert.Equal(t, model.VerdictOutOfBounds, v.Status)

	// (5, -8): in box already.
	v = c.Check("", 5, -8, "SYM")
	assert.Equal(t, model.VerdictValid, v.Status)

	// Outside on lon only, sign flip repairs it, swap would too.
	c2 := NewChecker(BoundsTable{
		"SYM": {LatMin: -30, LatMax: 30, LonMin: -30, LonMax: -2},
	}, nil)
	v = c2.Check("", -5, 5, "SYM")
	assert.Equal(t, model.VerdictSignError, v.Status)
}

func TestCheckOutOfBounds(t *testing.T) {
	t.Parallel()
	c := testChecker(t)

	v := c.Check("", 10.0, 10.0, "USA")
	assert.Equal(t, model.VerdictOutOfBounds, v.Status)
	assert.Nil(t, v.SuggestedFix)
}

func TestRuleOrder(t *testing.T) {
	t.Parallel()

	// The evaluation order is load-bearing; lock it down.
	assert.Equal(t, []string{
		"null_island",
		"known_fix",
		"truncated",
		"unknown_country",
		"in_bounds",
		"sign_error",
		"axis_swap",
	}, RuleNames())
}

func TestBBoxContains(t *testing.T) {
	t.Parallel()

	box := BBox{LatMin: -10, LatMax: 10, LonMin: 20, LonMax: 40}
	assert.True(t, box.Contains(0, 30))
	assert.True(t, box.Contains(-10, 20)) // edges inclusive
	assert.True(t, box.Contains(10, 40))
	assert.False(t, box.Contains(11, 30))
	assert.False(t, box.Contains(0, 41))
}
