package geo

import (
	"math"

	"github.com/terralode/facility-cli/internal/model"
)

// Longitude band symptomatic of a parser that dropped digits after the
// decimal point (or after the sign) of a longitude near a degree boundary.
const (
	truncatedLonMin = 0.5
	truncatedLonMax = 1.5
)

// meridianBandCountries are countries whose true territory spans the
// 0.5..1.5 longitude band; a longitude there is not evidence of truncation.
var meridianBandCountries = map[string]bool{
	"AND": true,
	"BEN": true,
	"BFA": true,
	"DZA": true,
	"ESP": true,
	"FRA": true,
	"GBR": true,
	"GHA": true,
	"MLI": true,
	"NER": true,
	"TGO": true,
}

// Checker classifies facility coordinates against per-country bounding boxes
// and a curated known-fix table. Both tables are injected so fixtures can
// stand in for the real curated data.
type Checker struct {
	bounds BoundsTable
	fixes  FixTable
}

// NewChecker creates a Checker. A nil bounds table falls back to the
// built-in defaults; a nil fix table disables the known-fix rule.
func NewChecker(bounds BoundsTable, fixes FixTable) *Checker {
	if bounds == nil {
		bounds = DefaultBounds()
	}
	return &Checker{bounds: bounds, fixes: fixes}
}

// checkRule is one step of the verdict chain. It returns a verdict and true
// when it fires; order of evaluation is load-bearing.
type checkRule struct {
	name string
	eval func(c *Checker, facilityID string, lat, lon float64, country string) (model.CoordinateVerdict, bool)
}

// checkRules is the verdict chain, first match wins. Cheap unambiguous
// symptoms (null island, curated fixes) come before box math; sign-error is
// tried before axis-swap because it is the more common transcription mistake.
var checkRules = []checkRule{
	{name: "null_island", eval: ruleNullIsland},
	{name: "known_fix", eval: ruleKnownFix},
	{name: "truncated", eval: ruleTruncated},
	{name: "unknown_country", eval: ruleUnknownCountry},
	{name: "in_bounds", eval: ruleInBounds},
	{name: "sign_error", eval: ruleSignError},
	{name: "axis_swap", eval: ruleAxisSwap},
}

// RuleNames returns the evaluation order of the verdict chain.
func RuleNames() []string {
	names := make([]string, len(checkRules))
	for i, r := range checkRules {
		names[i] = r.name
	}
	return names
}

// Check classifies the coordinate declared for the given country.
// facilityID may be empty, which skips the known-fix lookup. Coordinates
// outside the valid lat/lon ranges are a caller error.
func (c *Checker) Check(facilityID string, lat, lon float64, country string) model.CoordinateVerdict {
	for _, rule := range checkRules {
		if verdict, ok := rule.eval(c, facilityID, lat, lon, country); ok {
			return verdict
		}
	}
	// No repair hypothesis succeeded; manual research required.
	return model.CoordinateVerdict{Status: model.VerdictOutOfBounds}
}

func ruleNullIsland(_ *Checker, _ string, lat, lon float64, _ string) (model.CoordinateVerdict, bool) {
	if lat == 0 && lon == 0 {
		return model.CoordinateVerdict{Status: model.VerdictNullIsland}, true
	}
	return model.CoordinateVerdict{}, false
}

func ruleKnownFix(c *Checker, facilityID string, _, _ float64, _ string) (model.CoordinateVerdict, bool) {
	if facilityID == "" {
		return model.CoordinateVerdict{}, false
	}
	fix, ok := c.fixes[facilityID]
	if !ok {
		return model.CoordinateVerdict{}, false
	}
	return model.CoordinateVerdict{
		Status:       model.VerdictKnownFix,
		SuggestedFix: fix.Coordinate(),
	}, true
}

func ruleTruncated(_ *Checker, _ string, _, lon float64, country string) (model.CoordinateVerdict, bool) {
	if lon >= truncatedLonMin && lon <= truncatedLonMax && !meridianBandCountries[country] {
		return model.CoordinateVerdict{Status: model.VerdictTruncated}, true
	}
	return model.CoordinateVerdict{}, false
}

func ruleUnknownCountry(c *Checker, _ string, _, _ float64, country string) (model.CoordinateVerdict, bool) {
	if _, ok := c.bounds[country]; !ok {
		return model.CoordinateVerdict{Status: model.VerdictUnknownCountry}, true
	}
	return model.CoordinateVerdict{}, false
}

func ruleInBounds(c *Checker, _ string, lat, lon float64, country string) (model.CoordinateVerdict, bool) {
	if c.bounds[country].Contains(lat, lon) {
		return model.CoordinateVerdict{Status: model.VerdictValid}, true
	}
	return model.CoordinateVerdict{}, false
}

func ruleSignError(c *Checker, _ string, lat, lon float64, country string) (model.CoordinateVerdict, bool) {
	flipped := -lon
	if c.bounds[country].Contains(lat, flipped) {
		return model.CoordinateVerdict{
			Status:       model.VerdictSignError,
			SuggestedFix: &model.Coordinate{Lat: lat, Lon: flipped},
		}, true
	}
	return model.CoordinateVerdict{}, false
}

func ruleAxisSwap(c *Checker, _ string, lat, lon float64, country string) (model.CoordinateVerdict, bool) {
	if math.Abs(lon) > 90 {
		// A swapped value would be an impossible latitude.
		return model.CoordinateVerdict{}, false
	}
	if c.bounds[country].Contains(lon, lat) {
		return model.CoordinateVerdict{
			Status:       model.VerdictAxisSwap,
			SuggestedFix: &model.Coordinate{Lat: lon, Lon: lat},
		}, true
	}
	return model.CoordinateVerdict{}, false
}
