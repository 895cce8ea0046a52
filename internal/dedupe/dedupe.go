// Package dedupe decides whether a candidate facility duplicates an existing
// record, by id, or by name identity combined with geographic proximity.
package dedupe

import (
	"github.com/terralode/facility-cli/internal/geo"
	"github.com/terralode/facility-cli/internal/model"
)

// DuplicateRadiusKM is the distance below which two same-named facilities
// are the same physical site. It reflects typical surveying and geocoding
// noise for a single industrial site.
const DuplicateRadiusKM = 1.0

// FindDuplicate returns the first existing facility the candidate duplicates,
// or nil. Rules are evaluated per facility in order, first match wins:
//
//  1. identical id
//  2. exact (case-sensitive) name or alias equality, and then
//     - both sides have coordinates within DuplicateRadiusKM -> duplicate
//     - either side lacks coordinates -> duplicate; an unverifiable location
//       cannot rule a duplicate out, so name identity alone decides
//     - both sides have coordinates further apart -> NOT a duplicate, the
//       same name reused at a distinct site
func FindDuplicate(candidateID, candidateName string, coord *model.Coordinate, existing []model.FacilityRecord) *model.DuplicateMatch {
	for i := range existing {
		if match := matchOne(candidateID, candidateName, coord, &existing[i]); match != nil {
			return match
		}
	}
	return nil
}

func matchOne(candidateID, candidateName string, coord *model.Coordinate, facility *model.FacilityRecord) *model.DuplicateMatch {
	if candidateID == facility.ID {
		return &model.DuplicateMatch{MatchedID: facility.ID, Reason: model.ReasonExactID}
	}

	viaAlias, nameMatched := nameMatch(candidateName, facility)
	if !nameMatched {
		return nil
	}

	if coord == nil || facility.Coordinate == nil {
		return &model.DuplicateMatch{MatchedID: facility.ID, Reason: model.ReasonNameNoCoordinates}
	}

	km := geo.DistanceKM(coord.Lat, coord.Lon, facility.Coordinate.Lat, facility.Coordinate.Lon)
	if km > DuplicateRadiusKM {
		// Same name, different place: assumed distinct sites.
		return nil
	}

	reason := model.ReasonNameAndProximity
	if viaAlias {
		reason = model.ReasonAliasAndProximity
	}
	return &model.DuplicateMatch{MatchedID: facility.ID, Reason: reason}
}

// nameMatch reports whether the candidate name equals the facility's primary
// name or one of its aliases, and which of the two matched.
func nameMatch(name string, facility *model.FacilityRecord) (viaAlias, matched bool) {
	if name == facility.Name {
		return false, true
	}
	for _, alias := range facility.Aliases {
		if name == alias {
			return true, true
		}
	}
	return false, false
}
