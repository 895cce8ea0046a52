package model

// Coordinate is a WGS84 point in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// FacilityRecord represents an industrial facility (mine, smelter, refinery).
// ID is assigned once at ingestion and never changes. Coordinate is either
// fully present or nil; a partial pair is an invariant violation upstream.
type FacilityRecord struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Aliases     []string    `json:"aliases,omitempty"`
	CountryCode string      `json:"country_code"` // ISO 3166-1 alpha-3
	Coordinate  *Coordinate `json:"coordinate,omitempty"`
	Commodities []string    `json:"commodities,omitempty"`
}

// ResolvedCompany is a canonical company identity with calibrated confidence.
// Immutable once returned by the resolver; the caller decides storage.
type ResolvedCompany struct {
	CompanyID    string      `json:"company_id"`
	DisplayName  string      `json:"display_name"`
	Confidence   float64     `json:"confidence"` // [0,1]
	Headquarters *Coordinate `json:"headquarters,omitempty"`
}

// OwnershipRole classifies an owner by its stake.
type OwnershipRole string

const (
	RoleOwner         OwnershipRole = "owner"
	RoleJointVenture  OwnershipRole = "joint_venture"
	RoleMinorityOwner OwnershipRole = "minority_owner"
)

// OwnershipEntry is one resolved owner parsed from a composite ownership string.
// Percentage is nil when the source text carried no stake figure.
type OwnershipEntry struct {
	CompanyID   string        `json:"company_id"`
	DisplayName string        `json:"display_name"`
	Role        OwnershipRole `json:"role"`
	Percentage  *float64      `json:"percentage,omitempty"` // (0,100]
	Confidence  float64       `json:"confidence"`
}

// VerdictStatus classifies the plausibility of a facility coordinate.
type VerdictStatus string

const (
	VerdictValid          VerdictStatus = "valid"
	VerdictNullIsland     VerdictStatus = "null_island"
	VerdictKnownFix       VerdictStatus = "known_fix"
	VerdictSignError      VerdictStatus = "sign_error"
	VerdictAxisSwap       VerdictStatus = "axis_swap"
	VerdictTruncated      VerdictStatus = "truncated"
	VerdictOutOfBounds    VerdictStatus = "out_of_bounds"
	VerdictUnknownCountry VerdictStatus = "unknown_country"
)

// CoordinateVerdict is the outcome of a plausibility check. SuggestedFix is
// set only when a mechanical repair (sign flip, axis swap, curated fix) exists.
type CoordinateVerdict struct {
	Status       VerdictStatus `json:"status"`
	SuggestedFix *Coordinate   `json:"suggested_fix,omitempty"`
}

// MatchReason explains why a candidate facility was judged a duplicate.
type MatchReason string

const (
	ReasonExactID           MatchReason = "exact_id"
	ReasonNameAndProximity  MatchReason = "name_and_proximity"
	ReasonAliasAndProximity MatchReason = "alias_and_proximity"
	ReasonNameNoCoordinates MatchReason = "name_no_coordinates"
)

// DuplicateMatch identifies the existing facility a candidate duplicates.
type DuplicateMatch struct {
	MatchedID string      `json:"matched_id"`
	Reason    MatchReason `json:"reason"`
}
