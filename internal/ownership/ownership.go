// Package ownership parses composite ownership strings ("A (60%), B (40%)")
// into resolved owner entries with role classification and percentages.
package ownership

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/terralode/facility-cli/internal/model"
	"github.com/terralode/facility-cli/internal/resolver"
)

// Role thresholds: a stake above half the facility is control, exactly half
// is a joint venture, below is a minority position.
const controlThresholdPct = 50.0

// Pattern A: "Name (60%)" segments. Pattern B: "Name 60%" without
// parentheses. Both comma-separated; decimals allowed.
var (
	parenPctRe = regexp.MustCompile(`([^,()]+?)\s*\(\s*(\d+(?:\.\d+)?)\s*%\s*\)`)
	barePctRe  = regexp.MustCompile(`([^,]+?)\s+(\d+(?:\.\d+)?)\s*%`)
	jvMarkerRe = regexp.MustCompile(`(?i)^\s*(?:joint\s+venture|jv)\s*:\s*`)
)

// segment is one extracted (name, percentage) pair before resolution.
type segment struct {
	name string
	pct  *float64
}

// Parser resolves ownership strings through the operator resolver.
type Parser struct {
	resolver *resolver.Resolver
}

// New creates a Parser over the given resolver.
func New(r *resolver.Resolver) *Parser {
	return &Parser{resolver: r}
}

// Parse extracts owners from a composite ownership string and resolves each
// name to a canonical identity. Segments that do not resolve are silently
// dropped; an unresolved owner is an expected outcome, not an error.
// Duplicate names within one string are resolved and appended independently.
func (p *Parser) Parse(ctx context.Context, text string, facility *model.Coordinate, countryHint string) []model.OwnershipEntry {
	text = jvMarkerRe.ReplaceAllString(text, "")
	if strings.TrimSpace(text) == "" {
		return nil
	}

	segments := extractSegments(text)

	var entries []model.OwnershipEntry
	for _, seg := range segments {
		company := p.resolver.Resolve(ctx, seg.name, facility, countryHint)
		if company == nil {
			zap.L().Debug("ownership: dropped unresolved owner", zap.String("name", seg.name))
			continue
		}
		entries = append(entries, model.OwnershipEntry{
			CompanyID:   company.CompanyID,
			DisplayName: company.DisplayName,
			Role:        roleForPercentage(seg.pct),
			Percentage:  seg.pct,
			Confidence:  company.Confidence,
		})
	}
	return entries
}

// extractSegments tries pattern A, then pattern B, then falls back to the
// whole string as a single company name with unknown percentage.
func extractSegments(text string) []segment {
	var segments []segment

	for _, m := range parenPctRe.FindAllStringSubmatch(text, -1) {
		segments = append(segments, newSegment(m[1], m[2]))
	}
	if len(segments) > 0 {
		return segments
	}

	for _, m := range barePctRe.FindAllStringSubmatch(text, -1) {
		segments = append(segments, newSegment(m[1], m[2]))
	}
	if len(segments) > 0 {
		return segments
	}

	return []segment{{name: cleanSegmentName(text)}}
}

func newSegment(name, pct string) segment {
	s := segment{name: cleanSegmentName(name)}
	if v, err := strconv.ParseFloat(pct, 64); err == nil {
		s.pct = &v
	}
	return s
}

// cleanSegmentName trims separators and a stray jv marker from one segment.
func cleanSegmentName(name string) string {
	name = jvMarkerRe.ReplaceAllString(name, "")
	return strings.Trim(name, " \t,;")
}

// roleForPercentage derives the role from the stake. An unknown percentage
// means the single-owner form, which is an outright owner.
func roleForPercentage(pct *float64) model.OwnershipRole {
	switch {
	case pct == nil:
		return model.RoleOwner
	case *pct > controlThresholdPct:
		return model.RoleOwner
	case *pct == controlThresholdPct:
		return model.RoleJointVenture
	default:
		return model.RoleMinorityOwner
	}
}
