package ownership

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terralode/facility-cli/internal/model"
	"github.com/terralode/facility-cli/internal/resolver"
)

// knownMatcher resolves a fixed set of names and fails the rest.
type knownMatcher struct {
	known map[string]resolver.Candidate
}

func (m *knownMatcher) MatchBest(_ context.Context, query string, _, _ int) ([]resolver.Candidate, error) {
	if c, ok := m.known[query]; ok {
		return []resolver.Candidate{c}, nil
	}
	return nil, nil
}

func (m *knownMatcher) CorpusSize() int { return len(m.known) }

func testParser(t *testing.T) *Parser {
	t.Helper()
	m := &knownMatcher{known: map[string]resolver.Candidate{
		"BHP":       {Identifier: "bhp-group", DisplayName: "BHP Group", Score: 92},
		"Rio Tinto": {Identifier: "rio-tinto", DisplayName: "Rio Tinto", Score: 95},
		"Glencore":  {Identifier: "glencore", DisplayName: "Glencore", Score: 90},
	}}
	return New(resolver.New(m))
}

func pctOf(t *testing.T, e model.OwnershipEntry) float64 {
	t.Helper()
	require.NotNil(t, e.Percentage)
	return *e.Percentage
}

func TestParseParenthesizedPercentages(t *testing.T) {
	t.Parallel()
	p := testParser(t)

	entries := p.Parse(context.Background(), "BHP (60%), Rio Tinto (40%)", nil, "")
	require.Len(t, entries, 2)

	assert.Equal(t, "company:bhp-group", entries[0].CompanyID)
	assert.Equal(t, 60.0, pctOf(t, entries[0]))
	assert.Equal(t, model.RoleOwner, entries[0].Role)

	assert.Equal(t, "company:rio-tinto", entries[1].CompanyID)
	assert.Equal(t, 40.0, pctOf(t, entries[1]))
	assert.Equal(t, model.RoleMinorityOwner, entries[1].Role)
}

func TestParseBarePercentages(t *testing.T) {
	t.Parallel()
	p := testParser(t)

	entries := p.Parse(context.Background(), "BHP 60%, Rio Tinto 40%", nil, "")
	require.Len(t, entries, 2)
	assert.Equal(t, 60.0, pctOf(t, entries[0]))
	assert.Equal(t, 40.0, pctOf(t, entries[1]))
}

func TestParseEqualSplitIsJointVenture(t *testing.T) {
	t.Parallel()
	p := testParser(t)

	entries := p.Parse(context.Background(), "BHP (50%), Rio Tinto (50%)", nil, "")
	require.Len(t, entries, 2)
	assert.Equal(t, model.RoleJointVenture, entries[0].Role)
	assert.Equal(t, model.RoleJointVenture, entries[1].Role)
}

func TestParseSingleOwnerNoPercentage(t *testing.T) {
	t.Parallel()
	p := testParser(t)

	entries := p.Parse(context.Background(), "Glencore", nil, "")
	require.Len(t, entries, 1)
	assert.Equal(t, "company:glencore", entries[0].CompanyID)
	assert.Nil(t, entries[0].Percentage)
	assert.Equal(t, model.RoleOwner, entries[0].Role)
}

func TestParseDropsUnresolvedOwners(t *testing.T) {
	t.Parallel()
	p := testParser(t)

	entries := p.Parse(context.Background(), "BHP (60%), Mystery Miner (40%)", nil, "")
	require.Len(t, entries, 1)
	assert.Equal(t, "company:bhp-group", entries[0].CompanyID)
}

func TestParseJointVentureMarkerStripped(t *testing.T) {
	t.Parallel()
	p := testParser(t)

	for _, text := range []string{
		"Joint Venture: BHP (50%), Rio Tinto (50%)",
		"JV: BHP (50%), Rio Tinto (50%)",
		"jv: BHP (50%), Rio Tinto (50%)",
	} {
		entries := p.Parse(context.Background(), text, nil, "")
		require.Len(t, entries, 2, "text %q", text)
		assert.Equal(t, "company:bhp-group", entries[0].CompanyID)
	}
}

func TestParseDecimalPercentages(t *testing.T) {
	t.Parallel()
	p := testParser(t)

	entries := p.Parse(context.Background(), "BHP (57.5%), Rio Tinto (42.5%)", nil, "")
	require.Len(t, entries, 2)
	assert.Equal(t, 57.5, pctOf(t, entries[0]))
	assert.Equal(t, model.RoleOwner, entries[0].Role)
	assert.Equal(t, model.RoleMinorityOwner, entries[1].Role)
}

func TestParseDuplicateNamesKeptIndependently(t *testing.T) {
	t.Parallel()
	p := testParser(t)

	entries := p.Parse(context.Background(), "BHP (30%), BHP (30%), Rio Tinto (40%)", nil, "")
	require.Len(t, entries, 3)
	assert.Equal(t, entries[0].CompanyID, entries[1].CompanyID)
}

func TestParseEmptyText(t *testing.T) {
	t.Parallel()
	p := testParser(t)

	assert.Nil(t, p.Parse(context.Background(), "", nil, ""))
	assert.Nil(t, p.Parse(context.Background(), "   ", nil, ""))
	assert.Nil(t, p.Parse(context.Background(), "JV: ", nil, ""))
}

func TestParseWholeStringUnresolvedReturnsEmpty(t *testing.T) {
	t.Parallel()
	p := testParser(t)

	entries := p.Parse(context.Background(), "Totally Unknown Mining House", nil, "")
	assert.Empty(t, entries)
}

func TestRoleForPercentage(t *testing.T) {
	t.Parallel()

	pct := func(v float64) *float64 { return &v }
	tests := []struct {
		name string
		pct  *float64
		want model.OwnershipRole
	}{
		{"nil is owner", nil, model.RoleOwner},
		{"above half", pct(50.1), model.RoleOwner},
		{"exactly half", pct(50), model.RoleJointVenture},
		{"below half", pct(49.9), model.RoleMinorityOwner},
		{"full", pct(100), model.RoleOwner},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, roleForPercentage(tt.pct))
		})
	}
}
