package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rtmd/pkg/schema"
)

func reqs() []schema.Requirement {
	return []schema.Requirement{
		{ReqID: "REQ-001", Description: "Quote approval workflow", Classification: schema.ClassificationFit, Owner: "Alice", Tags: []string{"cpq"}},
		{ReqID: "REQ-002", Description: "Custom rating engine", Classification: schema.ClassificationGap, Owner: "Alice", Tags: []string{"rating"}},
		{ReqID: "REQ-003", Description: "Usage mediation feed", Classification: schema.ClassificationGap, Owner: "Bob", Tags: []string{"mediation", "usage"}},
	}
}

func TestFilter_QueryAndFacetAreANDed(t *testing.T) {
	got := Filter(reqs(), "alice", FacetGap)
	require.Len(t, got, 1)
	assert.Equal(t, "REQ-002", got[0].ReqID)
}

func TestFilter_EmptyQueryMatchesAll(t *testing.T) {
	assert.Len(t, Filter(reqs(), "", FacetAll), 3)
	assert.Len(t, Filter(reqs(), "   ", FacetAll), 3)
}

func TestFilter_MatchesAcrossFields(t *testing.T) {
	// reqId substring
	got := Filter(reqs(), "req-003", FacetAll)
	require.Len(t, got, 1)
	assert.Equal(t, "REQ-003", got[0].ReqID)

	// description substring, case-insensitive
	got = Filter(reqs(), "RATING", FacetAll)
	require.Len(t, got, 1)
	assert.Equal(t, "REQ-002", got[0].ReqID)

	// tag substring
	got = Filter(reqs(), "media", FacetAll)
	require.Len(t, got, 1)
	assert.Equal(t, "REQ-003", got[0].ReqID)

	// owner substring
	assert.Len(t, Filter(reqs(), "bob", FacetAll), 1)
}

func TestFilter_PreservesOrder(t *testing.T) {
	got := Filter(reqs(), "", FacetGap)
	require.Len(t, got, 2)
	assert.Equal(t, "REQ-002", got[0].ReqID)
	assert.Equal(t, "REQ-003", got[1].ReqID)
}

func TestParseFacet(t *testing.T) {
	assert.Equal(t, FacetFit, ParseFacet("fit"))
	assert.Equal(t, FacetGap, ParseFacet("gap"))
	assert.Equal(t, FacetAll, ParseFacet("all"))
	assert.Equal(t, FacetAll, ParseFacet(""))
	assert.Equal(t, FacetAll, ParseFacet("bogus"))
}
