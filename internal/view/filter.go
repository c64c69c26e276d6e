// Package view derives the table the dashboard renders: a stable filter
// over the store sequence followed by a pagination window. Both are pure
// functions of their inputs; there is no hidden state to invalidate.
package view

import (
	"strings"

	"rtmd/pkg/schema"
)

// Facet narrows the list by classification.
type Facet string

const (
	FacetAll Facet = "all"
	FacetFit Facet = "fit"
	FacetGap Facet = "gap"
)

// ParseFacet maps a query parameter to a facet, defaulting to all.
func ParseFacet(s string) Facet {
	switch Facet(s) {
	case FacetFit, FacetGap:
		return Facet(s)
	default:
		return FacetAll
	}
}

// Filter returns the subsequence matching both the free-text query and
// the classification facet, preserving original relative order.
func Filter(requirements []schema.Requirement, query string, facet Facet) []schema.Requirement {
	query = strings.ToLower(strings.TrimSpace(query))

	filtered := make([]schema.Requirement, 0, len(requirements))
	for _, r := range requirements {
		if matchesQuery(r, query) && matchesFacet(r, facet) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// matchesQuery is an OR across reqId, description, owner, and tags, each
// compared case-insensitively as a substring. An empty query matches all.
func matchesQuery(r schema.Requirement, query string) bool {
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(r.ReqID), query) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Description), query) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Owner), query) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func matchesFacet(r schema.Requirement, facet Facet) bool {
	return facet == FacetAll || Facet(r.Classification) == facet
}
