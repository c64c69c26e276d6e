package schema

import (
	"strings"
	"time"
)

// Requirement is the unit of work tracked per customer implementation.
// The store is the sole owner; components never mutate a record in place.
type Requirement struct {
	// ID is the opaque internal identity. Never shown to users and never exported.
	ID string `json:"id" yaml:"-"`

	// ReqID is the display identity in REQ-### format, unique within a store.
	ReqID string `json:"reqId" yaml:"req_id"`

	Section        Section        `json:"section" yaml:"section"`
	Description    string         `json:"description" yaml:"description"`
	Status         Status         `json:"status" yaml:"status"`
	Classification Classification `json:"classification" yaml:"classification"`
	Priority       Priority       `json:"priority" yaml:"priority"`
	Owner          string         `json:"owner" yaml:"owner"`

	// ParentRequirement references another requirement's ReqID. Dangling
	// references are permitted; deletion does not cascade.
	ParentRequirement *string `json:"parentRequirement" yaml:"parent_requirement,omitempty"`

	// Tags is an ordered sequence of lower-cased, de-duplicated short strings.
	Tags []string `json:"tags" yaml:"tags,omitempty"`

	// Enrichment fields produced by external analysis.
	FitGapScore     *int        `json:"fitGapScore,omitempty" yaml:"fit_gap_score,omitempty"`
	FitGapRationale string      `json:"fitGapRationale,omitempty" yaml:"fit_gap_rationale,omitempty"`
	AOC             string      `json:"aoc,omitempty" yaml:"aoc,omitempty"`
	AOCDescription  string      `json:"aocDescription,omitempty" yaml:"aoc_description,omitempty"`
	AOCComplexity   *Complexity `json:"aocComplexity,omitempty" yaml:"aoc_complexity,omitempty"`
	IsBaseline      bool        `json:"isBaseline" yaml:"is_baseline"`
	SourceArtifact  string      `json:"sourceArtifact,omitempty" yaml:"source_artifact,omitempty"`

	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
}

// AnalysisResult is one classification fragment returned by the external
// analysis, keyed by display ID. Only non-nil fields are overlaid on merge.
type AnalysisResult struct {
	ReqID           string          `json:"reqId"`
	Classification  *Classification `json:"classification,omitempty"`
	FitGapScore     *int            `json:"fitGapScore,omitempty"`
	FitGapRationale *string         `json:"fitGapRationale,omitempty"`
	AOC             *string         `json:"aoc,omitempty"`
	AOCDescription  *string         `json:"aocDescription,omitempty"`
	AOCComplexity   *Complexity     `json:"aocComplexity,omitempty"`
}

// NormalizeTags lower-cases tags, drops empties, and removes duplicates
// while preserving first-occurrence order.
func NormalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		normalized = append(normalized, tag)
	}
	return normalized
}
