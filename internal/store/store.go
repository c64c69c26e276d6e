// Package store holds the ordered in-memory requirement sequence for one
// implementation project. The store owns identity generation and is the
// only component allowed to mutate records; everything downstream works
// on copies.
package store

import (
	"fmt"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"rtmd/internal/core"
	"rtmd/pkg/schema"
)

// Store is an ordered requirement sequence with replace-only mutation.
type Store struct {
	mu      sync.Mutex
	records []schema.Requirement
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// Len returns the number of stored requirements.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// List returns a copy of the full ordered sequence.
func (s *Store) List() []schema.Requirement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]schema.Requirement, len(s.records))
	copy(out, s.records)
	return out
}

// Get returns the requirement with the given internal ID.
func (s *Store) Get(id string) (schema.Requirement, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return schema.Requirement{}, false
}

// Add appends a manually created requirement. Missing enum fields fall
// back to their defaults, a missing ReqID gets the next generated one,
// and the internal ID is always assigned here.
func (s *Store) Add(r schema.Requirement) (schema.Requirement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	applyDefaults(&r)
	if err := schema.ValidateRequirement(&r); err != nil {
		return schema.Requirement{}, &core.ValidationError{Field: "requirement", Message: err.Error(), Err: err}
	}

	id, err := schema.NewRecordID()
	if err != nil {
		return schema.Requirement{}, fmt.Errorf("generate record ID: %w", err)
	}
	r.ID = id
	if r.ReqID == "" {
		r.ReqID = s.nextReqIDLocked()
	}
	r.Tags = schema.NormalizeTags(r.Tags)
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	s.records = append(s.records, r)
	return r, nil
}

// Replace swaps the record with the given internal ID for the updated
// one. Internal ID, ReqID, and creation time survive the swap; this is
// the only in-place mutation the store supports.
func (s *Store) Replace(id string, updated schema.Requirement) (schema.Requirement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.records {
		if r.ID != id {
			continue
		}
		updated.ID = r.ID
		updated.ReqID = r.ReqID
		updated.CreatedAt = r.CreatedAt
		applyDefaults(&updated)
		if err := schema.ValidateRequirement(&updated); err != nil {
			return schema.Requirement{}, &core.ValidationError{Field: "requirement", Message: err.Error(), Err: err}
		}
		updated.Tags = schema.NormalizeTags(updated.Tags)
		s.records[i] = updated
		return updated, nil
	}
	return schema.Requirement{}, &core.NotFoundError{Kind: "requirement", ID: id}
}

// Remove deletes the record with the given internal ID. References from
// other records via ParentRequirement are left dangling on purpose.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.records {
		if r.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return true
		}
	}
	return false
}

// ImportRows appends parsed rows in file order. Rows without a display
// ID get the next generated one; the max-suffix scan runs against the
// live sequence, so rows appended earlier in the same batch count and
// fallback IDs never collide. Duplicate display IDs against existing
// records are tolerated, never merged.
func (s *Store) ImportRows(rows []schema.Requirement) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, r := range rows {
		applyDefaults(&r)
		id, err := schema.NewRecordID()
		if err != nil {
			return added, fmt.Errorf("generate record ID: %w", err)
		}
		r.ID = id
		if r.ReqID == "" {
			r.ReqID = s.nextReqIDLocked()
		}
		r.Tags = schema.NormalizeTags(r.Tags)
		if r.CreatedAt.IsZero() {
			r.CreatedAt = time.Now().UTC()
		}
		s.records = append(s.records, r)
		added++
	}
	return added, nil
}

// MergeAnalysis overlays classification fragments onto stored records by
// display ID. Only fields present in a fragment are written; unmatched
// store entries stay untouched and unmatched or invalid fragments are
// dropped. Returns the number of records updated.
func (s *Store) MergeAnalysis(results []schema.AnalysisResult) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := 0
	for _, res := range results {
		if err := schema.ValidateAnalysisResult(&res); err != nil {
			continue
		}
		for i := range s.records {
			if s.records[i].ReqID != res.ReqID {
				continue
			}
			r := s.records[i]
			if res.Classification != nil {
				r.Classification = *res.Classification
			}
			if res.FitGapScore != nil {
				score := *res.FitGapScore
				r.FitGapScore = &score
			}
			if res.FitGapRationale != nil {
				r.FitGapRationale = *res.FitGapRationale
			}
			if res.AOC != nil {
				r.AOC = *res.AOC
			}
			if res.AOCDescription != nil {
				r.AOCDescription = *res.AOCDescription
			}
			if res.AOCComplexity != nil {
				complexity := *res.AOCComplexity
				r.AOCComplexity = &complexity
			}
			s.records[i] = r
			merged++
			break
		}
	}
	return merged
}

// NextReqID returns the display ID the next created record would get.
func (s *Store) NextReqID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextReqIDLocked()
}

// nextReqIDLocked scans every stored display ID for the maximum numeric
// suffix. A plain counter would mis-number after imports inject
// arbitrary or malformed IDs, so the scan is authoritative.
func (s *Store) nextReqIDLocked() string {
	max := 0
	for _, r := range s.records {
		if n, ok := schema.ReqIDSuffix(r.ReqID); ok && n > max {
			max = n
		}
	}
	return schema.FormatReqID(max + 1)
}

// SnapshotYAML marshals the full sequence for the export-everything path.
func (s *Store) SnapshotYAML() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := struct {
		ExportedAt   time.Time            `yaml:"exported_at"`
		Requirements []schema.Requirement `yaml:"requirements"`
	}{
		ExportedAt:   time.Now().UTC(),
		Requirements: s.records,
	}
	return yaml.Marshal(&snapshot)
}

// applyDefaults fills zero-valued enum fields before validation, matching
// the defaults the importer assigns for missing CSV columns.
func applyDefaults(r *schema.Requirement) {
	if r.Section == "" {
		r.Section = schema.SectionGeneral
	}
	if r.Status == "" {
		r.Status = schema.StatusDraft
	}
	if r.Classification == "" {
		r.Classification = schema.ClassificationFit
	}
	if r.Priority == "" {
		r.Priority = schema.PriorityMedium
	}
}
