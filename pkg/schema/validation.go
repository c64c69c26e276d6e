package schema

import (
	"fmt"
	"strings"
)

// ValidateRequirement validates a requirement record.
func ValidateRequirement(r *Requirement) error {
	switch r.Section {
	case SectionPriceToOffer, SectionLeadToOffer, SectionOrderToCash, SectionUsageToBill, SectionGeneral:
	default:
		return fmt.Errorf("invalid section: %s", r.Section)
	}

	switch r.Status {
	case StatusDraft, StatusCompleted:
	default:
		return fmt.Errorf("invalid status: %s", r.Status)
	}

	switch r.Classification {
	case ClassificationFit, ClassificationGap:
	default:
		return fmt.Errorf("invalid classification: %s", r.Classification)
	}

	switch r.Priority {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
	default:
		return fmt.Errorf("invalid priority: %s", r.Priority)
	}

	if strings.TrimSpace(r.Description) == "" {
		return fmt.Errorf("description is required")
	}

	if r.FitGapScore != nil && (*r.FitGapScore < FitGapScoreMin || *r.FitGapScore > FitGapScoreMax) {
		return fmt.Errorf("fitGapScore must be %d-%d, got %d", FitGapScoreMin, FitGapScoreMax, *r.FitGapScore)
	}

	if r.AOCComplexity != nil {
		switch *r.AOCComplexity {
		case ComplexityLow, ComplexityMedium, ComplexityHigh:
		default:
			return fmt.Errorf("invalid aocComplexity: %s", *r.AOCComplexity)
		}
	}

	return nil
}

// ValidateAnalysisResult validates a classification fragment before merge.
func ValidateAnalysisResult(res *AnalysisResult) error {
	if res.ReqID == "" {
		return fmt.Errorf("reqId is required")
	}

	if res.Classification != nil {
		switch *res.Classification {
		case ClassificationFit, ClassificationGap:
		default:
			return fmt.Errorf("invalid classification: %s", *res.Classification)
		}
	}

	if res.FitGapScore != nil && (*res.FitGapScore < FitGapScoreMin || *res.FitGapScore > FitGapScoreMax) {
		return fmt.Errorf("fitGapScore must be %d-%d, got %d", FitGapScoreMin, FitGapScoreMax, *res.FitGapScore)
	}

	if res.AOCComplexity != nil {
		switch *res.AOCComplexity {
		case ComplexityLow, ComplexityMedium, ComplexityHigh:
		default:
			return fmt.Errorf("invalid aocComplexity: %s", *res.AOCComplexity)
		}
	}

	return nil
}
