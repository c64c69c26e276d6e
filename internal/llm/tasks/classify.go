package tasks

import (
	"context"
	"fmt"

	"rtmd/internal/llm"
	"rtmd/pkg/schema"
)

// ExecuteClassificationTask runs fit/gap or AOC classification over the
// given requirements.
func ExecuteClassificationTask(
	client *llm.Client,
	ctx context.Context,
	input *ClassificationInput,
) (*ClassificationOutput, error) {
	if len(input.Requirements) == 0 {
		return nil, fmt.Errorf("at least one requirement is required")
	}
	if input.AnalysisType != llm.AnalysisTypeFitGap && input.AnalysisType != llm.AnalysisTypeAOC {
		return nil, fmt.Errorf("invalid analysis type '%s', must be %s|%s",
			input.AnalysisType, llm.AnalysisTypeFitGap, llm.AnalysisTypeAOC)
	}

	prompt := llm.BuildClassificationPrompt(input.Requirements, input.AnalysisType)

	validate := func(output *ClassificationOutput) error {
		return ValidateClassificationOutput(output, input.AnalysisType)
	}

	result, err := llm.GenerateStructured[ClassificationOutput](
		client,
		ctx,
		"", // Use default model
		prompt,
		validate,
	)

	if err != nil {
		return nil, fmt.Errorf("classification task failed: %w", err)
	}

	return result, nil
}

// ValidateClassificationOutput checks every result fragment carries the
// fields its analysis type promises.
func ValidateClassificationOutput(output *ClassificationOutput, analysisType string) error {
	if len(output.Results) == 0 {
		return fmt.Errorf("at least one result is required")
	}

	for i, res := range output.Results {
		if res.ReqID == "" {
			return fmt.Errorf("results[%d]: reqId is required", i)
		}

		switch analysisType {
		case llm.AnalysisTypeFitGap:
			if res.Classification == nil {
				return fmt.Errorf("results[%d]: classification is required", i)
			}
			if *res.Classification != schema.ClassificationFit && *res.Classification != schema.ClassificationGap {
				return fmt.Errorf("results[%d]: classification must be fit|gap, got '%s'", i, *res.Classification)
			}
			if res.FitGapScore == nil {
				return fmt.Errorf("results[%d]: fitGapScore is required", i)
			}
			if *res.FitGapScore < schema.FitGapScoreMin || *res.FitGapScore > schema.FitGapScoreMax {
				return fmt.Errorf("results[%d]: fitGapScore must be %d-%d, got %d",
					i, schema.FitGapScoreMin, schema.FitGapScoreMax, *res.FitGapScore)
			}
			if res.FitGapRationale == nil || *res.FitGapRationale == "" {
				return fmt.Errorf("results[%d]: fitGapRationale is required", i)
			}

		case llm.AnalysisTypeAOC:
			if res.AOC == nil || *res.AOC == "" {
				return fmt.Errorf("results[%d]: aoc is required", i)
			}
			if res.AOCComplexity == nil {
				return fmt.Errorf("results[%d]: aocComplexity is required", i)
			}
			switch *res.AOCComplexity {
			case schema.ComplexityLow, schema.ComplexityMedium, schema.ComplexityHigh:
			default:
				return fmt.Errorf("results[%d]: aocComplexity must be low|medium|high, got '%s'", i, *res.AOCComplexity)
			}
		}
	}

	return nil
}
