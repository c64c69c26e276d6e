package tasks

import (
	"context"
	"fmt"
	"strings"

	"rtmd/internal/llm"
)

// maxTagsPerFragment bounds how many tags the model may attach.
const maxTagsPerFragment = 5

// ExecuteGenerationTask extracts requirement fragments from discovery
// artifacts.
func ExecuteGenerationTask(
	client *llm.Client,
	ctx context.Context,
	input *GenerationInput,
) (*GenerationOutput, error) {
	if len(input.Artifacts) == 0 {
		return nil, fmt.Errorf("at least one artifact is required")
	}

	prompt := llm.BuildGenerationPrompt(input.Artifacts, input.ExistingRequirements)

	result, err := llm.GenerateStructured[GenerationOutput](
		client,
		ctx,
		"", // Use default model
		prompt,
		ValidateGenerationOutput,
	)

	if err != nil {
		return nil, fmt.Errorf("requirement generation task failed: %w", err)
	}

	return result, nil
}

// ValidateGenerationOutput rejects structurally invalid model output so
// the retry loop can feed the error back.
func ValidateGenerationOutput(output *GenerationOutput) error {
	if len(output.Requirements) == 0 {
		return fmt.Errorf("at least one requirement is required")
	}

	validSection := map[string]bool{
		"price_to_offer": true,
		"lead_to_offer":  true,
		"order_to_cash":  true,
		"usage_to_bill":  true,
		"general":        true,
	}
	validPriority := map[string]bool{
		"critical": true,
		"high":     true,
		"medium":   true,
		"low":      true,
	}

	for i, frag := range output.Requirements {
		if !validSection[frag.Section] {
			return fmt.Errorf("requirements[%d]: invalid section '%s'", i, frag.Section)
		}
		if strings.TrimSpace(frag.Description) == "" {
			return fmt.Errorf("requirements[%d]: description is required", i)
		}
		if !validPriority[frag.Priority] {
			return fmt.Errorf("requirements[%d]: invalid priority '%s', must be critical|high|medium|low", i, frag.Priority)
		}
		if len(frag.Tags) > maxTagsPerFragment {
			return fmt.Errorf("requirements[%d]: at most %d tags allowed, got %d", i, maxTagsPerFragment, len(frag.Tags))
		}
		if frag.SourceArtifact == "" {
			return fmt.Errorf("requirements[%d]: sourceArtifact is required", i)
		}
	}

	return nil
}
