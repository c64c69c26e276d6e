package tasks

import (
	"rtmd/internal/llm"
	"rtmd/pkg/schema"
)

// Generation Task Types

// GenerationInput is the input for requirement generation from artifacts.
type GenerationInput struct {
	Artifacts            []llm.Artifact       `json:"artifacts"`
	ExistingRequirements []schema.Requirement `json:"existingRequirements,omitempty"`
}

// GeneratedFragment is one requirement fragment produced by the model.
// The store turns fragments into full records on append.
type GeneratedFragment struct {
	Section        string   `json:"section"`
	Description    string   `json:"description"`
	Priority       string   `json:"priority"`
	Tags           []string `json:"tags"`
	SourceArtifact string   `json:"sourceArtifact"`
}

// GenerationOutput is the output from the generation task.
type GenerationOutput struct {
	Requirements []GeneratedFragment `json:"requirements"`
}

// Classification Task Types

// ClassificationInput is the input for fit/gap or AOC classification.
type ClassificationInput struct {
	Requirements []schema.Requirement `json:"requirements"`
	AnalysisType string               `json:"analysisType"` // "fitgap" or "aoc"
}

// ClassificationOutput is the output from the classification task,
// keyed by display ID for merge-back into the store.
type ClassificationOutput struct {
	Results []schema.AnalysisResult `json:"results"`
}
