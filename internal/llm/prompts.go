package llm

import (
	"fmt"
	"strings"

	"rtmd/pkg/schema"
)

// Artifact is a customer discovery document submitted for requirement
// generation: meeting notes, legacy config exports, process docs.
type Artifact struct {
	Name    string `json:"name"`
	Kind    string `json:"kind,omitempty"`
	Content string `json:"content"`
}

// BuildGenerationPrompt creates a prompt that extracts requirement
// fragments from discovery artifacts. Existing requirements are listed
// so the model does not duplicate them.
func BuildGenerationPrompt(artifacts []Artifact, existing []schema.Requirement) string {
	var sb strings.Builder

	sb.WriteString(`Extract discrete, testable customer requirements from the discovery artifacts below.

RULES:
1. One requirement per discrete customer need; do not bundle
2. section must be one of: price_to_offer, lead_to_offer, order_to_cash, usage_to_bill, general
3. priority must be one of: critical, high, medium, low
4. tags are short lowercase keywords (max 5 per requirement)
5. sourceArtifact must name the artifact the requirement came from
6. Do NOT restate any existing requirement listed below

`)

	for _, a := range artifacts {
		sb.WriteString(fmt.Sprintf("ARTIFACT %q", a.Name))
		if a.Kind != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", a.Kind))
		}
		sb.WriteString(":\n")
		sb.WriteString(a.Content)
		sb.WriteString("\n\n")
	}

	if len(existing) > 0 {
		sb.WriteString("EXISTING REQUIREMENTS:\n")
		for _, r := range existing {
			sb.WriteString(fmt.Sprintf("- [%s] %s: %s\n", r.ReqID, r.Section, r.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(`Return ONLY valid JSON with this exact structure:
{
  "requirements": [
    {
      "section": "price_to_offer|lead_to_offer|order_to_cash|usage_to_bill|general",
      "description": "the requirement as a single testable statement",
      "priority": "critical|high|medium|low",
      "tags": ["keyword"],
      "sourceArtifact": "artifact name"
    }
  ]
}`)

	return sb.String()
}

// AnalysisTypeFitGap scores each requirement against standard product
// capability; AnalysisTypeAOC assigns an area of complexity.
const (
	AnalysisTypeFitGap = "fitgap"
	AnalysisTypeAOC    = "aoc"
)

// BuildClassificationPrompt creates a prompt for fit/gap or AOC
// classification of the given requirements.
func BuildClassificationPrompt(requirements []schema.Requirement, analysisType string) string {
	var sb strings.Builder

	switch analysisType {
	case AnalysisTypeAOC:
		sb.WriteString(`Assign an Area of Complexity (AOC) to each requirement below.

RULES:
1. aoc is a short domain label (e.g. "rating", "mediation", "tax", "integration")
2. aocDescription explains in one sentence why the area is complex for this requirement
3. aocComplexity must be one of: low, medium, high
4. Echo reqId unchanged; classify every requirement exactly once

`)
	default:
		sb.WriteString(`Classify each requirement below as fit or gap against standard product capability.

RULES:
1. classification must be "fit" (standard capability covers it) or "gap" (customization needed)
2. fitGapScore is 0-100: 100 means perfect standard fit, 0 means fully custom
3. fitGapRationale justifies the score in one sentence
4. Echo reqId unchanged; classify every requirement exactly once

`)
	}

	sb.WriteString("REQUIREMENTS:\n")
	for _, r := range requirements {
		sb.WriteString(fmt.Sprintf("- [%s] (%s) %s\n", r.ReqID, r.Section, r.Description))
	}
	sb.WriteString("\n")

	switch analysisType {
	case AnalysisTypeAOC:
		sb.WriteString(`Return ONLY valid JSON with this exact structure:
{
  "results": [
    {
      "reqId": "REQ-001",
      "aoc": "domain label",
      "aocDescription": "one sentence",
      "aocComplexity": "low|medium|high"
    }
  ]
}`)
	default:
		sb.WriteString(`Return ONLY valid JSON with this exact structure:
{
  "results": [
    {
      "reqId": "REQ-001",
      "classification": "fit|gap",
      "fitGapScore": 85,
      "fitGapRationale": "one sentence"
    }
  ]
}`)
	}

	return sb.String()
}
