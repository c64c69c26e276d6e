package schema

// Section identifies the implementation workstream a requirement belongs to.
type Section string

const (
	SectionPriceToOffer Section = "price_to_offer"
	SectionLeadToOffer  Section = "lead_to_offer"
	SectionOrderToCash  Section = "order_to_cash"
	SectionUsageToBill  Section = "usage_to_bill"
	SectionGeneral      Section = "general"
)

// Status represents the workflow state of a requirement.
type Status string

const (
	StatusDraft     Status = "draft"     // Captured but not yet confirmed with the customer
	StatusCompleted Status = "completed" // Signed off during discovery review
)

// Classification marks whether standard product capability covers the requirement.
type Classification string

const (
	ClassificationFit Classification = "fit" // Met by standard capability
	ClassificationGap Classification = "gap" // Needs customization or workaround
)

// Priority represents the requirement priority level.
type Priority string

const (
	PriorityCritical Priority = "critical" // Blocks go-live
	PriorityHigh     Priority = "high"     // Needed for first production cycle
	PriorityMedium   Priority = "medium"   // Important but not blocking
	PriorityLow      Priority = "low"      // Nice to have
)

// Complexity grades an area-of-complexity finding.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// Score and formatting limits.
const (
	FitGapScoreMin = 0
	FitGapScoreMax = 100

	// ReqIDDigits is the zero-padded width of the display ID suffix.
	ReqIDDigits = 3
)
