package domain

import "time"

type RuleType string

const (
	RuleQRVerification RuleType = "qr_verification"
	RuleLogoMatch      RuleType = "logo_match"
	RuleTemplateMatch  RuleType = "template_match"
	RuleAIConfidence   RuleType = "ai_confidence"
)

func (t RuleType) Valid() bool {
	switch t {
	case RuleQRVerification, RuleLogoMatch, RuleTemplateMatch, RuleAIConfidence:
		return true
	}
	return false
}

// VerificationRule is a named, weighted signal the policy scorer combines.
// The active set at evaluation time defines the weighting function; weights
// need not sum to 1, the scorer normalizes.
type VerificationRule struct {
	ID        string
	Name      string
	Type      RuleType
	Weight    float64
	Threshold float64
	Config    map[string]any
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
