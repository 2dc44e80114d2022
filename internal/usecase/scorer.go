package usecase

import (
	"sort"

	"campussync/internal/domain"
)

// Default linear weighting used when no verification rules are active.
const (
	defaultWeightNormalization = 0.4
	defaultWeightInstitution   = 0.3
	defaultWeightIssuer        = 0.3
)

// ScoreInput carries every signal the scorer may combine. All values are
// expected in [0,1]; the output is clamped regardless.
type ScoreInput struct {
	NormalizationConfidence float64
	InstitutionScore        float64
	IssuerPresent           bool
	QRVerified              bool
	LogoScore               float64
	TemplateScore           float64
	AIConfidence            float64
	Rules                   []domain.VerificationRule
}

// PolicyScorer is a pure function of its input so scoring stays
// reproducible and testable independent of storage.
type PolicyScorer struct{}

// Score combines the signals into a single policy score in [0,1]. Active
// rules override the fixed default weights: each contributes
// weight x rule signal, and the result is the weight-normalized sum. A rule
// whose signal falls below its threshold is gated to zero contribution.
func (s *PolicyScorer) Score(input ScoreInput) domain.ScoreBreakdown {
	rules := activeRules(input.Rules)
	if totalWeight(rules) <= 0 {
		return s.defaultScore(input)
	}

	var (
		components []domain.ScoreComponent
		sum        float64
		weightSum  float64
	)
	for _, rule := range rules {
		signal := clamp01(ruleSignal(rule.Type, input))
		gated := signal < rule.Threshold
		contribution := signal
		if gated {
			contribution = 0
		}
		components = append(components, domain.ScoreComponent{
			Name:     rule.Name,
			Signal:   signal,
			Weight:   rule.Weight,
			Weighted: rule.Weight * contribution,
			Gated:    gated,
		})
		sum += rule.Weight * contribution
		weightSum += rule.Weight
	}
	sortComponents(components)
	return domain.ScoreBreakdown{
		Score:      clamp01(sum / weightSum),
		Components: components,
	}
}

func (s *PolicyScorer) defaultScore(input ScoreInput) domain.ScoreBreakdown {
	issuerSignal := 0.0
	if input.IssuerPresent {
		issuerSignal = 1.0
	}
	components := []domain.ScoreComponent{
		{Name: "normalization_confidence", Signal: clamp01(input.NormalizationConfidence), Weight: defaultWeightNormalization},
		{Name: "institution_match", Signal: clamp01(input.InstitutionScore), Weight: defaultWeightInstitution},
		{Name: "issuer_present", Signal: issuerSignal, Weight: defaultWeightIssuer},
	}
	sum := 0.0
	for i := range components {
		components[i].Weighted = components[i].Weight * components[i].Signal
		sum += components[i].Weighted
	}
	return domain.ScoreBreakdown{Score: clamp01(sum), Components: components}
}

func ruleSignal(t domain.RuleType, input ScoreInput) float64 {
	switch t {
	case domain.RuleQRVerification:
		if input.QRVerified {
			return 1.0
		}
		return 0.0
	case domain.RuleLogoMatch:
		return input.LogoScore
	case domain.RuleTemplateMatch:
		return input.TemplateScore
	case domain.RuleAIConfidence:
		return input.AIConfidence
	}
	return 0.0
}

func activeRules(rules []domain.VerificationRule) []domain.VerificationRule {
	out := make([]domain.VerificationRule, 0, len(rules))
	for _, rule := range rules {
		if rule.Active && rule.Type.Valid() && rule.Weight > 0 {
			out = append(out, rule)
		}
	}
	return out
}

func totalWeight(rules []domain.VerificationRule) float64 {
	sum := 0.0
	for _, rule := range rules {
		sum += rule.Weight
	}
	return sum
}

func sortComponents(components []domain.ScoreComponent) {
	sort.Slice(components, func(i, j int) bool {
		return components[i].Name < components[j].Name
	})
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
