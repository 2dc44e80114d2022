package usecase

import (
	"sort"

	"campussync/internal/domain"
)

const (
	DefaultHighThreshold = 0.8
	DefaultLowThreshold  = 0.5
)

const (
	ReasonScoreAboveHigh = "SCORE_AT_OR_ABOVE_HIGH_THRESHOLD"
	ReasonScoreBelowLow  = "SCORE_BELOW_LOW_THRESHOLD"
	ReasonScoreInBand    = "SCORE_IN_MANUAL_REVIEW_BAND"
)

// DecisionEngine maps a policy score to one of verified, manual review or
// rejected. The high threshold is inclusive, the low threshold exclusive.
type DecisionEngine struct {
	High float64
	Low  float64
}

// NewDecisionEngine falls back to the defaults when the configured
// thresholds are out of range or inverted.
func NewDecisionEngine(high, low float64) *DecisionEngine {
	if high <= 0 || high > 1 || low < 0 || low > 1 || low > high {
		high = DefaultHighThreshold
		low = DefaultLowThreshold
	}
	return &DecisionEngine{High: high, Low: low}
}

// Decide is deterministic: verified iff score >= High, rejected iff
// score < Low, manual review otherwise.
func (e *DecisionEngine) Decide(score float64, gatedComponents []string) domain.DecisionOutcome {
	score = clamp01(score)
	reasons := append([]string(nil), gatedComponents...)

	out := domain.DecisionOutcome{Score: score, ReviewState: domain.ReviewStateNone}
	switch {
	case score >= e.High:
		out.Status = domain.StatusVerified
		out.AutoApproved = true
		reasons = append(reasons, ReasonScoreAboveHigh)
	case score < e.Low:
		out.Status = domain.StatusRejected
		reasons = append(reasons, ReasonScoreBelowLow)
	default:
		out.Status = domain.StatusPending
		out.ReviewState = domain.ReviewStateManual
		reasons = append(reasons, ReasonScoreInBand)
	}
	sort.Strings(reasons)
	out.Reasons = reasons
	return out
}

// GatedReasons names breakdown components whose signal fell below their
// rule threshold, for the reviewer-facing rationale.
func GatedReasons(breakdown domain.ScoreBreakdown) []string {
	var reasons []string
	for _, c := range breakdown.Components {
		if c.Gated {
			reasons = append(reasons, "RULE_BELOW_THRESHOLD:"+c.Name)
		}
	}
	return reasons
}
