package usecase

import (
	"testing"

	"campussync/internal/domain"
)

func TestDecideThresholdBands(t *testing.T) {
	e := NewDecisionEngine(0.8, 0.5)
	cases := []struct {
		score      float64
		status     domain.VerificationStatus
		review     domain.ReviewState
		autoApprov bool
	}{
		{0.85, domain.StatusVerified, domain.ReviewStateNone, true},
		{0.80, domain.StatusVerified, domain.ReviewStateNone, true},
		{0.79, domain.StatusPending, domain.ReviewStateManual, false},
		{0.50, domain.StatusPending, domain.ReviewStateManual, false},
		{0.45, domain.StatusRejected, domain.ReviewStateNone, false},
		{0.20, domain.StatusRejected, domain.ReviewStateNone, false},
		{0.0, domain.StatusRejected, domain.ReviewStateNone, false},
		{1.0, domain.StatusVerified, domain.ReviewStateNone, true},
	}
	for _, tc := range cases {
		out := e.Decide(tc.score, nil)
		if out.Status != tc.status {
			t.Errorf("Decide(%v) status = %q, want %q", tc.score, out.Status, tc.status)
		}
		if out.ReviewState != tc.review {
			t.Errorf("Decide(%v) review = %q, want %q", tc.score, out.ReviewState, tc.review)
		}
		if out.AutoApproved != tc.autoApprov {
			t.Errorf("Decide(%v) autoApproved = %v", tc.score, out.AutoApproved)
		}
		if len(out.Reasons) == 0 {
			t.Errorf("Decide(%v) produced no reasons", tc.score)
		}
	}
}

func TestDecideIncludesGatedReasons(t *testing.T) {
	e := NewDecisionEngine(0.8, 0.5)
	out := e.Decide(0.6, []string{"RULE_BELOW_THRESHOLD:ai"})
	found := false
	for _, r := range out.Reasons {
		if r == "RULE_BELOW_THRESHOLD:ai" {
			found = true
		}
	}
	if !found {
		t.Fatalf("reasons = %v, missing gated component", out.Reasons)
	}
}

func TestNewDecisionEngineRejectsBadThresholds(t *testing.T) {
	for _, pair := range [][2]float64{{0, 0.5}, {1.5, 0.5}, {0.5, 0.8}, {0.8, -0.1}} {
		e := NewDecisionEngine(pair[0], pair[1])
		if e.High != DefaultHighThreshold || e.Low != DefaultLowThreshold {
			t.Errorf("NewDecisionEngine(%v, %v) = %+v, want defaults", pair[0], pair[1], e)
		}
	}
}

func TestGatedReasons(t *testing.T) {
	reasons := GatedReasons(domain.ScoreBreakdown{Components: []domain.ScoreComponent{
		{Name: "qr", Gated: true},
		{Name: "ai", Gated: false},
	}})
	if len(reasons) != 1 || reasons[0] != "RULE_BELOW_THRESHOLD:qr" {
		t.Fatalf("reasons = %v", reasons)
	}
}
