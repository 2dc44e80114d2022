package policyopa

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"campussync/internal/domain"
)

const referencePolicy = `package campussync.issuance

deny[entry] {
	input.decision.status != "verified"
	entry := {"code": "NOT_VERIFIED", "message": "certificate has not passed verification"}
}

deny[entry] {
	input.certificate.confidence < 0.7
	entry := {"code": "LOW_CONFIDENCE", "message": "extraction confidence below org floor"}
}

result := {"allow": count(deny) == 0, "deny": [e | e := deny[_]]}
`

func writeBundle(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func newEngine(t *testing.T) *Engine {
	t.Helper()
	dir := writeBundle(t, map[string]string{"issuance.rego": referencePolicy})
	engine, err := NewEngineFromBundlePath(context.Background(), dir, "org_default_v1")
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func baseInput() domain.IssuancePolicyInput {
	return domain.IssuancePolicyInput{
		Certificate: domain.IssuanceCertificate{
			ID:          "cert-1",
			StudentID:   "student-1",
			OrgID:       "org-1",
			Title:       "Internship Certificate",
			Institution: "Indian Institute of Technology Bombay",
			DateIssued:  "2023-06-19",
			Confidence:  0.92,
		},
		Decision: domain.DecisionOutcome{
			Status:       domain.StatusVerified,
			ReviewState:  domain.ReviewStateNone,
			AutoApproved: true,
			Score:        0.91,
		},
		Breakdown: domain.ScoreBreakdown{Score: 0.91},
	}
}

func TestEngineDeterministic(t *testing.T) {
	engine := newEngine(t)
	input := baseInput()

	first, err := engine.Evaluate(context.Background(), input)
	if err != nil {
		t.Fatalf("evaluate first: %v", err)
	}
	second, err := engine.Evaluate(context.Background(), input)
	if err != nil {
		t.Fatalf("evaluate second: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatal("evaluation is not deterministic")
	}
	if !first.Result.Allow {
		t.Fatalf("baseline input denied: %+v", first.Result.Deny)
	}
	if len(first.Result.Deny) != 0 {
		t.Fatalf("deny = %+v", first.Result.Deny)
	}
	if first.BundleHash == "" || first.BundleID != "org_default_v1" {
		t.Fatalf("bundle identity = %q/%q", first.BundleID, first.BundleHash)
	}
}

func TestEngineDenies(t *testing.T) {
	engine := newEngine(t)

	tests := []struct {
		name   string
		mutate func(input *domain.IssuancePolicyInput)
		want   []string
	}{
		{
			name: "not verified",
			mutate: func(input *domain.IssuancePolicyInput) {
				input.Decision.Status = domain.StatusPending
			},
			want: []string{"NOT_VERIFIED"},
		},
		{
			name: "low confidence",
			mutate: func(input *domain.IssuancePolicyInput) {
				input.Certificate.Confidence = 0.4
			},
			want: []string{"LOW_CONFIDENCE"},
		},
		{
			name: "both, sorted by code",
			mutate: func(input *domain.IssuancePolicyInput) {
				input.Decision.Status = domain.StatusRejected
				input.Certificate.Confidence = 0.1
			},
			want: []string{"LOW_CONFIDENCE", "NOT_VERIFIED"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := baseInput()
			tt.mutate(&input)
			out, err := engine.Evaluate(context.Background(), input)
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if out.Result.Allow {
				t.Fatal("expected deny")
			}
			got := make([]string, 0, len(out.Result.Deny))
			for _, item := range out.Result.Deny {
				got = append(got, item.Code)
			}
			if !reflect.DeepEqual(tt.want, got) {
				t.Fatalf("deny codes = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEngineRejectsTimeBuiltin(t *testing.T) {
	rejectBuiltin(t, "time.now_ns()")
}

func TestEngineRejectsHTTPSend(t *testing.T) {
	rejectBuiltin(t, `http.send({"method": "get", "url": "https://example.com"})`)
}

func TestEngineRejectsRand(t *testing.T) {
	rejectBuiltin(t, "rand.intn(10)")
}

func rejectBuiltin(t *testing.T, expr string) {
	t.Helper()
	dir := writeBundle(t, map[string]string{
		"policy.rego": `package campussync.issuance
result := {"allow": true, "deny": []} {
  ` + expr + `
}`,
	})
	if _, err := NewEngineFromBundlePath(context.Background(), dir, "test"); err == nil {
		t.Fatal("expected builtin to be rejected")
	}
}

func TestBundleHashIgnoresJunk(t *testing.T) {
	base := map[string]string{"issuance.rego": referencePolicy}
	clean := writeBundle(t, base)
	cluttered := writeBundle(t, map[string]string{
		"issuance.rego": referencePolicy,
		".DS_Store":     "junk",
		"notes.md":      "reviewer notes",
	})

	cleanHash, err := ComputeBundleHashFromPath(clean)
	if err != nil {
		t.Fatalf("hash clean: %v", err)
	}
	clutteredHash, err := ComputeBundleHashFromPath(cluttered)
	if err != nil {
		t.Fatalf("hash cluttered: %v", err)
	}
	if cleanHash != clutteredHash {
		t.Fatal("non-normative files changed the bundle hash")
	}

	edited := writeBundle(t, map[string]string{"issuance.rego": referencePolicy + "\n# rev2\n"})
	editedHash, err := ComputeBundleHashFromPath(edited)
	if err != nil {
		t.Fatalf("hash edited: %v", err)
	}
	if editedHash == cleanHash {
		t.Fatal("rego edit did not change the bundle hash")
	}
}
