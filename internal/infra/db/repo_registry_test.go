package db

import (
	"context"
	"errors"
	"testing"

	"campussync/internal/domain"
)

func TestTrustedIssuerRoundTrip(t *testing.T) {
	repo := NewIssuerRepository(testDB(t))
	ctx := context.Background()

	issuer := domain.TrustedIssuer{
		ID:                  newID(),
		Name:                "Indian Institute of Technology Bombay",
		Domain:              "iitb.ac.in",
		TemplatePatterns:    []string{`indian institute of technology,?\s+bombay`},
		ConfidenceThreshold: 0.7,
		Active:              true,
	}
	if err := repo.Create(ctx, issuer); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.Get(ctx, issuer.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.TemplatePatterns) != 1 || got.TemplatePatterns[0] != issuer.TemplatePatterns[0] {
		t.Fatalf("patterns = %v", got.TemplatePatterns)
	}

	got.Active = false
	if err := repo.Update(ctx, *got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	active, err := repo.List(ctx, true)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("active = %d, want 0 after deactivation", len(active))
	}
	all, _ := repo.List(ctx, false)
	if len(all) != 1 {
		t.Fatalf("all = %d", len(all))
	}
}

func TestIssuerGetMissing(t *testing.T) {
	repo := NewIssuerRepository(testDB(t))
	if _, err := repo.Get(context.Background(), newID()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestVerificationRuleRoundTrip(t *testing.T) {
	repo := NewRuleRepository(testDB(t))
	ctx := context.Background()

	rule := domain.VerificationRule{
		ID:        newID(),
		Name:      "ai_confidence_floor",
		Type:      domain.RuleAIConfidence,
		Weight:    0.5,
		Threshold: 0.6,
		Config:    map[string]any{"model": "default"},
		Active:    true,
	}
	if err := repo.Create(ctx, rule); err != nil {
		t.Fatalf("Create: %v", err)
	}

	active, err := repo.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 1 || active[0].Type != domain.RuleAIConfidence {
		t.Fatalf("active = %+v", active)
	}
	if active[0].Config["model"] != "default" {
		t.Fatalf("config = %+v", active[0].Config)
	}

	if err := repo.SetActive(ctx, rule.ID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	active, _ = repo.ListActive(ctx)
	if len(active) != 0 {
		t.Fatal("deactivated rule still listed as active")
	}
	all, _ := repo.List(ctx)
	if len(all) != 1 {
		t.Fatalf("all = %d", len(all))
	}
}

func TestSetActiveMissingRule(t *testing.T) {
	repo := NewRuleRepository(testDB(t))
	if err := repo.SetActive(context.Background(), newID(), true); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
