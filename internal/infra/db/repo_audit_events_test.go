package db

import (
	"context"
	"testing"

	"campussync/internal/domain"
)

func appendEvent(t *testing.T, repo *AuditEventRepository, orgID string, et domain.AuditEventType) domain.AuditEvent {
	t.Helper()
	out, err := repo.Append(context.Background(), domain.AuditEvent{
		OrgID:      orgID,
		EventType:  et,
		ActorType:  domain.AuditActorSystem,
		TargetType: "certificate",
		TargetID:   newID(),
		Result:     domain.AuditResultSuccess,
		Payload:    map[string]any{"k": "v"},
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	return out
}

func TestAuditChainLinksEvents(t *testing.T) {
	repo := NewAuditEventRepository(testDB(t))

	first := appendEvent(t, repo, "org-1", domain.AuditCertificateDecided)
	second := appendEvent(t, repo, "org-1", domain.AuditCredentialIssued)

	if first.Seq != 1 || second.Seq != 2 {
		t.Fatalf("seqs = %d, %d", first.Seq, second.Seq)
	}
	if first.PrevEventHash != zeroAuditHash() {
		t.Fatalf("first prev hash = %q", first.PrevEventHash)
	}
	if second.PrevEventHash != first.EventHash {
		t.Fatal("chain link broken between events")
	}
	if first.EventHash == "" || first.PayloadHash == "" {
		t.Fatalf("hashes missing: %+v", first)
	}
}

func TestAuditChainIsPerOrganization(t *testing.T) {
	repo := NewAuditEventRepository(testDB(t))

	a := appendEvent(t, repo, "org-a", domain.AuditCertificateDecided)
	b := appendEvent(t, repo, "org-b", domain.AuditCertificateDecided)

	if a.Seq != 1 || b.Seq != 1 {
		t.Fatalf("seqs = %d, %d, each org starts its own chain", a.Seq, b.Seq)
	}
	if b.PrevEventHash != zeroAuditHash() {
		t.Fatal("second org chained onto the first org's events")
	}
}

func TestAuditDefaultsToSystemOrg(t *testing.T) {
	repo := NewAuditEventRepository(testDB(t))
	out := appendEvent(t, repo, "", domain.AuditJobFailed)
	if out.OrgID != domain.AuditSystemOrgID {
		t.Fatalf("org = %q", out.OrgID)
	}
	events, err := repo.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %d", len(events))
	}
}

func TestAuditRequiresEventType(t *testing.T) {
	repo := NewAuditEventRepository(testDB(t))
	if _, err := repo.Append(context.Background(), domain.AuditEvent{}); err == nil {
		t.Fatal("expected error for missing event_type")
	}
}

func TestVerifyChain(t *testing.T) {
	repo := NewAuditEventRepository(testDB(t))
	for i := 0; i < 5; i++ {
		appendEvent(t, repo, "org-1", domain.AuditCertificateDecided)
	}
	if err := repo.VerifyChain(context.Background(), "org-1"); err != nil {
		t.Fatalf("VerifyChain: %v", err)
	}
}

func TestAuditListOrderedBySeq(t *testing.T) {
	repo := NewAuditEventRepository(testDB(t))
	for i := 0; i < 3; i++ {
		appendEvent(t, repo, "org-1", domain.AuditCertificateReviewed)
	}
	events, err := repo.List(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for i, e := range events {
		if e.Seq != int64(i+1) {
			t.Fatalf("event %d seq = %d", i, e.Seq)
		}
		if e.Payload["k"] != "v" {
			t.Fatalf("payload lost: %+v", e.Payload)
		}
	}
}
