package db

import (
	"context"
	"errors"
	"testing"

	"campussync/internal/domain"
)

func TestCertificateCRUD(t *testing.T) {
	repo := NewCertificateRepository(testDB(t))
	ctx := context.Background()

	cert := domain.Certificate{
		StudentID:   "student-1",
		OrgID:       "org-1",
		Title:       "Internship Certificate",
		Institution: "IIT Bombay",
		FileRef:     "uploads/c.pdf",
	}
	cert.ID = newID()
	if err := repo.Create(ctx, cert); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.Get(ctx, cert.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != domain.StatusPending || got.ReviewState != domain.ReviewStateNone {
		t.Fatalf("defaults not applied: %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("created_at not set")
	}

	got.Status = domain.StatusVerified
	got.AutoApproved = true
	got.Confidence = 0.91
	if err := repo.Update(ctx, *got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	back, _ := repo.Get(ctx, cert.ID)
	if back.Status != domain.StatusVerified || !back.AutoApproved || back.Confidence != 0.91 {
		t.Fatalf("update lost: %+v", back)
	}

	// Zero values must persist too.
	back.AutoApproved = false
	if err := repo.Update(ctx, *back); err != nil {
		t.Fatalf("Update: %v", err)
	}
	back2, _ := repo.Get(ctx, cert.ID)
	if back2.AutoApproved {
		t.Fatal("false AutoApproved not persisted")
	}
}

func TestCertificateGetMissing(t *testing.T) {
	repo := NewCertificateRepository(testDB(t))
	if _, err := repo.Get(context.Background(), newID()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCertificateUpdateMissing(t *testing.T) {
	repo := NewCertificateRepository(testDB(t))
	err := repo.Update(context.Background(), domain.Certificate{ID: newID()})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListManualReviewFiltersByOrg(t *testing.T) {
	repo := NewCertificateRepository(testDB(t))
	ctx := context.Background()

	mk := func(org string, status domain.VerificationStatus, review domain.ReviewState) {
		t.Helper()
		if err := repo.Create(ctx, domain.Certificate{
			ID: newID(), StudentID: "s", OrgID: org, Status: status, ReviewState: review,
		}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	mk("org-1", domain.StatusPending, domain.ReviewStateManual)
	mk("org-1", domain.StatusPending, domain.ReviewStateNone)
	mk("org-1", domain.StatusVerified, domain.ReviewStateNone)
	mk("org-2", domain.StatusPending, domain.ReviewStateManual)

	queued, err := repo.ListManualReview(ctx, "org-1")
	if err != nil {
		t.Fatalf("ListManualReview: %v", err)
	}
	if len(queued) != 1 {
		t.Fatalf("queued = %d, want 1", len(queued))
	}

	all, err := repo.ListManualReview(ctx, "")
	if err != nil {
		t.Fatalf("ListManualReview: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("all orgs queued = %d, want 2", len(all))
	}
}

func TestMetadataUpsert(t *testing.T) {
	repo := NewCertificateRepository(testDB(t))
	ctx := context.Background()
	certID := newID()

	if err := repo.UpsertMetadata(ctx, domain.CertificateMetadata{
		CertificateID:  certID,
		QRVerified:     true,
		LogoMatchScore: 0.85,
		Details:        map[string]any{"matched_issuer_id": "iitb"},
	}); err != nil {
		t.Fatalf("UpsertMetadata: %v", err)
	}

	// Second write replaces the row.
	if err := repo.UpsertMetadata(ctx, domain.CertificateMetadata{
		CertificateID:  certID,
		QRVerified:     false,
		LogoMatchScore: 0.2,
		Details:        map[string]any{"matched_issuer_id": ""},
	}); err != nil {
		t.Fatalf("UpsertMetadata: %v", err)
	}

	meta, err := repo.GetMetadata(ctx, certID)
	if err != nil {
		t.Fatalf("GetMetadata: %v", err)
	}
	if meta.QRVerified || meta.LogoMatchScore != 0.2 {
		t.Fatalf("meta = %+v", meta)
	}
	if meta.Details["matched_issuer_id"] != "" {
		t.Fatalf("details = %+v", meta.Details)
	}
}

func TestGetMetadataMissingIsNil(t *testing.T) {
	repo := NewCertificateRepository(testDB(t))
	meta, err := repo.GetMetadata(context.Background(), newID())
	if err != nil {
		t.Fatalf("GetMetadata: %v", err)
	}
	if meta != nil {
		t.Fatalf("meta = %+v, want nil", meta)
	}
}

func TestNoDBMode(t *testing.T) {
	repo := NewCertificateRepository(nil)
	if err := repo.Create(context.Background(), domain.Certificate{ID: newID()}); !errors.Is(err, errDBUnavailable) {
		t.Fatalf("err = %v, want errDBUnavailable", err)
	}
}
