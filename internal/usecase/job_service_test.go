package usecase

import (
	"context"
	"errors"
	"testing"

	"campussync/internal/domain"
)

func TestSubmitValidatesPayload(t *testing.T) {
	svc := NewJobService(newMemJobRepo(), nil)

	if _, err := svc.Submit(context.Background(), domain.OCRPayload{FileRef: "f"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("missing certificate_id err = %v", err)
	}
	if _, err := svc.Submit(context.Background(), domain.OCRPayload{CertificateID: "c"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("missing file_ref err = %v", err)
	}
	job, err := svc.Submit(context.Background(), domain.OCRPayload{CertificateID: "c", FileRef: "f"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if job.Type != domain.JobOCR || job.Status != domain.JobPending {
		t.Fatalf("job = %+v", job)
	}
}

func TestResubmitFailedJob(t *testing.T) {
	jobs := newMemJobRepo()
	svc := NewJobService(jobs, nil)

	raw, _ := domain.EncodePayload(domain.NormalizationPayload{CertificateID: "cert-1"})
	_ = jobs.Enqueue(context.Background(), domain.Job{ID: "job-1", Type: domain.JobNormalization, Payload: raw})
	claimed, _ := jobs.ClaimNext(context.Background())
	_ = jobs.Fail(context.Background(), claimed.ID, []byte(`{"error":"boom"}`))

	clone, err := svc.Resubmit(context.Background(), claimed.ID)
	if err != nil {
		t.Fatalf("Resubmit: %v", err)
	}
	if clone.Status != domain.JobPending || clone.Type != domain.JobNormalization {
		t.Fatalf("clone = %+v", clone)
	}

	// The original failed record survives.
	original, _ := jobs.Get(context.Background(), claimed.ID)
	if original.Status != domain.JobFailed {
		t.Fatalf("original status = %q", original.Status)
	}
}

func TestResubmitRequiresFailedStatus(t *testing.T) {
	jobs := newMemJobRepo()
	svc := NewJobService(jobs, nil)

	raw, _ := domain.EncodePayload(domain.NormalizationPayload{CertificateID: "cert-1"})
	_ = jobs.Enqueue(context.Background(), domain.Job{ID: "job-1", Type: domain.JobNormalization, Payload: raw})

	_, err := svc.Resubmit(context.Background(), "job-1")
	if !errors.Is(err, domain.ErrJobNotFailed) {
		t.Fatalf("err = %v, want ErrJobNotFailed", err)
	}
}

func TestStatusUnknownJob(t *testing.T) {
	svc := NewJobService(newMemJobRepo(), nil)
	_, err := svc.Status(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
