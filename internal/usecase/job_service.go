package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"campussync/internal/domain"

	"github.com/google/uuid"
)

// JobService is the submission and inspection surface of the queue. The
// worker owns all status transitions; this service only enqueues and
// reads, plus the operator-level resubmission of failed jobs.
type JobService struct {
	Jobs   JobRepository
	Logger *slog.Logger
}

func NewJobService(jobs JobRepository, log *slog.Logger) *JobService {
	if log == nil {
		log = slog.Default()
	}
	return &JobService{Jobs: jobs, Logger: log}
}

// Submit validates and enqueues a typed payload. The job starts pending;
// the worker picks it up on its next poll.
func (s *JobService) Submit(ctx context.Context, payload domain.JobPayload) (domain.Job, error) {
	if err := validatePayload(payload); err != nil {
		return domain.Job{}, err
	}
	raw, err := domain.EncodePayload(payload)
	if err != nil {
		return domain.Job{}, err
	}
	// The ID is assigned here, not in the repository, so callers get it back.
	job := domain.Job{
		ID:      uuid.NewString(),
		Type:    payload.JobType(),
		Payload: raw,
		Status:  domain.JobPending,
	}
	if err := s.Jobs.Enqueue(ctx, job); err != nil {
		return domain.Job{}, fmt.Errorf("enqueue %s job: %w", payload.JobType(), err)
	}
	s.Logger.Info("job submitted", "job_id", job.ID, "type", string(payload.JobType()))
	return job, nil
}

func (s *JobService) Status(ctx context.Context, id string) (domain.Job, error) {
	job, err := s.Jobs.Get(ctx, id)
	if err != nil {
		return domain.Job{}, err
	}
	if job == nil {
		return domain.Job{}, domain.ErrNotFound
	}
	return *job, nil
}

// Resubmit clones a failed job's payload into a fresh pending job. The
// failed job keeps its record; only failed jobs qualify.
func (s *JobService) Resubmit(ctx context.Context, id string) (domain.Job, error) {
	job, err := s.Jobs.Get(ctx, id)
	if err != nil {
		return domain.Job{}, err
	}
	if job == nil {
		return domain.Job{}, domain.ErrNotFound
	}
	if job.Status != domain.JobFailed {
		return domain.Job{}, domain.ErrJobNotFailed
	}
	clone := domain.Job{
		ID:      uuid.NewString(),
		Type:    job.Type,
		Payload: job.Payload,
		Status:  domain.JobPending,
	}
	if err := s.Jobs.Enqueue(ctx, clone); err != nil {
		return domain.Job{}, fmt.Errorf("resubmit job %s: %w", id, err)
	}
	s.Logger.Info("job resubmitted", "source_job_id", id, "type", string(job.Type))
	return clone, nil
}

func (s *JobService) List(ctx context.Context, status domain.JobStatus, limit int) ([]domain.Job, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.Jobs.List(ctx, status, limit)
}

func validatePayload(payload domain.JobPayload) error {
	switch p := payload.(type) {
	case domain.OCRPayload:
		if strings.TrimSpace(p.CertificateID) == "" {
			return fmt.Errorf("%w: certificate_id is required", domain.ErrValidation)
		}
		if strings.TrimSpace(p.FileRef) == "" {
			return fmt.Errorf("%w: file_ref is required", domain.ErrValidation)
		}
	case domain.VerificationPayload:
		if strings.TrimSpace(p.CertificateID) == "" {
			return fmt.Errorf("%w: certificate_id is required", domain.ErrValidation)
		}
	case domain.NormalizationPayload:
		if strings.TrimSpace(p.CertificateID) == "" {
			return fmt.Errorf("%w: certificate_id is required", domain.ErrValidation)
		}
	default:
		return fmt.Errorf("%w: %T", domain.ErrUnknownJobType, payload)
	}
	return nil
}
