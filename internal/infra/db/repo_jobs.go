package db

import (
	"context"
	"errors"
	"time"

	"campussync/internal/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Enqueue(ctx context.Context, job domain.Job) error {
	if r.db == nil {
		return errDBUnavailable
	}
	if job.ID == "" {
		job.ID = newID()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	model := JobModel{
		ID:        job.ID,
		Type:      string(job.Type),
		Payload:   datatypes.JSON(job.Payload),
		Status:    string(domain.JobPending),
		CreatedAt: job.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

func (r *JobRepository) Get(ctx context.Context, id string) (*domain.Job, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model JobModel
	if err := r.db.WithContext(ctx).Take(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	job := jobFromModel(model)
	return &job, nil
}

// ClaimNext moves the oldest pending job to processing. The guarded update
// keeps the claim atomic for a single worker process; nil means the queue
// is empty.
func (r *JobRepository) ClaimNext(ctx context.Context) (*domain.Job, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var claimed *domain.Job
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model JobModel
		err := tx.
			Where("status = ?", string(domain.JobPending)).
			Order("created_at ASC").
			Take(&model).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		res := tx.Model(&JobModel{}).
			Where("id = ? AND status = ?", model.ID, string(domain.JobPending)).
			Updates(map[string]any{"status": string(domain.JobProcessing), "started_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Claimed by someone else between read and update.
			return nil
		}
		model.Status = string(domain.JobProcessing)
		model.StartedAt = &now
		job := jobFromModel(model)
		claimed = &job
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

func (r *JobRepository) Complete(ctx context.Context, id string, result []byte) error {
	return r.finish(ctx, id, domain.JobCompleted, result)
}

func (r *JobRepository) Fail(ctx context.Context, id string, result []byte) error {
	return r.finish(ctx, id, domain.JobFailed, result)
}

func (r *JobRepository) finish(ctx context.Context, id string, status domain.JobStatus, result []byte) error {
	if r.db == nil {
		return errDBUnavailable
	}
	res := r.db.WithContext(ctx).Model(&JobModel{}).
		Where("id = ? AND status = ?", id, string(domain.JobProcessing)).
		Updates(map[string]any{
			"status":      string(status),
			"result":      datatypes.JSON(result),
			"finished_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *JobRepository) List(ctx context.Context, status domain.JobStatus, limit int) ([]domain.Job, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", string(status))
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var models []JobModel
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Job, 0, len(models))
	for _, model := range models {
		out = append(out, jobFromModel(model))
	}
	return out, nil
}

func jobFromModel(model JobModel) domain.Job {
	return domain.Job{
		ID:         model.ID,
		Type:       domain.JobType(model.Type),
		Payload:    []byte(model.Payload),
		Status:     domain.JobStatus(model.Status),
		Result:     []byte(model.Result),
		CreatedAt:  model.CreatedAt.UTC(),
		StartedAt:  model.StartedAt,
		FinishedAt: model.FinishedAt,
	}
}
