package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"campussync/internal/domain"
)

// ProcessorFunc handles one job payload and returns a result document to
// store on the job. An error fails the job.
type ProcessorFunc func(ctx context.Context, payload domain.JobPayload) (any, error)

// Worker polls the job queue on a fixed interval and dispatches claimed
// jobs to registered processors. It is a single-instance loop: jobs are
// claimed one at a time and processed sequentially, so two workers against
// the same store would need storage-level locking this type does not
// provide.
type Worker struct {
	Jobs         JobRepository
	PollInterval time.Duration
	Audit        *AuditEmitter
	Logger       *slog.Logger

	mu         sync.Mutex
	processors map[domain.JobType]ProcessorFunc
	cancel     context.CancelFunc
	done       chan struct{}
}

func NewWorker(jobs JobRepository, pollInterval time.Duration, audit *AuditEmitter, log *slog.Logger) *Worker {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Worker{
		Jobs:         jobs,
		PollInterval: pollInterval,
		Audit:        audit,
		Logger:       log,
		processors:   make(map[domain.JobType]ProcessorFunc),
	}
}

// Register binds a processor to a job type. Registration after Start is
// not supported.
func (w *Worker) Register(t domain.JobType, fn ProcessorFunc) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.processors[t] = fn
}

// Start launches the poll loop. Calling Start on a running worker is a
// no-op.
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	// run gets its own copy of the channel; Stop nils w.done, so the
	// goroutine must never read the field.
	done := make(chan struct{})
	w.done = done
	go w.run(ctx, done)
}

// Stop halts the loop before its next tick and waits for any in-flight
// job to finish.
func (w *Worker) Stop() {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel = nil
	w.done = nil
	w.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (w *Worker) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(w.PollInterval)
	defer ticker.Stop()

	// Drain once immediately so queued jobs do not wait a full interval.
	w.drain(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

// drain claims and processes jobs until the queue is empty or the context
// ends.
func (w *Worker) drain(ctx context.Context) {
	for ctx.Err() == nil {
		job, err := w.Jobs.ClaimNext(ctx)
		if err != nil {
			w.Logger.Error("job claim failed", "err", err)
			return
		}
		if job == nil {
			return
		}
		w.process(ctx, *job)
	}
}

func (w *Worker) process(ctx context.Context, job domain.Job) {
	result, err := w.dispatch(ctx, job)
	if err != nil {
		w.fail(ctx, job, err)
		return
	}
	raw, merr := json.Marshal(result)
	if merr != nil {
		w.fail(ctx, job, fmt.Errorf("encode job result: %w", merr))
		return
	}
	if err := w.Jobs.Complete(ctx, job.ID, raw); err != nil {
		w.Logger.Error("job completion failed", "job_id", job.ID, "err", err)
		return
	}
	w.Logger.Info("job completed", "job_id", job.ID, "type", string(job.Type))
}

// dispatch runs the processor for the job, converting a panic into an
// ordinary failure so one poisoned job cannot take down the loop.
func (w *Worker) dispatch(ctx context.Context, job domain.Job) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			w.Logger.Error("job processor panicked",
				"job_id", job.ID,
				"type", string(job.Type),
				"panic", r,
				"stack", string(debug.Stack()))
			err = fmt.Errorf("processor panic: %v", r)
		}
	}()

	w.mu.Lock()
	fn, ok := w.processors[job.Type]
	w.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownJobType, job.Type)
	}
	payload, err := domain.DecodePayload(job.Type, job.Payload)
	if err != nil {
		return nil, err
	}
	return fn(ctx, payload)
}

func (w *Worker) fail(ctx context.Context, job domain.Job, cause error) {
	w.Logger.Error("job failed", "job_id", job.ID, "type", string(job.Type), "err", cause)
	raw, _ := json.Marshal(map[string]string{"error": cause.Error()})
	if err := w.Jobs.Fail(ctx, job.ID, raw); err != nil {
		w.Logger.Error("job failure record failed", "job_id", job.ID, "err", err)
	}
	w.Audit.Emit(ctx, domain.AuditEvent{
		EventType:  domain.AuditJobFailed,
		ActorType:  domain.AuditActorSystem,
		TargetType: "job",
		TargetID:   job.ID,
		Result:     domain.AuditResultFailure,
		Payload: map[string]any{
			"type":  string(job.Type),
			"error": cause.Error(),
		},
	})
}
