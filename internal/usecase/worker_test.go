package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"campussync/internal/domain"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func enqueueNormalization(t *testing.T, jobs *memJobRepo, certID string) {
	t.Helper()
	raw, err := domain.EncodePayload(domain.NormalizationPayload{CertificateID: certID})
	if err != nil {
		t.Fatalf("encode payload: %v", err)
	}
	if err := jobs.Enqueue(context.Background(), domain.Job{Type: domain.JobNormalization, Payload: raw}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
}

func TestWorkerProcessesQueuedJobs(t *testing.T) {
	jobs := newMemJobRepo()
	enqueueNormalization(t, jobs, "cert-1")
	enqueueNormalization(t, jobs, "cert-2")

	w := NewWorker(jobs, 10*time.Millisecond, nil, nil)
	w.Register(domain.JobNormalization, func(_ context.Context, p domain.JobPayload) (any, error) {
		return map[string]string{"certificate_id": p.(domain.NormalizationPayload).CertificateID}, nil
	})
	w.Start(context.Background())
	defer w.Stop()

	waitFor(t, func() bool { return jobs.countByStatus(domain.JobCompleted) == 2 })
}

func TestWorkerFailsJobOnProcessorError(t *testing.T) {
	jobs := newMemJobRepo()
	enqueueNormalization(t, jobs, "cert-1")

	w := NewWorker(jobs, 10*time.Millisecond, nil, nil)
	w.Register(domain.JobNormalization, func(context.Context, domain.JobPayload) (any, error) {
		return nil, errors.New("downstream unavailable")
	})
	w.Start(context.Background())
	defer w.Stop()

	waitFor(t, func() bool { return jobs.countByStatus(domain.JobFailed) == 1 })
	listed, _ := jobs.List(context.Background(), domain.JobFailed, 10)
	if len(listed) != 1 || len(listed[0].Result) == 0 {
		t.Fatalf("failed job missing error result: %+v", listed)
	}
}

func TestWorkerSurvivesPanickingProcessor(t *testing.T) {
	jobs := newMemJobRepo()
	enqueueNormalization(t, jobs, "cert-1")
	enqueueNormalization(t, jobs, "cert-2")

	w := NewWorker(jobs, 10*time.Millisecond, nil, nil)
	calls := 0
	w.Register(domain.JobNormalization, func(context.Context, domain.JobPayload) (any, error) {
		calls++
		if calls == 1 {
			panic("poisoned payload")
		}
		return "ok", nil
	})
	w.Start(context.Background())
	defer w.Stop()

	waitFor(t, func() bool {
		return jobs.countByStatus(domain.JobFailed) == 1 && jobs.countByStatus(domain.JobCompleted) == 1
	})
}

func TestWorkerFailsJobWithNoProcessor(t *testing.T) {
	jobs := newMemJobRepo()
	raw, _ := domain.EncodePayload(domain.OCRPayload{CertificateID: "cert-1", FileRef: "f"})
	_ = jobs.Enqueue(context.Background(), domain.Job{Type: domain.JobOCR, Payload: raw})

	w := NewWorker(jobs, 10*time.Millisecond, nil, nil)
	w.Start(context.Background())
	defer w.Stop()

	waitFor(t, func() bool { return jobs.countByStatus(domain.JobFailed) == 1 })
}

func TestWorkerStopHaltsPolling(t *testing.T) {
	jobs := newMemJobRepo()
	w := NewWorker(jobs, 10*time.Millisecond, nil, nil)
	w.Register(domain.JobNormalization, func(context.Context, domain.JobPayload) (any, error) {
		return "ok", nil
	})
	w.Start(context.Background())
	w.Stop()

	enqueueNormalization(t, jobs, "cert-1")
	time.Sleep(50 * time.Millisecond)
	if jobs.countByStatus(domain.JobCompleted) != 0 {
		t.Fatal("job processed after Stop")
	}
}

func TestWorkerRapidStartStopCycles(t *testing.T) {
	jobs := newMemJobRepo()
	w := NewWorker(jobs, time.Millisecond, nil, nil)
	w.Register(domain.JobNormalization, func(context.Context, domain.JobPayload) (any, error) {
		return "ok", nil
	})
	// Stop right on the heels of Start must neither panic nor hang.
	for i := 0; i < 200; i++ {
		w.Start(context.Background())
		w.Stop()
	}
}

func TestWorkerStartTwiceIsNoop(t *testing.T) {
	jobs := newMemJobRepo()
	w := NewWorker(jobs, 10*time.Millisecond, nil, nil)
	w.Start(context.Background())
	w.Start(context.Background())
	w.Stop()
}
