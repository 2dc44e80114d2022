package usecase

import (
	"context"
	"log/slog"

	"campussync/internal/domain"
)

// AuditEmitter appends events best-effort: an audit failure is logged and
// never fails the operation that produced it.
type AuditEmitter struct {
	Repo   AuditRepository
	Logger *slog.Logger
}

func NewAuditEmitter(repo AuditRepository, log *slog.Logger) *AuditEmitter {
	if log == nil {
		log = slog.Default()
	}
	return &AuditEmitter{Repo: repo, Logger: log}
}

func (e *AuditEmitter) Emit(ctx context.Context, event domain.AuditEvent) {
	if e == nil || e.Repo == nil {
		return
	}
	if _, err := e.Repo.Append(ctx, event); err != nil {
		e.Logger.Warn("audit append failed",
			"event_type", event.EventType,
			"target_id", event.TargetID,
			"err", err)
	}
}
