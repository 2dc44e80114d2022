package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"campussync/internal/domain"
)

// ReviewService handles the human side of verification: the manual review
// queue, reviewer overrides and reversion of terminal decisions.
type ReviewService struct {
	Certificates CertificateRepository
	Credentials  *CredentialService
	AutoIssue    bool
	Audit        *AuditEmitter
	Notifier     Notifier
	Logger       *slog.Logger

	now func() time.Time
}

type ReviewServiceDeps struct {
	Certificates CertificateRepository
	Credentials  *CredentialService
	AutoIssue    bool
	Audit        *AuditEmitter
	Notifier     Notifier
	Logger       *slog.Logger
}

func NewReviewService(deps ReviewServiceDeps) *ReviewService {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &ReviewService{
		Certificates: deps.Certificates,
		Credentials:  deps.Credentials,
		AutoIssue:    deps.AutoIssue,
		Audit:        deps.Audit,
		Notifier:     deps.Notifier,
		Logger:       log,
		now:          time.Now,
	}
}

// QueueEntry pairs a flagged certificate with the score breakdown the
// pipeline recorded, so reviewers see why it landed in the queue.
type QueueEntry struct {
	Certificate domain.Certificate `json:"certificate"`
	Breakdown   map[string]any     `json:"breakdown,omitempty"`
	Reasons     []string           `json:"reasons,omitempty"`
}

// Queue lists certificates awaiting manual review for an organization.
func (s *ReviewService) Queue(ctx context.Context, orgID string) ([]QueueEntry, error) {
	certs, err := s.Certificates.ListManualReview(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("list manual review queue: %w", err)
	}
	entries := make([]QueueEntry, 0, len(certs))
	for _, cert := range certs {
		entry := QueueEntry{Certificate: cert}
		meta, err := s.Certificates.GetMetadata(ctx, cert.ID)
		if err != nil {
			s.Logger.Warn("metadata load failed", "certificate_id", cert.ID, "err", err)
		} else if meta != nil {
			if b, ok := meta.Details["breakdown"].(map[string]any); ok {
				entry.Breakdown = b
			}
			entry.Reasons = reasonStrings(meta.Details["reasons"])
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Decide records a reviewer's verdict on a certificate in the manual
// review band. The actor and a non-empty reason are mandatory so every
// override is attributable.
func (s *ReviewService) Decide(ctx context.Context, certificateID string, approve bool, reason string, actor domain.Principal) (domain.Certificate, error) {
	if strings.TrimSpace(actor.Subject) == "" {
		return domain.Certificate{}, fmt.Errorf("%w: reviewer identity is required", domain.ErrValidation)
	}
	if strings.TrimSpace(reason) == "" {
		return domain.Certificate{}, fmt.Errorf("%w: review reason is required", domain.ErrValidation)
	}
	cert, err := s.Certificates.Get(ctx, certificateID)
	if err != nil {
		return domain.Certificate{}, err
	}
	if cert.Status != domain.StatusPending || cert.ReviewState != domain.ReviewStateManual {
		return domain.Certificate{}, domain.ErrCertificateNotPending
	}

	now := s.now().UTC()
	if approve {
		cert.Status = domain.StatusVerified
	} else {
		cert.Status = domain.StatusRejected
	}
	cert.ReviewState = domain.ReviewStateNone
	cert.AutoApproved = false
	cert.ReviewedBy = actor.Subject
	cert.ReviewReason = reason
	cert.DecidedAt = &now
	if err := s.Certificates.Update(ctx, *cert); err != nil {
		return domain.Certificate{}, fmt.Errorf("update certificate %s: %w", cert.ID, err)
	}

	s.Audit.Emit(ctx, domain.AuditEvent{
		OrgID:      cert.OrgID,
		EventType:  domain.AuditCertificateReviewed,
		ActorType:  domain.AuditActorUser,
		ActorID:    actor.Subject,
		TargetType: "certificate",
		TargetID:   cert.ID,
		Result:     domain.AuditResultSuccess,
		Payload: map[string]any{
			"approved": approve,
			"reason":   reason,
		},
	})
	if s.Notifier != nil {
		outcome := domain.DecisionOutcome{
			Status:      cert.Status,
			ReviewState: cert.ReviewState,
			Score:       cert.Confidence,
			Reasons:     []string{"MANUAL_REVIEW:" + reason},
		}
		if err := s.Notifier.DecisionMade(ctx, *cert, outcome); err != nil {
			s.Logger.Warn("review notification failed", "certificate_id", cert.ID, "err", err)
		}
	}

	if approve && s.AutoIssue && s.Credentials != nil {
		if _, err := s.Credentials.Issue(ctx, cert.ID, actor); err != nil {
			s.Logger.Warn("issuance after review failed", "certificate_id", cert.ID, "err", err)
		}
	}
	return *cert, nil
}

// Revert moves a terminal certificate back to pending so it can be
// re-evaluated. It does not touch any credential already issued from the
// prior decision; revocation is a separate, deliberate act.
func (s *ReviewService) Revert(ctx context.Context, certificateID, reason string, actor domain.Principal) (domain.Certificate, error) {
	if strings.TrimSpace(actor.Subject) == "" {
		return domain.Certificate{}, fmt.Errorf("%w: reviewer identity is required", domain.ErrValidation)
	}
	if strings.TrimSpace(reason) == "" {
		return domain.Certificate{}, fmt.Errorf("%w: revert reason is required", domain.ErrValidation)
	}
	cert, err := s.Certificates.Get(ctx, certificateID)
	if err != nil {
		return domain.Certificate{}, err
	}
	if !cert.Terminal() {
		return domain.Certificate{}, domain.ErrCertificateNotTerminal
	}

	cert.Status = domain.StatusPending
	cert.ReviewState = domain.ReviewStateNone
	cert.AutoApproved = false
	cert.ReviewedBy = actor.Subject
	cert.ReviewReason = reason
	cert.DecidedAt = nil
	if err := s.Certificates.Update(ctx, *cert); err != nil {
		return domain.Certificate{}, fmt.Errorf("update certificate %s: %w", cert.ID, err)
	}

	s.Audit.Emit(ctx, domain.AuditEvent{
		OrgID:      cert.OrgID,
		EventType:  domain.AuditCertificateReverted,
		ActorType:  domain.AuditActorUser,
		ActorID:    actor.Subject,
		TargetType: "certificate",
		TargetID:   cert.ID,
		Result:     domain.AuditResultSuccess,
		Payload:    map[string]any{"reason": reason},
	})
	return *cert, nil
}

func reasonStrings(v any) []string {
	switch vals := v.(type) {
	case []string:
		return vals
	case []any:
		out := make([]string, 0, len(vals))
		for _, item := range vals {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
