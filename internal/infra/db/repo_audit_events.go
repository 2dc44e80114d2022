package db

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"campussync/internal/domain"
	cryptoinfra "campussync/internal/infra/crypto"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuditEventRepository struct {
	db *gorm.DB
}

func NewAuditEventRepository(db *gorm.DB) *AuditEventRepository {
	return &AuditEventRepository{db: db}
}

// Append assigns the next per-organization sequence number and links the
// event to its predecessor by hash. The composite unique index on
// (org_id, seq) turns a concurrent append into a constraint violation
// rather than a silent fork of the chain.
func (r *AuditEventRepository) Append(ctx context.Context, event domain.AuditEvent) (domain.AuditEvent, error) {
	if r.db == nil {
		return domain.AuditEvent{}, errDBUnavailable
	}
	if event.EventType == "" {
		return domain.AuditEvent{}, errors.New("event_type is required")
	}
	if event.ID == "" {
		event.ID = newID()
	}
	if event.OrgID == "" {
		event.OrgID = domain.AuditSystemOrgID
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	event.CreatedAt = event.CreatedAt.UTC().Truncate(time.Microsecond)
	if event.Payload == nil {
		event.Payload = map[string]any{}
	}

	payloadJSON, payloadHash, err := canonicalPayload(event.Payload)
	if err != nil {
		return domain.AuditEvent{}, err
	}
	event.PayloadHash = payloadHash

	var out domain.AuditEvent
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, prevHash, err := lastChainState(tx, event.OrgID)
		if err != nil {
			return err
		}
		event.Seq = seq + 1
		event.PrevEventHash = prevHash

		eventHash, err := chainEventHash(event)
		if err != nil {
			return err
		}
		event.EventHash = eventHash

		model := auditEventModelFromDomain(event, payloadJSON)
		if err := tx.Create(&model).Error; err != nil {
			return err
		}
		out = event
		return nil
	})
	if err != nil {
		return domain.AuditEvent{}, err
	}
	return out, nil
}

func (r *AuditEventRepository) List(ctx context.Context, orgID string) ([]domain.AuditEvent, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	if orgID == "" {
		orgID = domain.AuditSystemOrgID
	}
	var models []AuditEventModel
	if err := r.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("seq ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.AuditEvent, 0, len(models))
	for _, model := range models {
		event, err := auditEventFromModel(model)
		if err != nil {
			return nil, err
		}
		out = append(out, event)
	}
	return out, nil
}

// VerifyChain walks an organization's events in sequence order and reports
// the first break in hashes or numbering, if any.
func (r *AuditEventRepository) VerifyChain(ctx context.Context, orgID string) error {
	events, err := r.List(ctx, orgID)
	if err != nil {
		return err
	}
	prevHash := zeroAuditHash()
	for i, event := range events {
		if event.Seq != int64(i+1) {
			return errors.New("audit chain has a sequence gap")
		}
		if event.PrevEventHash != prevHash {
			return errors.New("audit chain prev hash mismatch")
		}
		want, err := chainEventHash(event)
		if err != nil {
			return err
		}
		if event.EventHash != want {
			return errors.New("audit chain event hash mismatch")
		}
		prevHash = event.EventHash
	}
	return nil
}

func lastChainState(tx *gorm.DB, orgID string) (int64, string, error) {
	var last AuditEventModel
	err := tx.
		Where("org_id = ?", orgID).
		Order("seq DESC").
		Take(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, zeroAuditHash(), nil
	}
	if err != nil {
		return 0, "", err
	}
	return last.Seq, last.EventHash, nil
}

func canonicalPayload(payload map[string]any) ([]byte, string, error) {
	canonical, err := cryptoinfra.CanonicalizeAny(payload)
	if err != nil {
		return nil, "", err
	}
	sum := sha256.Sum256(canonical)
	return canonical, hex.EncodeToString(sum[:]), nil
}

func chainEventHash(event domain.AuditEvent) (string, error) {
	if event.PayloadHash == "" || event.PrevEventHash == "" {
		return "", errors.New("payload_hash and prev_event_hash are required")
	}
	canonical, err := cryptoinfra.CanonicalizeAny(map[string]any{
		"org_id":          event.OrgID,
		"seq":             event.Seq,
		"event_type":      string(event.EventType),
		"payload_hash":    event.PayloadHash,
		"prev_event_hash": event.PrevEventHash,
		"created_at":      event.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

func zeroAuditHash() string {
	return "0000000000000000000000000000000000000000000000000000000000000000"
}

func auditEventModelFromDomain(event domain.AuditEvent, payloadJSON []byte) AuditEventModel {
	return AuditEventModel{
		ID:            event.ID,
		OrgID:         event.OrgID,
		Seq:           event.Seq,
		EventType:     string(event.EventType),
		Payload:       datatypes.JSON(payloadJSON),
		PayloadHash:   event.PayloadHash,
		PrevEventHash: event.PrevEventHash,
		EventHash:     event.EventHash,
		ActorType:     string(event.ActorType),
		ActorID:       event.ActorID,
		TargetType:    event.TargetType,
		TargetID:      event.TargetID,
		Result:        string(event.Result),
		CreatedAt:     event.CreatedAt,
	}
}

func auditEventFromModel(model AuditEventModel) (domain.AuditEvent, error) {
	payload, err := fromJSON[map[string]any](model.Payload)
	if err != nil {
		return domain.AuditEvent{}, err
	}
	return domain.AuditEvent{
		ID:            model.ID,
		OrgID:         model.OrgID,
		Seq:           model.Seq,
		EventType:     domain.AuditEventType(model.EventType),
		Payload:       payload,
		PayloadHash:   model.PayloadHash,
		PrevEventHash: model.PrevEventHash,
		EventHash:     model.EventHash,
		ActorType:     domain.AuditActorType(model.ActorType),
		ActorID:       model.ActorID,
		TargetType:    model.TargetType,
		TargetID:      model.TargetID,
		Result:        domain.AuditResult(model.Result),
		CreatedAt:     model.CreatedAt.UTC(),
	}, nil
}
