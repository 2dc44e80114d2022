package db

import (
	"context"
	"errors"
	"time"

	"campussync/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CredentialRepository struct {
	db *gorm.DB
}

func NewCredentialRepository(db *gorm.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// Create relies on the unique index over certificate_id: a concurrent or
// repeated issuance inserts nothing and reports domain.ErrAlreadyIssued.
func (r *CredentialRepository) Create(ctx context.Context, cred domain.VerifiableCredential) error {
	if r.db == nil {
		return errDBUnavailable
	}
	if cred.ID == "" {
		cred.ID = newID()
	}
	if cred.IssuedAt.IsZero() {
		cred.IssuedAt = time.Now().UTC()
	}
	model, err := credentialModelFromDomain(cred)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "certificate_id"}},
			DoNothing: true,
		}).
		Create(&model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrAlreadyIssued
	}
	return nil
}

func (r *CredentialRepository) Get(ctx context.Context, id string) (*domain.VerifiableCredential, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	return r.one(ctx, "id = ?", id)
}

func (r *CredentialRepository) GetByCertificate(ctx context.Context, certificateID string) (*domain.VerifiableCredential, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	return r.one(ctx, "certificate_id = ?", certificateID)
}

func (r *CredentialRepository) one(ctx context.Context, query string, arg any) (*domain.VerifiableCredential, error) {
	var model VerifiableCredentialModel
	if err := r.db.WithContext(ctx).Take(&model, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	cred, err := credentialFromModel(model)
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// MarkRevoked flips active to revoked. The guarded update makes revocation
// one-way: a second call matches no rows and the stored revocation state is
// returned untouched.
func (r *CredentialRepository) MarkRevoked(ctx context.Context, id, reason string) (*domain.VerifiableCredential, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&VerifiableCredentialModel{}).
		Where("id = ? AND status = ?", id, string(domain.CredentialActive)).
		Updates(map[string]any{
			"status":        string(domain.CredentialRevoked),
			"revoked_at":    now,
			"revoke_reason": reason,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	cred, err := r.one(ctx, "id = ?", id)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, domain.ErrNotFound
	}
	return cred, nil
}

func (r *CredentialRepository) AppendStatusEntry(ctx context.Context, entry domain.CredentialStatusEntry) error {
	if r.db == nil {
		return errDBUnavailable
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	model := CredentialStatusEntryModel{
		CredentialID: entry.CredentialID,
		Status:       string(entry.Status),
		Reason:       entry.Reason,
		CreatedAt:    entry.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

func (r *CredentialRepository) ListStatusEntries(ctx context.Context, credentialID string) ([]domain.CredentialStatusEntry, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []CredentialStatusEntryModel
	if err := r.db.WithContext(ctx).
		Where("credential_id = ?", credentialID).
		Order("id ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.CredentialStatusEntry, 0, len(models))
	for _, model := range models {
		out = append(out, domain.CredentialStatusEntry{
			ID:           model.ID,
			CredentialID: model.CredentialID,
			Status:       domain.CredentialStatus(model.Status),
			Reason:       model.Reason,
			CreatedAt:    model.CreatedAt.UTC(),
		})
	}
	return out, nil
}

func credentialModelFromDomain(cred domain.VerifiableCredential) (VerifiableCredentialModel, error) {
	doc, err := toJSON(cred.Document)
	if err != nil {
		return VerifiableCredentialModel{}, err
	}
	return VerifiableCredentialModel{
		ID:            cred.ID,
		CertificateID: cred.CertificateID,
		StudentID:     cred.StudentID,
		IssuerDID:     cred.IssuerDID,
		Document:      doc,
		Status:        string(cred.Status),
		IssuedAt:      cred.IssuedAt,
		RevokedAt:     cred.RevokedAt,
		RevokeReason:  cred.RevokeReason,
	}, nil
}

func credentialFromModel(model VerifiableCredentialModel) (domain.VerifiableCredential, error) {
	doc, err := fromJSON[domain.CredentialDocument](model.Document)
	if err != nil {
		return domain.VerifiableCredential{}, err
	}
	return domain.VerifiableCredential{
		ID:            model.ID,
		CertificateID: model.CertificateID,
		StudentID:     model.StudentID,
		IssuerDID:     model.IssuerDID,
		Document:      doc,
		Status:        domain.CredentialStatus(model.Status),
		IssuedAt:      model.IssuedAt.UTC(),
		RevokedAt:     model.RevokedAt,
		RevokeReason:  model.RevokeReason,
	}, nil
}
