package db

import (
	"context"
	"errors"
	"time"

	"campussync/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CertificateRepository struct {
	db *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{db: db}
}

func (r *CertificateRepository) Create(ctx context.Context, cert domain.Certificate) error {
	if r.db == nil {
		return errDBUnavailable
	}
	if cert.ID == "" {
		cert.ID = newID()
	}
	now := time.Now().UTC()
	if cert.CreatedAt.IsZero() {
		cert.CreatedAt = now
	}
	cert.UpdatedAt = now
	if cert.Status == "" {
		cert.Status = domain.StatusPending
	}
	if cert.ReviewState == "" {
		cert.ReviewState = domain.ReviewStateNone
	}
	model := certificateModelFromDomain(cert)
	return r.db.WithContext(ctx).Create(&model).Error
}

func (r *CertificateRepository) Get(ctx context.Context, id string) (*domain.Certificate, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model CertificateModel
	if err := r.db.WithContext(ctx).Take(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	cert := certificateFromModel(model)
	return &cert, nil
}

func (r *CertificateRepository) Update(ctx context.Context, cert domain.Certificate) error {
	if r.db == nil {
		return errDBUnavailable
	}
	cert.UpdatedAt = time.Now().UTC()
	model := certificateModelFromDomain(cert)
	res := r.db.WithContext(ctx).Model(&CertificateModel{}).
		Where("id = ?", cert.ID).
		Select("*").Omit("id", "created_at").
		Updates(&model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CertificateRepository) ListManualReview(ctx context.Context, orgID string) ([]domain.Certificate, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	q := r.db.WithContext(ctx).
		Where("status = ? AND review_state = ?", string(domain.StatusPending), string(domain.ReviewStateManual)).
		Order("created_at ASC")
	if orgID != "" {
		q = q.Where("org_id = ?", orgID)
	}
	var models []CertificateModel
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Certificate, 0, len(models))
	for _, model := range models {
		out = append(out, certificateFromModel(model))
	}
	return out, nil
}

func (r *CertificateRepository) GetMetadata(ctx context.Context, certificateID string) (*domain.CertificateMetadata, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model CertificateMetadataModel
	if err := r.db.WithContext(ctx).Take(&model, "certificate_id = ?", certificateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	details, err := fromJSON[map[string]any](model.Details)
	if err != nil {
		return nil, err
	}
	return &domain.CertificateMetadata{
		CertificateID:      model.CertificateID,
		QRPayload:          model.QRPayload,
		QRVerified:         model.QRVerified,
		LogoMatchScore:     model.LogoMatchScore,
		TemplateMatchScore: model.TemplateMatchScore,
		AIConfidence:       model.AIConfidence,
		Details:            details,
		UpdatedAt:          model.UpdatedAt.UTC(),
	}, nil
}

func (r *CertificateRepository) UpsertMetadata(ctx context.Context, meta domain.CertificateMetadata) error {
	if r.db == nil {
		return errDBUnavailable
	}
	details, err := toJSON(meta.Details)
	if err != nil {
		return err
	}
	model := CertificateMetadataModel{
		CertificateID:      meta.CertificateID,
		QRPayload:          meta.QRPayload,
		QRVerified:         meta.QRVerified,
		LogoMatchScore:     meta.LogoMatchScore,
		TemplateMatchScore: meta.TemplateMatchScore,
		AIConfidence:       meta.AIConfidence,
		Details:            details,
		UpdatedAt:          time.Now().UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "certificate_id"}},
			UpdateAll: true,
		}).
		Create(&model).Error
}

func certificateModelFromDomain(cert domain.Certificate) CertificateModel {
	return CertificateModel{
		ID:           cert.ID,
		StudentID:    cert.StudentID,
		OrgID:        cert.OrgID,
		Title:        cert.Title,
		Institution:  cert.Institution,
		DateIssued:   cert.DateIssued,
		Description:  cert.Description,
		FileRef:      cert.FileRef,
		Status:       string(cert.Status),
		ReviewState:  string(cert.ReviewState),
		AutoApproved: cert.AutoApproved,
		Confidence:   cert.Confidence,
		ReviewedBy:   cert.ReviewedBy,
		ReviewReason: cert.ReviewReason,
		DecidedAt:    cert.DecidedAt,
		CreatedAt:    cert.CreatedAt,
		UpdatedAt:    cert.UpdatedAt,
	}
}

func certificateFromModel(model CertificateModel) domain.Certificate {
	return domain.Certificate{
		ID:           model.ID,
		StudentID:    model.StudentID,
		OrgID:        model.OrgID,
		Title:        model.Title,
		Institution:  model.Institution,
		DateIssued:   model.DateIssued,
		Description:  model.Description,
		FileRef:      model.FileRef,
		Status:       domain.VerificationStatus(model.Status),
		ReviewState:  domain.ReviewState(model.ReviewState),
		AutoApproved: model.AutoApproved,
		Confidence:   model.Confidence,
		ReviewedBy:   model.ReviewedBy,
		ReviewReason: model.ReviewReason,
		DecidedAt:    model.DecidedAt,
		CreatedAt:    model.CreatedAt.UTC(),
		UpdatedAt:    model.UpdatedAt.UTC(),
	}
}
