package db

import (
	"context"
	"errors"
	"time"

	"campussync/internal/domain"

	"gorm.io/gorm"
)

type IssuerRepository struct {
	db *gorm.DB
}

func NewIssuerRepository(db *gorm.DB) *IssuerRepository {
	return &IssuerRepository{db: db}
}

func (r *IssuerRepository) Create(ctx context.Context, issuer domain.TrustedIssuer) error {
	if r.db == nil {
		return errDBUnavailable
	}
	if issuer.ID == "" {
		issuer.ID = newID()
	}
	now := time.Now().UTC()
	issuer.CreatedAt = now
	issuer.UpdatedAt = now
	model, err := issuerModelFromDomain(issuer)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

func (r *IssuerRepository) Update(ctx context.Context, issuer domain.TrustedIssuer) error {
	if r.db == nil {
		return errDBUnavailable
	}
	issuer.UpdatedAt = time.Now().UTC()
	model, err := issuerModelFromDomain(issuer)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&TrustedIssuerModel{}).
		Where("id = ?", issuer.ID).
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

func (r *IssuerRepository) Get(ctx context.Context, id string) (*domain.TrustedIssuer, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model TrustedIssuerModel
	if err := r.db.WithContext(ctx).Take(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	issuer, err := issuerFromModel(model)
	if err != nil {
		return nil, err
	}
	return &issuer, nil
}

func (r *IssuerRepository) List(ctx context.Context, activeOnly bool) ([]domain.TrustedIssuer, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	q := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var models []TrustedIssuerModel
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.TrustedIssuer, 0, len(models))
	for _, model := range models {
		issuer, err := issuerFromModel(model)
		if err != nil {
			return nil, err
		}
		out = append(out, issuer)
	}
	return out, nil
}

func issuerModelFromDomain(issuer domain.TrustedIssuer) (TrustedIssuerModel, error) {
	patterns, err := toJSON(issuer.TemplatePatterns)
	if err != nil {
		return TrustedIssuerModel{}, err
	}
	return TrustedIssuerModel{
		ID:                  issuer.ID,
		Name:                issuer.Name,
		Domain:              issuer.Domain,
		TemplatePatterns:    patterns,
		ConfidenceThreshold: issuer.ConfidenceThreshold,
		QRVerifyURL:         issuer.QRVerifyURL,
		Active:              issuer.Active,
		CreatedAt:           issuer.CreatedAt,
		UpdatedAt:           issuer.UpdatedAt,
	}, nil
}

func issuerFromModel(model TrustedIssuerModel) (domain.TrustedIssuer, error) {
	patterns, err := fromJSON[[]string](model.TemplatePatterns)
	if err != nil {
		return domain.TrustedIssuer{}, err
	}
	return domain.TrustedIssuer{
		ID:                  model.ID,
		Name:                model.Name,
		Domain:              model.Domain,
		TemplatePatterns:    patterns,
		ConfidenceThreshold: model.ConfidenceThreshold,
		QRVerifyURL:         model.QRVerifyURL,
		Active:              model.Active,
		CreatedAt:           model.CreatedAt.UTC(),
		UpdatedAt:           model.UpdatedAt.UTC(),
	}, nil
}
