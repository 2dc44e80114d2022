package db

import (
	"context"
	"time"

	"campussync/internal/domain"

	"gorm.io/gorm"
)

type RuleRepository struct {
	db *gorm.DB
}

func NewRuleRepository(db *gorm.DB) *RuleRepository {
	return &RuleRepository{db: db}
}

func (r *RuleRepository) Create(ctx context.Context, rule domain.VerificationRule) error {
	if r.db == nil {
		return errDBUnavailable
	}
	if rule.ID == "" {
		rule.ID = newID()
	}
	now := time.Now().UTC()
	rule.CreatedAt = now
	rule.UpdatedAt = now
	model, err := ruleModelFromDomain(rule)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

func (r *RuleRepository) Update(ctx context.Context, rule domain.VerificationRule) error {
	if r.db == nil {
		return errDBUnavailable
	}
	rule.UpdatedAt = time.Now().UTC()
	model, err := ruleModelFromDomain(rule)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&VerificationRuleModel{}).
		Where("id = ?", rule.ID).
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

func (r *RuleRepository) SetActive(ctx context.Context, id string, active bool) error {
	if r.db == nil {
		return errDBUnavailable
	}
	res := r.db.WithContext(ctx).Model(&VerificationRuleModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"active": active, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RuleRepository) List(ctx context.Context) ([]domain.VerificationRule, error) {
	return r.list(ctx, false)
}

func (r *RuleRepository) ListActive(ctx context.Context) ([]domain.VerificationRule, error) {
	return r.list(ctx, true)
}

func (r *RuleRepository) list(ctx context.Context, activeOnly bool) ([]domain.VerificationRule, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	q := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var models []VerificationRuleModel
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.VerificationRule, 0, len(models))
	for _, model := range models {
		rule, err := ruleFromModel(model)
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, nil
}

func ruleModelFromDomain(rule domain.VerificationRule) (VerificationRuleModel, error) {
	cfg, err := toJSON(rule.Config)
	if err != nil {
		return VerificationRuleModel{}, err
	}
	return VerificationRuleModel{
		ID:        rule.ID,
		Name:      rule.Name,
		Type:      string(rule.Type),
		Weight:    rule.Weight,
		Threshold: rule.Threshold,
		Config:    cfg,
		Active:    rule.Active,
		CreatedAt: rule.CreatedAt,
		UpdatedAt: rule.UpdatedAt,
	}, nil
}

func ruleFromModel(model VerificationRuleModel) (domain.VerificationRule, error) {
	cfg, err := fromJSON[map[string]any](model.Config)
	if err != nil {
		return domain.VerificationRule{}, err
	}
	return domain.VerificationRule{
		ID:        model.ID,
		Name:      model.Name,
		Type:      domain.RuleType(model.Type),
		Weight:    model.Weight,
		Threshold: model.Threshold,
		Config:    cfg,
		Active:    model.Active,
		CreatedAt: model.CreatedAt.UTC(),
		UpdatedAt: model.UpdatedAt.UTC(),
	}, nil
}
