package repository

import (
	"context"
	"storefront/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommissionRuleRepository interface {
	Create(ctx context.Context, rule *models.CommissionRule) error
	// ListActive returns active rules in evaluation order: priority ascending, then id.
	ListActive(ctx context.Context) ([]models.CommissionRule, error)
}

type commissionRuleRepository struct {
	db *gorm.DB
}

func NewCommissionRuleRepository(db *gorm.DB) CommissionRuleRepository {
	return &commissionRuleRepository{db: db}
}

func (r *commissionRuleRepository) Create(ctx context.Context, rule *models.CommissionRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *commissionRuleRepository) ListActive(ctx context.Context) ([]models.CommissionRule, error) {
	var rules []models.CommissionRule
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order(clause.OrderBy{Columns: []clause.OrderByColumn{
			{Column: clause.Column{Name: "priority"}},
			{Column: clause.Column{Name: "id"}},
		}}).
		Find(&rules).Error
	return rules, err
}
