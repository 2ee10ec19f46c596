package repository

import (
	"context"
	"errors"
	"fmt"
	"storefront/internal/models"

	"gorm.io/gorm"
)

type AffiliateRepository interface {
	Create(ctx context.Context, affiliate *models.Affiliate) error
	GetByID(ctx context.Context, id string) (*models.Affiliate, error)
	GetByReferralCode(ctx context.Context, code string) (*models.Affiliate, error)
	IncrementClicks(ctx context.Context, code string) error
	// CreditAffiliate records the commission and bumps the affiliate counters in one unit.
	// It returns ErrAlreadyCredited when the order was already credited for the trigger.
	CreditAffiliate(ctx context.Context, commission *models.Commission) error
	ListCommissions(ctx context.Context, affiliateID string) ([]models.Commission, error)
}

type affiliateRepository struct {
	db *gorm.DB
}

func NewAffiliateRepository(db *gorm.DB) AffiliateRepository {
	return &affiliateRepository{db: db}
}

func (r *affiliateRepository) Create(ctx context.Context, affiliate *models.Affiliate) error {
	return translateError(r.db.WithContext(ctx).Create(affiliate).Error)
}

func (r *affiliateRepository) GetByID(ctx context.Context, id string) (*models.Affiliate, error) {
	var affiliate models.Affiliate
	err := r.db.WithContext(ctx).First(&affiliate, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &affiliate, nil
}

func (r *affiliateRepository) GetByReferralCode(ctx context.Context, code string) (*models.Affiliate, error) {
	var affiliate models.Affiliate
	err := r.db.WithContext(ctx).Where("referral_code = ?", code).First(&affiliate).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &affiliate, nil
}

func (r *affiliateRepository) IncrementClicks(ctx context.Context, code string) error {
	result := r.db.WithContext(ctx).Model(&models.Affiliate{}).
		Where("referral_code = ?", code).
		UpdateColumn("link_clicks", gorm.Expr("link_clicks + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *affiliateRepository) CreditAffiliate(ctx context.Context, commission *models.Commission) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(commission).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyCredited
			}
			return translateError(err)
		}

		result := tx.Model(&models.Affiliate{}).
			Where("id = ?", commission.AffiliateID).
			UpdateColumns(map[string]interface{}{
				"pending_commission": gorm.Expr("pending_commission + ?", commission.Amount),
				"total_sales":        gorm.Expr("total_sales + ?", commission.SaleAmount),
				"conversions":        gorm.Expr("conversions + 1"),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to credit affiliate: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *affiliateRepository) ListCommissions(ctx context.Context, affiliateID string) ([]models.Commission, error) {
	var commissions []models.Commission
	err := r.db.WithContext(ctx).Where("affiliate_id = ?", affiliateID).Order("id ASC").Find(&commissions).Error
	return commissions, err
}
