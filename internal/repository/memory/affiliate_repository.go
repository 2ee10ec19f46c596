package memory

import (
	"context"
	"storefront/internal/models"
	"storefront/internal/repository"
	"sync"
	"time"
)

type AffiliateRepository struct {
	mu          sync.RWMutex
	affiliates  map[string]*models.Affiliate
	commissions []models.Commission
	credited    map[string]struct{}
}

func NewAffiliateRepository() *AffiliateRepository {
	return &AffiliateRepository{
		affiliates: make(map[string]*models.Affiliate),
		credited:   make(map[string]struct{}),
	}
}

func (r *AffiliateRepository) Create(_ context.Context, affiliate *models.Affiliate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.affiliates[affiliate.ID]; exists {
		return repository.ErrAlreadyExists
	}
	for _, existing := range r.affiliates {
		if existing.ReferralCode == affiliate.ReferralCode {
			return repository.ErrAlreadyExists
		}
	}
	if affiliate.CreatedAt.IsZero() {
		affiliate.CreatedAt = time.Now().UTC()
	}
	copied := *affiliate
	r.affiliates[affiliate.ID] = &copied
	return nil
}

func (r *AffiliateRepository) GetByID(_ context.Context, id string) (*models.Affiliate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	affiliate, ok := r.affiliates[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *affiliate
	return &copied, nil
}

func (r *AffiliateRepository) GetByReferralCode(_ context.Context, code string) (*models.Affiliate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, affiliate := range r.affiliates {
		if affiliate.ReferralCode == code {
			copied := *affiliate
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *AffiliateRepository) IncrementClicks(_ context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, affiliate := range r.affiliates {
		if affiliate.ReferralCode == code {
			affiliate.LinkClicks++
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *AffiliateRepository) CreditAffiliate(_ context.Context, commission *models.Commission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := commission.OrderID + "|" + string(commission.Trigger)
	if _, done := r.credited[key]; done {
		return repository.ErrAlreadyCredited
	}
	affiliate, ok := r.affiliates[commission.AffiliateID]
	if !ok {
		return repository.ErrNotFound
	}

	affiliate.PendingCommission = affiliate.PendingCommission.Add(commission.Amount)
	affiliate.TotalSales = affiliate.TotalSales.Add(commission.SaleAmount)
	affiliate.Conversions++
	affiliate.UpdatedAt = time.Now().UTC()

	commission.ID = uint(len(r.commissions) + 1)
	if commission.CreatedAt.IsZero() {
		commission.CreatedAt = affiliate.UpdatedAt
	}
	r.commissions = append(r.commissions, *commission)
	r.credited[key] = struct{}{}
	return nil
}

func (r *AffiliateRepository) ListCommissions(_ context.Context, affiliateID string) ([]models.Commission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var commissions []models.Commission
	for _, c := range r.commissions {
		if c.AffiliateID == affiliateID {
			commissions = append(commissions, c)
		}
	}
	return commissions, nil
}
