package services

import (
	"context"
	"errors"
	"fmt"
	"storefront/internal/models"
	"storefront/internal/repository"
	"strings"
)

type AffiliateService interface {
	// GetAffiliateByAttribution resolves the order's affiliate reference as an id,
	// then as a referral code. It returns (nil, nil) when the order has no reference.
	GetAffiliateByAttribution(ctx context.Context, order *models.Order) (*models.Affiliate, error)
	GetAffiliate(ctx context.Context, id string) (*models.Affiliate, error)
	ListCommissions(ctx context.Context, affiliateID string) ([]models.Commission, error)
	RecordClick(ctx context.Context, referralCode string) error
}

type affiliateService struct {
	affiliateRepo repository.AffiliateRepository
}

func NewAffiliateService(affiliateRepo repository.AffiliateRepository) AffiliateService {
	return &affiliateService{affiliateRepo: affiliateRepo}
}

func (s *affiliateService) GetAffiliateByAttribution(ctx context.Context, order *models.Order) (*models.Affiliate, error) {
	ref := strings.TrimSpace(order.AffiliateRef)
	if ref == "" {
		return nil, nil
	}

	affiliate, err := s.affiliateRepo.GetByID(ctx, ref)
	if errors.Is(err, repository.ErrNotFound) {
		affiliate, err = s.affiliateRepo.GetByReferralCode(ctx, ref)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAffiliateNotFound, ref)
		}
		return nil, fmt.Errorf("failed to resolve affiliate %s: %w", ref, err)
	}

	if affiliate.Status != models.AffiliateApproved {
		return nil, fmt.Errorf("%w: %s is %s", ErrAffiliateNotApproved, affiliate.ID, affiliate.Status)
	}
	return affiliate, nil
}

func (s *affiliateService) GetAffiliate(ctx context.Context, id string) (*models.Affiliate, error) {
	affiliate, err := s.affiliateRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAffiliateNotFound
	}
	return affiliate, err
}

func (s *affiliateService) ListCommissions(ctx context.Context, affiliateID string) ([]models.Commission, error) {
	return s.affiliateRepo.ListCommissions(ctx, affiliateID)
}

func (s *affiliateService) RecordClick(ctx context.Context, referralCode string) error {
	code := strings.TrimSpace(referralCode)
	if code == "" {
		return ErrInvalidInput
	}
	err := s.affiliateRepo.IncrementClicks(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrAffiliateNotFound
	}
	return err
}
