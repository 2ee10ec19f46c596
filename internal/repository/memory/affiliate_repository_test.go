package memory

import (
	"context"
	"storefront/internal/models"
	"storefront/internal/repository"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAffiliateRepository_CreditOncePerOrderAndTrigger(t *testing.T) {
	repo := NewAffiliateRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &models.Affiliate{ID: "AFF-9", Name: "Aisha", ReferralCode: "AISHA", Status: models.AffiliateApproved}))

	credit := func(trigger models.CommissionTrigger) error {
		return repo.CreditAffiliate(ctx, &models.Commission{
			AffiliateID: "AFF-9",
			OrderID:     "ORD-100",
			Trigger:     trigger,
			Amount:      decimal.NewFromInt(3750),
			SaleAmount:  decimal.NewFromInt(75000),
			Currency:    "UGX",
		})
	}

	require.NoError(t, credit(models.TriggerOrderPaid))
	assert.ErrorIs(t, credit(models.TriggerOrderPaid), repository.ErrAlreadyCredited)
	require.NoError(t, credit(models.TriggerOrderDelivered))

	affiliate, err := repo.GetByID(ctx, "AFF-9")
	require.NoError(t, err)
	assert.True(t, affiliate.PendingCommission.Equal(decimal.NewFromInt(7500)))
	assert.Equal(t, int64(2), affiliate.Conversions)

	commissions, err := repo.ListCommissions(ctx, "AFF-9")
	require.NoError(t, err)
	assert.Len(t, commissions, 2)
}

func TestAffiliateRepository_CreditUnknownAffiliate(t *testing.T) {
	repo := NewAffiliateRepository()

	err := repo.CreditAffiliate(context.Background(), &models.Commission{AffiliateID: "nope", OrderID: "ORD-1", Trigger: models.TriggerOrderPaid})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAffiliateRepository_Clicks(t *testing.T) {
	repo := NewAffiliateRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &models.Affiliate{ID: "AFF-1", ReferralCode: "JOE"}))
	assert.ErrorIs(t, repo.Create(ctx, &models.Affiliate{ID: "AFF-2", ReferralCode: "JOE"}), repository.ErrAlreadyExists)

	require.NoError(t, repo.IncrementClicks(ctx, "JOE"))
	require.NoError(t, repo.IncrementClicks(ctx, "JOE"))
	assert.ErrorIs(t, repo.IncrementClicks(ctx, "NOPE"), repository.ErrNotFound)

	affiliate, err := repo.GetByReferralCode(ctx, "JOE")
	require.NoError(t, err)
	assert.Equal(t, int64(2), affiliate.LinkClicks)
}

func TestCommissionRuleRepository_ListActiveOrdering(t *testing.T) {
	repo := NewCommissionRuleRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &models.CommissionRule{Name: "late", Priority: 20, Active: true}))
	require.NoError(t, repo.Create(ctx, &models.CommissionRule{Name: "off", Priority: 1, Active: false}))
	require.NoError(t, repo.Create(ctx, &models.CommissionRule{Name: "first", Priority: 10, Active: true}))
	require.NoError(t, repo.Create(ctx, &models.CommissionRule{Name: "tie", Priority: 10, Active: true}))

	rules, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 3)
	assert.Equal(t, "first", rules[0].Name)
	assert.Equal(t, "tie", rules[1].Name)
	assert.Equal(t, "late", rules[2].Name)
}
