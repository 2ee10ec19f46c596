package migrations

import (
	"context"
	"storefront/internal/models"
	"storefront/internal/repository/memory"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDefaultRules(t *testing.T) {
	ctx := context.Background()
	rules := memory.NewCommissionRuleRepository()

	require.NoError(t, SeedDefaultRules(ctx, rules, nil))
	require.NoError(t, SeedDefaultRules(ctx, rules, nil))

	active, err := rules.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, len(DefaultCommissionRules()))
	assert.Equal(t, models.TriggerOrderPaid, active[0].Trigger)
}

func TestSeedDefaultRulesKeepsExistingRules(t *testing.T) {
	ctx := context.Background()
	rules := memory.NewCommissionRuleRepository()
	require.NoError(t, rules.Create(ctx, &models.CommissionRule{
		Name: "Custom", Trigger: models.TriggerOrderDelivered, Type: models.CommissionFixed,
		Value: decimal.NewFromInt(500), Active: true,
	}))

	require.NoError(t, SeedDefaultRules(ctx, rules, nil))

	active, err := rules.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Custom", active[0].Name)
}
