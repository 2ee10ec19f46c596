package main

import (
	"context"
	"log"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/logger"
	"storefront/internal/migrations"
	"storefront/internal/models"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Resets the schema and seeds a demo merchant: default rules, one approved
// affiliate and one order awaiting payment.
func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer zl.Sync()

	if cfg.DatabaseURL == config.DatabaseMemory {
		zl.Fatal("init-db needs a postgres DATABASE_URL")
	}

	db, err := database.Initialize(cfg.DatabaseURL, zl)
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := migrations.RunMigrations(db, true, zl); err != nil {
		zl.Fatal("failed to migrate database", zap.Error(err))
	}

	ctx := context.Background()
	affiliateRepo := repository.NewAffiliateRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	ruleRepo := repository.NewCommissionRuleRepository(db)

	deliveryRule := &models.CommissionRule{
		Name:     "Delivered bonus",
		Priority: 200,
		Trigger:  models.TriggerOrderDelivered,
		Type:     models.CommissionFixed,
		Value:    decimal.NewFromInt(1000),
		Active:   true,
	}
	if err := ruleRepo.Create(ctx, deliveryRule); err != nil {
		zl.Warn("failed to create delivery rule", zap.Error(err))
	}

	affiliate := &models.Affiliate{
		ID:            "AFF-9",
		Name:          "Wanjiku",
		ReferralCode:  "WANJIKU",
		PayoutContact: "+256700000009",
		Status:        models.AffiliateApproved,
	}
	if err := affiliateRepo.Create(ctx, affiliate); err != nil {
		zl.Warn("failed to create demo affiliate", zap.Error(err))
	}

	order := &models.Order{
		ID:            "ORD-100",
		CustomerName:  "Grace Nakato",
		CustomerPhone: "+256701000100",
		Items: []models.OrderItem{
			{SKU: "BAG-" + uuid.NewString()[:8], Name: "Kitenge tote", Category: "Bags", Quantity: 1, UnitPrice: decimal.NewFromInt(75000)},
		},
		Total:             decimal.NewFromInt(75000),
		Currency:          cfg.DefaultCurrency,
		FulfillmentMethod: models.FulfillmentDelivery,
		Status:            models.OrderAwaitingPayment,
		Payment:           models.Payment{Method: "Mobile Money", Status: models.PaymentPending},
		AffiliateRef:      affiliate.ID,
	}
	if err := orderRepo.Create(ctx, order); err != nil {
		zl.Warn("failed to create demo order", zap.Error(err))
	}

	zl.Info("database initialization completed",
		zap.String("affiliate_id", affiliate.ID),
		zap.String("referral_code", affiliate.ReferralCode),
		zap.String("order_id", order.ID),
	)
}
