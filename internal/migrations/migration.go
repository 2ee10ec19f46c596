package migrations

import (
	"context"
	"fmt"
	"storefront/internal/database"
	"storefront/internal/models"
	"storefront/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultCommissionRules is the rule set a fresh store starts with.
func DefaultCommissionRules() []models.CommissionRule {
	return []models.CommissionRule{
		{
			Name:     "Standard referral",
			Priority: 100,
			Trigger:  models.TriggerOrderPaid,
			Type:     models.CommissionPercentage,
			Value:    decimal.NewFromInt(5),
			Active:   true,
		},
	}
}

// RunMigrations migrates the schema and seeds default commission rules.
// With reset, existing tables are dropped first.
func RunMigrations(db *gorm.DB, reset bool, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	if reset {
		log.Warn("dropping existing tables")
		if err := db.Migrator().DropTable(database.Models()...); err != nil {
			log.Warn("error dropping tables", zap.Error(err))
		}
	}

	if err := db.AutoMigrate(database.Models()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := SeedDefaultRules(context.Background(), repository.NewCommissionRuleRepository(db), log); err != nil {
		log.Warn("failed to create default commission rules", zap.Error(err))
	}

	log.Info("database migrations completed")
	return nil
}

// SeedDefaultRules creates DefaultCommissionRules when no active rule exists.
func SeedDefaultRules(ctx context.Context, ruleRepo repository.CommissionRuleRepository, log *zap.Logger) error {
	existing, err := ruleRepo.ListActive(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for _, rule := range DefaultCommissionRules() {
		rule := rule
		if err := ruleRepo.Create(ctx, &rule); err != nil {
			return fmt.Errorf("failed to create rule %q: %w", rule.Name, err)
		}
		if log != nil {
			log.Info("default commission rule created", zap.String("rule", rule.Name))
		}
	}
	return nil
}
