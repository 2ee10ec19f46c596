package database

import (
	"fmt"
	"storefront/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every persisted table, in creation order.
func Models() []interface{} {
	return []interface{}{
		&models.Order{},
		&models.Transaction{},
		&models.Affiliate{},
		&models.Commission{},
		&models.CommissionRule{},
	}
}

func Initialize(databaseURL string, log *zap.Logger) (*gorm.DB, error) {
	// Configure GORM
	config := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(databaseURL), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto migrate all models
	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if log != nil {
		log.Info("database connected and migrated")
	}
	return db, nil
}
