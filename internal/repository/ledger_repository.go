package repository

import (
	"context"
	"storefront/internal/models"

	"gorm.io/gorm"
)

// LedgerRepository is append-only: entries are never updated or removed.
type LedgerRepository interface {
	Append(ctx context.Context, txn *models.Transaction) error
	List(ctx context.Context, orderID string) ([]models.Transaction, error)
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Append(ctx context.Context, txn *models.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *ledgerRepository) List(ctx context.Context, orderID string) ([]models.Transaction, error) {
	var txns []models.Transaction
	query := r.db.WithContext(ctx).Order("date ASC").Order("id ASC")
	if orderID != "" {
		query = query.Where("order_id = ?", orderID)
	}
	err := query.Find(&txns).Error
	return txns, err
}
