package memory

import (
	"context"
	"storefront/internal/models"
	"sync"
)

type LedgerRepository struct {
	mu      sync.RWMutex
	entries []models.Transaction
}

func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{}
}

func (r *LedgerRepository) Append(_ context.Context, txn *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, *txn)
	return nil
}

func (r *LedgerRepository) List(_ context.Context, orderID string) ([]models.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	txns := make([]models.Transaction, 0, len(r.entries))
	for _, txn := range r.entries {
		if orderID != "" && txn.OrderID != orderID {
			continue
		}
		txns = append(txns, txn)
	}
	return txns, nil
}
