package services

import (
	"context"
	"fmt"
	"storefront/internal/models"
	"storefront/internal/repository"
	"time"

	"github.com/oklog/ulid/v2"
)

// LedgerPoster appends income entries for paid orders. It does not
// deduplicate: callers must invoke it at most once per settled payment.
type LedgerPoster interface {
	PostSaleTransaction(ctx context.Context, order *models.Order) (*models.Transaction, error)
	ListTransactions(ctx context.Context, orderID string) ([]models.Transaction, error)
}

type ledgerPoster struct {
	ledgerRepo repository.LedgerRepository
	now        func() time.Time
}

func NewLedgerPoster(ledgerRepo repository.LedgerRepository) LedgerPoster {
	return &ledgerPoster{
		ledgerRepo: ledgerRepo,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (p *ledgerPoster) PostSaleTransaction(ctx context.Context, order *models.Order) (*models.Transaction, error) {
	now := p.now()
	txn := &models.Transaction{
		ID:            ulid.Make().String(),
		Date:          now,
		Description:   fmt.Sprintf("Sale for order %s", order.ID),
		Amount:        order.Total,
		Currency:      order.Currency,
		Type:          models.TransactionIncome,
		Category:      models.CategorySales,
		Status:        models.TransactionCleared,
		PaymentMethod: order.Payment.Method,
		OrderID:       order.ID,
		CreatedAt:     now,
	}

	if err := p.ledgerRepo.Append(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to post sale transaction for order %s: %w", order.ID, err)
	}
	return txn, nil
}

func (p *ledgerPoster) ListTransactions(ctx context.Context, orderID string) ([]models.Transaction, error) {
	return p.ledgerRepo.List(ctx, orderID)
}
