// Package memory provides in-process repository implementations used by
// tests and by the server when DATABASE_URL=memory.
package memory

import (
	"context"
	"sort"
	"storefront/internal/models"
	"storefront/internal/repository"
	"sync"
	"time"
)

var (
	_ repository.OrderRepository          = (*OrderRepository)(nil)
	_ repository.LedgerRepository         = (*LedgerRepository)(nil)
	_ repository.AffiliateRepository      = (*AffiliateRepository)(nil)
	_ repository.CommissionRuleRepository = (*CommissionRuleRepository)(nil)
)

type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*models.Order
	now    func() time.Time
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders: make(map[string]*models.Order),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *OrderRepository) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.ID]; exists {
		return repository.ErrAlreadyExists
	}
	now := r.now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now
	r.orders[order.ID] = order.Clone()
	return nil
}

func (r *OrderRepository) GetByID(_ context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return order.Clone(), nil
}

// Update applies the patch to a private copy and swaps it in, so readers
// never observe a half-merged order.
func (r *OrderRepository) Update(_ context.Context, id string, patch models.OrderPatch) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	next := current.Clone()
	patch.Apply(next, r.now())
	r.orders[id] = next
	return next.Clone(), nil
}

func (r *OrderRepository) List(_ context.Context, filter repository.OrderFilter) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		if filter.AssignedStaffID != "" && order.AssignedStaffID != filter.AssignedStaffID {
			continue
		}
		orders = append(orders, *order.Clone())
	}
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID < orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	if filter.Limit > 0 && len(orders) > filter.Limit {
		orders = orders[:filter.Limit]
	}
	return orders, nil
}
