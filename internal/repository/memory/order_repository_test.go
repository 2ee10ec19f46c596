package memory

import (
	"context"
	"fmt"
	"storefront/internal/models"
	"storefront/internal/repository"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(id string) *models.Order {
	return &models.Order{
		ID:                id,
		Total:             decimal.NewFromInt(75000),
		Currency:          "UGX",
		FulfillmentMethod: models.FulfillmentDelivery,
		Status:            models.OrderAwaitingPayment,
		Payment:           models.Payment{Method: "Mobile Money", Status: models.PaymentPending},
	}
}

func TestOrderRepository_GetUnknown(t *testing.T) {
	repo := NewOrderRepository()

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.Update(context.Background(), "missing", models.OrderPatch{})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestOrderRepository_CreateDuplicate(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newOrder("ORD-1")))
	assert.ErrorIs(t, repo.Create(ctx, newOrder("ORD-1")), repository.ErrAlreadyExists)
}

func TestOrderRepository_UpdatePreservesPaymentMethod(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newOrder("ORD-100")))

	status := models.OrderPaid
	updated, err := repo.Update(ctx, "ORD-100", models.OrderPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaid, updated.Status)
	assert.Equal(t, "Mobile Money", updated.Payment.Method)

	stored, err := repo.GetByID(ctx, "ORD-100")
	require.NoError(t, err)
	assert.Equal(t, "Mobile Money", stored.Payment.Method)
}

func TestOrderRepository_ReturnedOrderIsDetached(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newOrder("ORD-2")))

	got, err := repo.GetByID(ctx, "ORD-2")
	require.NoError(t, err)
	got.Status = models.OrderCancelled
	got.DeliveryNotes = append(got.DeliveryNotes, models.DeliveryNote{Message: "local only"})

	again, err := repo.GetByID(ctx, "ORD-2")
	require.NoError(t, err)
	assert.Equal(t, models.OrderAwaitingPayment, again.Status)
	assert.Empty(t, again.DeliveryNotes)
}

func TestOrderRepository_ConcurrentNoteAppends(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newOrder("ORD-3")))

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Update(ctx, "ORD-3", models.OrderPatch{
				DeliveryNotes: []models.DeliveryNote{{Message: fmt.Sprintf("note-%d", i)}},
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	order, err := repo.GetByID(ctx, "ORD-3")
	require.NoError(t, err)
	assert.Len(t, order.DeliveryNotes, writers)
}

func TestOrderRepository_ListFilters(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newOrder("ORD-A")))
	paid := newOrder("ORD-B")
	paid.Status = models.OrderPaid
	paid.AssignedStaffID = "staff-1"
	require.NoError(t, repo.Create(ctx, paid))

	all, err := repo.List(ctx, repository.OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byStatus, err := repo.List(ctx, repository.OrderFilter{Status: models.OrderPaid})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, "ORD-B", byStatus[0].ID)

	byStaff, err := repo.List(ctx, repository.OrderFilter{AssignedStaffID: "staff-1", Limit: 5})
	require.NoError(t, err)
	assert.Len(t, byStaff, 1)
}
