package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func sampleOrder() *Order {
	return &Order{
		ID:                "ORD-100",
		Total:             decimal.NewFromInt(75000),
		Currency:          "UGX",
		FulfillmentMethod: FulfillmentDelivery,
		Status:            OrderAwaitingPayment,
		Payment:           Payment{Method: "Mobile Money", Status: PaymentPending},
		DeliveryNotes:     []DeliveryNote{{Message: "created"}},
	}
}

func TestOrderPatch_StatusKeepsPaymentMethod(t *testing.T) {
	order := sampleOrder()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	OrderPatch{Status: ptr(OrderPaid)}.Apply(order, now)

	assert.Equal(t, OrderPaid, order.Status)
	assert.Equal(t, "Mobile Money", order.Payment.Method)
	assert.Equal(t, PaymentPending, order.Payment.Status)
	assert.Equal(t, now, order.UpdatedAt)
}

func TestOrderPatch_PaymentMergedShallowly(t *testing.T) {
	order := sampleOrder()
	now := time.Now().UTC()

	OrderPatch{Payment: &PaymentPatch{Status: ptr(PaymentCompleted), TransactionID: ptr("TXN-1")}}.Apply(order, now)

	assert.Equal(t, "Mobile Money", order.Payment.Method)
	assert.Equal(t, PaymentCompleted, order.Payment.Status)
	assert.Equal(t, "TXN-1", order.Payment.TransactionID)
	require.NotNil(t, order.Payment.UpdatedAt)
	assert.True(t, order.IsSettled())
}

func TestOrderPatch_DeliveryNotesAppended(t *testing.T) {
	order := sampleOrder()
	now := time.Now().UTC()

	OrderPatch{DeliveryNotes: []DeliveryNote{{Message: "left at gate", Author: "staff-1"}}}.Apply(order, now)
	OrderPatch{DeliveryNotes: []DeliveryNote{{Message: "customer called"}}}.Apply(order, now)

	require.Len(t, order.DeliveryNotes, 3)
	assert.Equal(t, "created", order.DeliveryNotes[0].Message)
	assert.Equal(t, "left at gate", order.DeliveryNotes[1].Message)
	assert.Equal(t, now, order.DeliveryNotes[2].CreatedAt)
}

func TestOrderPatch_IsEmpty(t *testing.T) {
	assert.True(t, OrderPatch{}.IsEmpty())
	assert.False(t, OrderPatch{AssignedStaffID: ptr("s1")}.IsEmpty())
}

func TestOrderClone_DoesNotShareSlices(t *testing.T) {
	order := sampleOrder()
	clone := order.Clone()
	clone.DeliveryNotes[0].Message = "changed"
	clone.DeliveryNotes = append(clone.DeliveryNotes, DeliveryNote{Message: "extra"})

	assert.Equal(t, "created", order.DeliveryNotes[0].Message)
	assert.Len(t, order.DeliveryNotes, 1)
}

func TestOrderIsSettled_SurvivesCancellation(t *testing.T) {
	order := sampleOrder()
	order.Status = OrderCancelled
	order.Payment.Status = PaymentCompleted
	order.Payment.TransactionID = "TXN-9"

	assert.True(t, order.IsSettled())
	assert.True(t, order.Status.IsTerminal())
}

func TestCommissionRuleInScope(t *testing.T) {
	order := sampleOrder()
	order.Items = []OrderItem{{SKU: "SHOE-1", Category: "Footwear", Quantity: 1, UnitPrice: decimal.NewFromInt(75000)}}

	assert.True(t, (&CommissionRule{}).InScope(order))
	assert.True(t, (&CommissionRule{ScopeCurrency: "UGX", ScopeCategory: "Footwear"}).InScope(order))
	assert.False(t, (&CommissionRule{ScopeCurrency: "KES"}).InScope(order))
	assert.False(t, (&CommissionRule{ScopeCategory: "Bags"}).InScope(order))
	assert.True(t, (&CommissionRule{ScopeCurrency: "ugx"}).InScope(order))
	assert.True(t, (&CommissionRule{ScopeCurrency: " Ugx "}).InScope(order))
	assert.False(t, (&CommissionRule{ScopeCurrency: "kes"}).InScope(order))
}
