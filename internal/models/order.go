package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Order struct {
	ID                string                            `json:"id" gorm:"primaryKey;size:64"`
	CustomerName      string                            `json:"customer_name"`
	CustomerPhone     string                            `json:"customer_phone"`
	Items             datatypes.JSONSlice[OrderItem]    `json:"items" gorm:"type:jsonb"`
	Total             decimal.Decimal                   `json:"total" gorm:"type:decimal(20,2);not null"`
	Currency          string                            `json:"currency" gorm:"size:3;not null"`
	FulfillmentMethod FulfillmentMethod                 `json:"fulfillment_method" gorm:"size:16;not null"`
	Status            OrderStatus                       `json:"status" gorm:"size:32;not null;index"`
	Payment           Payment                           `json:"payment" gorm:"embedded;embeddedPrefix:payment_"`
	AffiliateRef      string                            `json:"affiliate_ref,omitempty" gorm:"size:64;index"`
	AssignedStaffID   string                            `json:"assigned_staff_id,omitempty" gorm:"size:64"`
	DeliveryNotes     datatypes.JSONSlice[DeliveryNote] `json:"delivery_notes" gorm:"type:jsonb"`
	PaidAt            *time.Time                        `json:"paid_at,omitempty"`
	CreatedAt         time.Time                         `json:"created_at"`
	UpdatedAt         time.Time                         `json:"updated_at"`
}

type OrderItem struct {
	SKU       string          `json:"sku"`
	Name      string          `json:"name,omitempty"`
	Category  string          `json:"category,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// DeliveryNote is an entry in the order's append-only activity log.
type DeliveryNote struct {
	Message   string    `json:"message"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Payment struct {
	Method        string        `json:"method"`
	Status        PaymentStatus `json:"status" gorm:"size:16"`
	TransactionID string        `json:"transaction_id,omitempty" gorm:"size:64"`
	UpdatedAt     *time.Time    `json:"updated_at,omitempty"`
}

type OrderStatus string

const (
	OrderAwaitingPayment OrderStatus = "Awaiting Payment"
	OrderPaid            OrderStatus = "Paid"
	OrderReadyForPickup  OrderStatus = "Ready for Pickup"
	OrderShipped         OrderStatus = "Shipped"
	OrderPickedUp        OrderStatus = "Picked Up"
	OrderDelivered       OrderStatus = "Delivered"
	OrderCancelled       OrderStatus = "Cancelled"
)

// IsTerminal reports whether no further fulfillment transition is possible.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderPickedUp, OrderDelivered, OrderCancelled:
		return true
	default:
		return false
	}
}

type FulfillmentMethod string

const (
	FulfillmentDelivery FulfillmentMethod = "Delivery"
	FulfillmentPickup   FulfillmentMethod = "Pickup"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// IsSettled reports whether a successful payment has already been recorded.
// It stays true after a paid order is cancelled.
func (o *Order) IsSettled() bool {
	return o.Payment.Status == PaymentCompleted && o.Payment.TransactionID != ""
}

// Clone returns a deep copy so callers never share slices with a store.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	if o.Items != nil {
		c.Items = append(datatypes.JSONSlice[OrderItem](nil), o.Items...)
	}
	if o.DeliveryNotes != nil {
		c.DeliveryNotes = append(datatypes.JSONSlice[DeliveryNote](nil), o.DeliveryNotes...)
	}
	if o.PaidAt != nil {
		t := *o.PaidAt
		c.PaidAt = &t
	}
	if o.Payment.UpdatedAt != nil {
		t := *o.Payment.UpdatedAt
		c.Payment.UpdatedAt = &t
	}
	return &c
}

// HasCategory reports whether any line item belongs to the category.
func (o *Order) HasCategory(category string) bool {
	for _, item := range o.Items {
		if item.Category == category {
			return true
		}
	}
	return false
}
