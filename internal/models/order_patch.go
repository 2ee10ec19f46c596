package models

import "time"

// OrderPatch carries a partial order update. Nil fields are left untouched,
// DeliveryNotes are appended to the existing list.
type OrderPatch struct {
	Status            *OrderStatus
	FulfillmentMethod *FulfillmentMethod
	AffiliateRef      *string
	AssignedStaffID   *string
	PaidAt            *time.Time
	Payment           *PaymentPatch
	DeliveryNotes     []DeliveryNote
}

// PaymentPatch is merged shallowly into the order's payment record.
type PaymentPatch struct {
	Method        *string
	Status        *PaymentStatus
	TransactionID *string
}

// IsEmpty reports whether applying the patch would change nothing.
func (p OrderPatch) IsEmpty() bool {
	return p.Status == nil &&
		p.FulfillmentMethod == nil &&
		p.AffiliateRef == nil &&
		p.AssignedStaffID == nil &&
		p.PaidAt == nil &&
		p.Payment == nil &&
		len(p.DeliveryNotes) == 0
}

// Apply merges the patch into the order in place.
func (p OrderPatch) Apply(order *Order, now time.Time) {
	if p.Status != nil {
		order.Status = *p.Status
	}
	if p.FulfillmentMethod != nil {
		order.FulfillmentMethod = *p.FulfillmentMethod
	}
	if p.AffiliateRef != nil {
		order.AffiliateRef = *p.AffiliateRef
	}
	if p.AssignedStaffID != nil {
		order.AssignedStaffID = *p.AssignedStaffID
	}
	if p.PaidAt != nil {
		t := *p.PaidAt
		order.PaidAt = &t
	}
	if p.Payment != nil {
		if p.Payment.Method != nil {
			order.Payment.Method = *p.Payment.Method
		}
		if p.Payment.Status != nil {
			order.Payment.Status = *p.Payment.Status
		}
		if p.Payment.TransactionID != nil {
			order.Payment.TransactionID = *p.Payment.TransactionID
		}
		t := now
		order.Payment.UpdatedAt = &t
	}
	for _, note := range p.DeliveryNotes {
		if note.CreatedAt.IsZero() {
			note.CreatedAt = now
		}
		order.DeliveryNotes = append(order.DeliveryNotes, note)
	}
	order.UpdatedAt = now
}
