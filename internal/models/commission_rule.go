package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type CommissionRule struct {
	ID            uint              `json:"id" gorm:"primaryKey"`
	Name          string            `json:"name" gorm:"not null"`
	Priority      int               `json:"priority" gorm:"not null;index"`
	Trigger       CommissionTrigger `json:"trigger" gorm:"size:32;not null"`
	Type          CommissionType    `json:"type" gorm:"size:32;not null"`
	Value         decimal.Decimal   `json:"value" gorm:"type:decimal(20,4);not null"`
	ScopeCurrency string            `json:"scope_currency,omitempty" gorm:"size:3"`
	ScopeCategory string            `json:"scope_category,omitempty" gorm:"size:64"`
	Active        bool              `json:"active" gorm:"not null"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

type CommissionTrigger string

const (
	TriggerOrderPaid      CommissionTrigger = "On Order Paid"
	TriggerOrderDelivered CommissionTrigger = "On Order Delivered"
)

type CommissionType string

const (
	CommissionFixed      CommissionType = "Fixed Amount"
	CommissionPercentage CommissionType = "Percentage of Sale"
)

// InScope reports whether the rule's scope predicate accepts the order.
// Empty scope fields match everything. Currency scope ignores case.
func (r *CommissionRule) InScope(order *Order) bool {
	if r.ScopeCurrency != "" && !strings.EqualFold(strings.TrimSpace(r.ScopeCurrency), order.Currency) {
		return false
	}
	if r.ScopeCategory != "" && !order.HasCategory(r.ScopeCategory) {
		return false
	}
	return true
}
