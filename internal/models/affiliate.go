package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Affiliate struct {
	ID                string          `json:"id" gorm:"primaryKey;size:64"`
	Name              string          `json:"name" gorm:"not null"`
	ReferralCode      string          `json:"referral_code" gorm:"size:64;uniqueIndex;not null"`
	PayoutContact     string          `json:"payout_contact"`
	Status            AffiliateStatus `json:"status" gorm:"size:16;default:'Pending'"`
	LinkClicks        int64           `json:"link_clicks" gorm:"default:0"`
	Conversions       int64           `json:"conversions" gorm:"default:0"`
	TotalSales        decimal.Decimal `json:"total_sales" gorm:"type:decimal(20,2);default:0"`
	PendingCommission decimal.Decimal `json:"pending_commission" gorm:"type:decimal(20,2);default:0"`
	PaidCommission    decimal.Decimal `json:"paid_commission" gorm:"type:decimal(20,2);default:0"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

type AffiliateStatus string

const (
	AffiliatePending  AffiliateStatus = "Pending"
	AffiliateApproved AffiliateStatus = "Approved"
	AffiliateRejected AffiliateStatus = "Rejected"
)

// Commission records one credit to an affiliate for an order event.
type Commission struct {
	ID          uint              `json:"id" gorm:"primaryKey"`
	AffiliateID string            `json:"affiliate_id" gorm:"size:64;not null;index"`
	OrderID     string            `json:"order_id" gorm:"size:64;not null;uniqueIndex:idx_commission_order_trigger"`
	Trigger     CommissionTrigger `json:"trigger" gorm:"size:32;not null;uniqueIndex:idx_commission_order_trigger"`
	RuleID      uint              `json:"rule_id"`
	Amount      decimal.Decimal   `json:"amount" gorm:"type:decimal(20,2);not null"`
	SaleAmount  decimal.Decimal   `json:"sale_amount" gorm:"type:decimal(20,2);not null"`
	Currency    string            `json:"currency" gorm:"size:3"`
	CreatedAt   time.Time         `json:"created_at"`
}
