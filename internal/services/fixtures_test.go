package services

import (
	"context"
	"storefront/internal/lock"
	"storefront/internal/models"
	"storefront/internal/repository/memory"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	orderRepo     *memory.OrderRepository
	ledgerRepo    *memory.LedgerRepository
	affiliateRepo *memory.AffiliateRepository
	ruleRepo      *memory.CommissionRuleRepository

	locker     *lock.KeyedMutex
	affiliates AffiliateService
	commission CommissionEngine
	ledger     LedgerPoster
	orders     OrderService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		orderRepo:     memory.NewOrderRepository(),
		ledgerRepo:    memory.NewLedgerRepository(),
		affiliateRepo: memory.NewAffiliateRepository(),
		ruleRepo:      memory.NewCommissionRuleRepository(),
		locker:        lock.NewKeyedMutex(),
	}
	f.affiliates = NewAffiliateService(f.affiliateRepo)
	f.commission = NewCommissionEngine(f.affiliates, f.ruleRepo, f.affiliateRepo, nil)
	f.ledger = NewLedgerPoster(f.ledgerRepo)
	f.orders = NewOrderService(f.orderRepo, f.locker, f.commission)
	return f
}

func (f *fixture) addAffiliate(t *testing.T, id, code string, status models.AffiliateStatus) {
	t.Helper()
	require.NoError(t, f.affiliateRepo.Create(context.Background(), &models.Affiliate{
		ID:           id,
		Name:         "Affiliate " + id,
		ReferralCode: code,
		Status:       status,
	}))
}

func (f *fixture) addRule(t *testing.T, rule models.CommissionRule) {
	t.Helper()
	rule.Active = true
	require.NoError(t, f.ruleRepo.Create(context.Background(), &rule))
}

func (f *fixture) addOrder(t *testing.T, id string, total int64, currency, affiliateRef string) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:                id,
		CustomerName:      "Grace N.",
		Items:             []models.OrderItem{{SKU: "BAG-01", Name: "Kitenge tote", Category: "Bags", Quantity: 1, UnitPrice: decimal.NewFromInt(total)}},
		Total:             decimal.NewFromInt(total),
		Currency:          currency,
		FulfillmentMethod: models.FulfillmentDelivery,
		Payment:           models.Payment{Method: "Mobile Money"},
		AffiliateRef:      affiliateRef,
	}
	require.NoError(t, f.orders.CreateOrder(context.Background(), order))
	return order
}

func (f *fixture) ledgerEntries(t *testing.T, orderID string) []models.Transaction {
	t.Helper()
	txns, err := f.ledger.ListTransactions(context.Background(), orderID)
	require.NoError(t, err)
	return txns
}

func (f *fixture) affiliate(t *testing.T, id string) *models.Affiliate {
	t.Helper()
	a, err := f.affiliates.GetAffiliate(context.Background(), id)
	require.NoError(t, err)
	return a
}

func percentageRule(trigger models.CommissionTrigger, value string) models.CommissionRule {
	return models.CommissionRule{
		Name:     string(trigger) + " " + value + "%",
		Priority: 10,
		Trigger:  trigger,
		Type:     models.CommissionPercentage,
		Value:    decimal.RequireFromString(value),
	}
}

type spyEngine struct {
	mu    sync.Mutex
	calls []models.CommissionTrigger
}

func (e *spyEngine) ProcessOrderForCommission(_ context.Context, _ *models.Order, trigger models.CommissionTrigger) (CommissionResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, trigger)
	return CommissionResult{Outcome: CommissionNoAffiliate}, nil
}

func (e *spyEngine) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

type recordingNotifier struct {
	mu     sync.Mutex
	orders []string
	err    error
}

func (n *recordingNotifier) NotifyOrderPaid(_ context.Context, order *models.Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.orders = append(n.orders, order.ID)
	return n.err
}
