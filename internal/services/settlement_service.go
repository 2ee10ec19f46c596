package services

import (
	"context"
	"errors"
	"fmt"
	"storefront/internal/lock"
	"storefront/internal/models"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	PaymentStatusSuccess = "SUCCESS"
	PaymentStatusFailed  = "FAILED"
)

// PaymentNotification is the inbound payment provider event.
type PaymentNotification struct {
	OrderID string
	Status  string
	// TransactionID is the provider reference; one is generated when empty.
	TransactionID string
}

type SettlementOutcome string

const (
	OutcomeSettled        SettlementOutcome = "settled"
	OutcomeAlreadySettled SettlementOutcome = "already_settled"
	OutcomePaymentFailed  SettlementOutcome = "payment_failed"
	OutcomeIgnored        SettlementOutcome = "ignored"
)

type SettlementResult struct {
	Outcome     SettlementOutcome
	Order       *models.Order
	Transaction *models.Transaction
	Commission  *CommissionResult
}

type SettlementService interface {
	HandlePaymentNotification(ctx context.Context, n PaymentNotification) (*SettlementResult, error)
}

type settlementService struct {
	orders     OrderService
	ledger     LedgerPoster
	commission CommissionEngine
	locker     lock.Locker
	notifier   Notifier
	logger     *zap.Logger
	now        func() time.Time
	newTxnID   func() string
}

type SettlementOption func(*settlementService)

func WithNotifier(notifier Notifier) SettlementOption {
	return func(s *settlementService) {
		s.notifier = notifier
	}
}

func WithSettlementLogger(logger *zap.Logger) SettlementOption {
	return func(s *settlementService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSettlementClock injects the clock and transaction id source, primarily for tests.
func WithSettlementClock(now func() time.Time, newTxnID func() string) SettlementOption {
	return func(s *settlementService) {
		if now != nil {
			s.now = now
		}
		if newTxnID != nil {
			s.newTxnID = newTxnID
		}
	}
}

func NewSettlementService(
	orders OrderService,
	ledger LedgerPoster,
	commission CommissionEngine,
	locker lock.Locker,
	opts ...SettlementOption,
) SettlementService {
	s := &settlementService{
		orders:     orders,
		ledger:     ledger,
		commission: commission,
		locker:     locker,
		logger:     zap.NewNop(),
		now:        func() time.Time { return time.Now().UTC() },
		newTxnID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("settlement")
	return s
}

// HandlePaymentNotification settles, fails or ignores one payment event.
// Notifications for the same order are serialized by the order lock, which
// makes the already-settled check and the settlement writes one unit.
func (s *settlementService) HandlePaymentNotification(ctx context.Context, n PaymentNotification) (*SettlementResult, error) {
	orderID := strings.TrimSpace(n.OrderID)
	// Status values are matched exactly; anything else is ignored.
	status := strings.TrimSpace(n.Status)
	if orderID == "" || status == "" {
		return nil, fmt.Errorf("%w: orderId and status are required", ErrInvalidInput)
	}

	unlock, err := s.locker.Lock(ctx, orderLockKey(orderID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock order %s: %w", orderID, err)
	}
	defer unlock()

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	log := s.logger.With(zap.String("order_id", orderID), zap.String("status", status))

	switch status {
	case PaymentStatusSuccess:
		return s.settle(ctx, log, order, strings.TrimSpace(n.TransactionID))
	case PaymentStatusFailed:
		return s.fail(ctx, log, order)
	default:
		log.Warn("unrecognised payment status ignored")
		return &SettlementResult{Outcome: OutcomeIgnored, Order: order}, nil
	}
}

func (s *settlementService) settle(ctx context.Context, log *zap.Logger, order *models.Order, txnID string) (*SettlementResult, error) {
	if order.IsSettled() {
		if txnID != "" && txnID != order.Payment.TransactionID {
			log.Warn("success notification for settled order carries a different transaction id",
				zap.String("recorded_transaction_id", order.Payment.TransactionID),
				zap.String("notified_transaction_id", txnID),
			)
		} else {
			log.Info("replayed success notification")
		}
		return s.resume(ctx, log, order)
	}
	if order.Status != models.OrderAwaitingPayment {
		log.Warn("success notification for order not awaiting payment", zap.String("order_status", string(order.Status)))
		return &SettlementResult{Outcome: OutcomeIgnored, Order: order}, nil
	}

	if txnID == "" {
		txnID = s.newTxnID()
	}
	paid := models.OrderPaid
	completed := models.PaymentCompleted
	paidAt := s.now()
	settled, err := s.orders.UpdateOrder(ctx, order.ID, models.OrderPatch{
		Status:  &paid,
		PaidAt:  &paidAt,
		Payment: &models.PaymentPatch{Status: &completed, TransactionID: &txnID},
	})
	if err != nil {
		return nil, err
	}

	txn, err := s.ledger.PostSaleTransaction(ctx, settled)
	if err != nil {
		if rbErr := s.rollback(ctx, order); rbErr != nil {
			log.Error("failed to roll back settlement after ledger error", zap.Error(rbErr))
			return nil, errors.Join(err, rbErr)
		}
		return nil, err
	}

	log.Info("order settled",
		zap.String("transaction_id", txnID),
		zap.String("ledger_id", txn.ID),
		zap.String("amount", settled.Total.String()),
		zap.String("currency", settled.Currency),
	)
	s.notify(ctx, log, settled)

	commission, err := s.commission.ProcessOrderForCommission(ctx, settled, models.TriggerOrderPaid)
	if err != nil {
		// Payment and ledger entry stand. The provider retry reaches resume,
		// which runs the commission again.
		log.Error("commission processing failed", zap.Error(err))
		return nil, fmt.Errorf("order %s settled but commission failed: %w", settled.ID, err)
	}
	return &SettlementResult{Outcome: OutcomeSettled, Order: settled, Transaction: txn, Commission: &commission}, nil
}

// resume completes the side effects of an earlier settlement that did not
// finish: a sale entry missing after a failed rollback, or a commission that
// errored. Both steps are no-ops when the earlier attempt succeeded.
func (s *settlementService) resume(ctx context.Context, log *zap.Logger, order *models.Order) (*SettlementResult, error) {
	result := &SettlementResult{Outcome: OutcomeAlreadySettled, Order: order}

	posted, err := s.ledger.ListTransactions(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check ledger for order %s: %w", order.ID, err)
	}
	if len(posted) == 0 {
		txn, err := s.ledger.PostSaleTransaction(ctx, order)
		if err != nil {
			return nil, err
		}
		log.Warn("posted missing sale entry for settled order", zap.String("ledger_id", txn.ID))
		result.Transaction = txn
	}

	if order.Status == models.OrderCancelled {
		return result, nil
	}
	commission, err := s.commission.ProcessOrderForCommission(ctx, order, models.TriggerOrderPaid)
	if err != nil {
		log.Error("commission processing failed", zap.Error(err))
		return nil, fmt.Errorf("order %s commission failed: %w", order.ID, err)
	}
	if commission.Outcome == CommissionCredited {
		log.Info("commission credited on replay", zap.String("affiliate_id", commission.AffiliateID))
	}
	result.Commission = &commission
	return result, nil
}

func (s *settlementService) fail(ctx context.Context, log *zap.Logger, order *models.Order) (*SettlementResult, error) {
	if order.IsSettled() {
		log.Warn("failure notification for settled order ignored")
		return &SettlementResult{Outcome: OutcomeIgnored, Order: order}, nil
	}

	failed := models.PaymentFailed
	updated, err := s.orders.UpdateOrder(ctx, order.ID, models.OrderPatch{
		Payment: &models.PaymentPatch{Status: &failed},
	})
	if err != nil {
		return nil, err
	}
	log.Info("payment marked failed")
	return &SettlementResult{Outcome: OutcomePaymentFailed, Order: updated}, nil
}

// rollback restores the pre-settlement payment state so that the provider's
// retry settles the order again from scratch.
func (s *settlementService) rollback(ctx context.Context, previous *models.Order) error {
	status := previous.Status
	paymentStatus := previous.Payment.Status
	txnID := previous.Payment.TransactionID
	_, err := s.orders.UpdateOrder(ctx, previous.ID, models.OrderPatch{
		Status:  &status,
		Payment: &models.PaymentPatch{Status: &paymentStatus, TransactionID: &txnID},
	})
	if err != nil {
		return fmt.Errorf("failed to roll back settlement of order %s: %w", previous.ID, err)
	}
	return nil
}

func (s *settlementService) notify(ctx context.Context, log *zap.Logger, order *models.Order) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyOrderPaid(ctx, order); err != nil {
		log.Warn("merchant notification failed", zap.Error(err))
	}
}
