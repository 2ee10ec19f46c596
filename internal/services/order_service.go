package services

import (
	"context"
	"errors"
	"fmt"
	"storefront/internal/lock"
	"storefront/internal/models"
	"storefront/internal/repository"
	"strings"
	"time"

	"go.uber.org/zap"
)

// OrderCache holds eventually consistent order snapshots for dashboard reads.
type OrderCache interface {
	SetOrderSnapshot(ctx context.Context, order *models.Order, ttl time.Duration) error
	GetOrderSnapshot(ctx context.Context, orderID string) (*models.Order, error)
	DeleteOrderSnapshot(ctx context.Context, orderID string) error
}

type OrderService interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	GetOrderSnapshot(ctx context.Context, id string) (*models.Order, error)
	ListOrders(ctx context.Context, filter repository.OrderFilter) ([]models.Order, error)
	// UpdateOrder merges a partial update. It does not take the order lock;
	// callers running a read-modify-write sequence must hold it.
	UpdateOrder(ctx context.Context, id string, patch models.OrderPatch) (*models.Order, error)

	// Staff actions. Each holds the order lock for its whole sequence.
	AdvanceStatus(ctx context.Context, id string, next models.OrderStatus, actor string) (*models.Order, error)
	Cancel(ctx context.Context, id, reason, actor string) (*models.Order, error)
	Revert(ctx context.Context, id, reason, actor string) (*models.Order, error)
	AddDeliveryNote(ctx context.Context, id, message, actor string) (*models.Order, error)
	AssignStaff(ctx context.Context, id, staffID string) (*models.Order, error)
}

type orderService struct {
	orderRepo  repository.OrderRepository
	locker     lock.Locker
	commission CommissionEngine
	cache      OrderCache
	cacheTTL   time.Duration
	logger     *zap.Logger
}

type OrderServiceOption func(*orderService)

// WithOrderCache enables the snapshot cache used by GetOrderSnapshot.
func WithOrderCache(cache OrderCache, ttl time.Duration) OrderServiceOption {
	return func(s *orderService) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

func WithOrderLogger(logger *zap.Logger) OrderServiceOption {
	return func(s *orderService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewOrderService(orderRepo repository.OrderRepository, locker lock.Locker, commission CommissionEngine, opts ...OrderServiceOption) OrderService {
	s := &orderService{
		orderRepo:  orderRepo,
		locker:     locker,
		commission: commission,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("orders")
	return s
}

func (s *orderService) CreateOrder(ctx context.Context, order *models.Order) error {
	if err := validateNewOrder(order); err != nil {
		return err
	}
	if order.Status == "" {
		order.Status = models.OrderAwaitingPayment
	}
	if order.Payment.Status == "" {
		order.Payment.Status = models.PaymentPending
	}
	order.Currency = strings.ToUpper(order.Currency)

	if err := s.orderRepo.Create(ctx, order); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return fmt.Errorf("%w: order %s already exists", ErrInvalidInput, order.ID)
		}
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (s *orderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

func (s *orderService) GetOrderSnapshot(ctx context.Context, id string) (*models.Order, error) {
	if s.cache != nil {
		if order, err := s.cache.GetOrderSnapshot(ctx, id); err == nil {
			return order, nil
		}
	}

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	s.refreshCache(ctx, order)
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, filter repository.OrderFilter) ([]models.Order, error) {
	return s.orderRepo.List(ctx, filter)
}

func (s *orderService) UpdateOrder(ctx context.Context, id string, patch models.OrderPatch) (*models.Order, error) {
	order, err := s.orderRepo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	s.refreshCache(ctx, order)
	return order, nil
}

func (s *orderService) AdvanceStatus(ctx context.Context, id string, next models.OrderStatus, actor string) (*models.Order, error) {
	var updated *models.Order
	err := s.withOrderLock(ctx, id, func() error {
		order, err := s.GetOrder(ctx, id)
		if err != nil {
			return err
		}
		if !canAdvance(order, next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, next)
		}

		updated, err = s.UpdateOrder(ctx, id, models.OrderPatch{
			Status:        &next,
			DeliveryNotes: []models.DeliveryNote{{Message: fmt.Sprintf("Status changed from %s to %s", order.Status, next), Author: actor}},
		})
		if err != nil {
			return err
		}

		if next == models.OrderDelivered || next == models.OrderPickedUp {
			s.runDeliveredCommission(ctx, updated)
		}
		return nil
	})
	return updated, err
}

func (s *orderService) Cancel(ctx context.Context, id, reason, actor string) (*models.Order, error) {
	var updated *models.Order
	err := s.withOrderLock(ctx, id, func() error {
		order, err := s.GetOrder(ctx, id)
		if err != nil {
			return err
		}
		if order.Status.IsTerminal() {
			return fmt.Errorf("%w: %s order cannot be cancelled", ErrInvalidTransition, order.Status)
		}

		status := models.OrderCancelled
		patch := models.OrderPatch{Status: &status}
		message := "Order cancelled"
		if reason = strings.TrimSpace(reason); reason != "" {
			message += ": " + reason
		}
		patch.DeliveryNotes = []models.DeliveryNote{{Message: message, Author: actor}}

		updated, err = s.UpdateOrder(ctx, id, patch)
		return err
	})
	return updated, err
}

func (s *orderService) Revert(ctx context.Context, id, reason, actor string) (*models.Order, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}

	var updated *models.Order
	err := s.withOrderLock(ctx, id, func() error {
		order, err := s.GetOrder(ctx, id)
		if err != nil {
			return err
		}
		previous, ok := previousStatus(order.Status)
		if !ok {
			return fmt.Errorf("%w: %s cannot be reverted", ErrInvalidTransition, order.Status)
		}

		updated, err = s.UpdateOrder(ctx, id, models.OrderPatch{
			Status: &previous,
			DeliveryNotes: []models.DeliveryNote{{
				Message: fmt.Sprintf("Status reverted from %s to %s: %s", order.Status, previous, reason),
				Author:  actor,
			}},
		})
		return err
	})
	return updated, err
}

func (s *orderService) AddDeliveryNote(ctx context.Context, id, message, actor string) (*models.Order, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("%w: note message is empty", ErrInvalidInput)
	}

	var updated *models.Order
	err := s.withOrderLock(ctx, id, func() error {
		var err error
		updated, err = s.UpdateOrder(ctx, id, models.OrderPatch{
			DeliveryNotes: []models.DeliveryNote{{Message: message, Author: actor}},
		})
		return err
	})
	return updated, err
}

func (s *orderService) AssignStaff(ctx context.Context, id, staffID string) (*models.Order, error) {
	staffID = strings.TrimSpace(staffID)

	var updated *models.Order
	err := s.withOrderLock(ctx, id, func() error {
		var err error
		updated, err = s.UpdateOrder(ctx, id, models.OrderPatch{AssignedStaffID: &staffID})
		return err
	})
	return updated, err
}

func (s *orderService) withOrderLock(ctx context.Context, id string, fn func() error) error {
	unlock, err := s.locker.Lock(ctx, orderLockKey(id))
	if err != nil {
		return fmt.Errorf("failed to lock order %s: %w", id, err)
	}
	defer unlock()
	return fn()
}

func (s *orderService) runDeliveredCommission(ctx context.Context, order *models.Order) {
	if s.commission == nil {
		return
	}
	result, err := s.commission.ProcessOrderForCommission(ctx, order, models.TriggerOrderDelivered)
	if err != nil {
		s.logger.Error("delivery commission failed", zap.String("order_id", order.ID), zap.Error(err))
		return
	}
	s.logger.Info("delivery commission evaluated",
		zap.String("order_id", order.ID),
		zap.String("outcome", string(result.Outcome)),
	)
}

func (s *orderService) refreshCache(ctx context.Context, order *models.Order) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetOrderSnapshot(ctx, order, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache order snapshot", zap.String("order_id", order.ID), zap.Error(err))
		_ = s.cache.DeleteOrderSnapshot(ctx, order.ID)
	}
}

func orderLockKey(id string) string {
	return "order:" + id
}

func validateNewOrder(order *models.Order) error {
	switch {
	case strings.TrimSpace(order.ID) == "":
		return fmt.Errorf("%w: order id is required", ErrInvalidInput)
	case strings.TrimSpace(order.Currency) == "":
		return fmt.Errorf("%w: currency is required", ErrInvalidInput)
	case !order.Total.IsPositive():
		return fmt.Errorf("%w: total must be positive", ErrInvalidInput)
	}
	switch order.FulfillmentMethod {
	case models.FulfillmentDelivery, models.FulfillmentPickup:
	default:
		return fmt.Errorf("%w: unknown fulfillment method %q", ErrInvalidInput, order.FulfillmentMethod)
	}
	for _, item := range order.Items {
		if item.SKU == "" || item.Quantity <= 0 || item.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: invalid line item %q", ErrInvalidInput, item.SKU)
		}
	}
	return nil
}

// canAdvance allows one step forward along the order's fulfillment path.
// Awaiting Payment -> Paid only happens through settlement.
func canAdvance(order *models.Order, next models.OrderStatus) bool {
	switch order.Status {
	case models.OrderPaid:
		if order.FulfillmentMethod == models.FulfillmentPickup {
			return next == models.OrderReadyForPickup
		}
		return next == models.OrderShipped
	case models.OrderReadyForPickup:
		return next == models.OrderPickedUp
	case models.OrderShipped:
		return next == models.OrderDelivered
	default:
		return false
	}
}

func previousStatus(status models.OrderStatus) (models.OrderStatus, bool) {
	switch status {
	case models.OrderReadyForPickup, models.OrderShipped:
		return models.OrderPaid, true
	case models.OrderPickedUp:
		return models.OrderReadyForPickup, true
	case models.OrderDelivered:
		return models.OrderShipped, true
	default:
		return "", false
	}
}
