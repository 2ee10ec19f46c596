package repository

import (
	"context"
	"storefront/internal/models"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderFilter struct {
	Status          models.OrderStatus
	AssignedStaffID string
	Limit           int
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	// Update merges the patch under a row lock and returns the committed order.
	Update(ctx context.Context, id string, patch models.OrderPatch) (*models.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]models.Order, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	return translateError(r.db.WithContext(ctx).Create(order).Error)
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &order, nil
}

func (r *orderRepository) Update(ctx context.Context, id string, patch models.OrderPatch) (*models.Order, error) {
	var updated models.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, "id = ?", id).Error; err != nil {
			return translateError(err)
		}

		patch.Apply(&order, time.Now().UTC())
		if err := tx.Save(&order).Error; err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *orderRepository) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	var orders []models.Order
	query := r.db.WithContext(ctx).Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.AssignedStaffID != "" {
		query = query.Where("assigned_staff_id = ?", filter.AssignedStaffID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	err := query.Find(&orders).Error
	return orders, err
}
