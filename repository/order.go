package repository

import (
	"context"
	"fmt"

	"ecommerce-api/apperror"
	"ecommerce-api/models"
	"ecommerce-api/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository persists order aggregates and answers order queries. Every
// read returns orders with their items and each item's product attached.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *OrderRepository) WithTx(tx *gorm.DB) *OrderRepository {
	return &OrderRepository{db: tx}
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id") }).
		Preload("Items.Product")
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("orders.order_date DESC").Order("orders.id DESC")
}

// Create inserts the order and its items.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *OrderRepository) Get(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Scopes(withItems).First(&order, id).Error; err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound("order not found")
		}
		return nil, fmt.Errorf("failed to get order %d: %w", id, err)
	}
	return &order, nil
}

// ListByUser returns the user's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID uint, page utils.Page) ([]models.Order, error) {
	orders := []models.Order{}
	err := r.db.WithContext(ctx).
		Scopes(withItems, newestFirst, utils.Paging(page)).
		Where("user_id = ?", userID).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders of user %d: %w", userID, err)
	}
	return orders, nil
}

// ListAll returns every order, newest first, with the owning user attached.
func (r *OrderRepository) ListAll(ctx context.Context, page utils.Page) ([]models.Order, error) {
	orders := []models.Order{}
	err := r.db.WithContext(ctx).
		Scopes(withItems, newestFirst, utils.Paging(page)).
		Preload("User").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// StatusForUpdate reads the order status and locks the row until the
// surrounding transaction ends.
func (r *OrderRepository) StatusForUpdate(ctx context.Context, id uint) (models.OrderStatus, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "status").
		First(&order, id).Error
	if err != nil {
		if isNotFound(err) {
			return "", apperror.NotFound("order not found")
		}
		return "", fmt.Errorf("failed to get order %d: %w", id, err)
	}
	return order.Status, nil
}

// UpdateStatus overwrites only the status column.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update status of order %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("order not found")
	}
	return nil
}
