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

// ProductRepository is the product catalog store.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *ProductRepository) WithTx(tx *gorm.DB) *ProductRepository {
	return &ProductRepository{db: tx}
}

func (r *ProductRepository) Get(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound("product not found")
		}
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return &product, nil
}

func (r *ProductRepository) GetByName(ctx context.Context, name string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&product).Error; err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound("product not found")
		}
		return nil, fmt.Errorf("failed to get product by name: %w", err)
	}
	return &product, nil
}

func (r *ProductRepository) List(ctx context.Context, page utils.Page) ([]models.Product, error) {
	products := []models.Product{}
	if err := r.db.WithContext(ctx).Scopes(utils.Paging(page)).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("product with this name already exists")
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update applies the given column values and returns the stored product.
func (r *ProductRepository) Update(ctx context.Context, id uint, fields map[string]any) (*models.Product, error) {
	product, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return product, nil
	}
	if err := r.db.WithContext(ctx).Model(product).Updates(fields).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.Conflict("product with this name already exists")
		}
		return nil, fmt.Errorf("failed to update product %d: %w", id, err)
	}
	return r.Get(ctx, id)
}

// Delete removes a product that no order item references.
func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&models.OrderItem{}).Where("product_id = ?", id).Count(&refs).Error; err != nil {
			return fmt.Errorf("failed to count order items for product %d: %w", id, err)
		}
		if refs > 0 {
			return apperror.Conflict("product is referenced by %d order item(s)", refs)
		}
		result := tx.Delete(&models.Product{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete product %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperror.NotFound("product not found")
		}
		return nil
	})
}

// LockForUpdate loads the given products with row locks held until the
// surrounding transaction ends. Rows are locked in id order.
func (r *ProductRepository) LockForUpdate(ctx context.Context, ids []uint) (map[uint]*models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to lock products: %w", err)
	}
	byID := make(map[uint]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return byID, nil
}

// DecrementStock subtracts qty only if at least qty units remain. It reports
// false when the guard fails.
func (r *ProductRepository) DecrementStock(ctx context.Context, id uint, qty int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if result.Error != nil {
		return false, fmt.Errorf("failed to decrement stock of product %d: %w", id, result.Error)
	}
	return result.RowsAffected == 1, nil
}
