package repository

import (
	"context"
	"fmt"

	"ecommerce-api/apperror"
	"ecommerce-api/models"
	"ecommerce-api/utils"

	"gorm.io/gorm"
)

// UserRepository is the user store.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context, page utils.Page) ([]models.User, error) {
	users := []models.User{}
	if err := r.db.WithContext(ctx).Scopes(utils.Paging(page)).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("email already registered")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Update applies the given column values and returns the stored user.
func (r *UserRepository) Update(ctx context.Context, id uint, fields map[string]any) (*models.User, error) {
	user, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return user, nil
	}
	if err := r.db.WithContext(ctx).Model(user).Updates(fields).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.Conflict("email already registered")
		}
		return nil, fmt.Errorf("failed to update user %d: %w", id, err)
	}
	return r.Get(ctx, id)
}

// Delete removes a user who owns no orders.
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var orders int64
		if err := tx.Model(&models.Order{}).Where("user_id = ?", id).Count(&orders).Error; err != nil {
			return fmt.Errorf("failed to count orders for user %d: %w", id, err)
		}
		if orders > 0 {
			return apperror.Conflict("user owns %d order(s)", orders)
		}
		result := tx.Delete(&models.User{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete user %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperror.NotFound("user not found")
		}
		return nil
	})
}
