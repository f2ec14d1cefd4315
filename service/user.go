package service

import (
	"context"
	"time"

	"ecommerce-api/models"
	"ecommerce-api/repository"
	"ecommerce-api/utils"
)

type UserInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserPatch carries the fields of a partial user update.
type UserPatch struct {
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=1"`
	IsActive *bool   `json:"is_active"`
	IsAdmin  *bool   `json:"is_admin"`
}

type UserService struct {
	users   *repository.UserRepository
	timeout time.Duration
}

func NewUserService(users *repository.UserRepository, timeout time.Duration) *UserService {
	return &UserService{users: users, timeout: timeout}
}

// Register creates an active, non-admin user.
func (s *UserService) Register(ctx context.Context, in UserInput) (*models.User, error) {
	return s.create(ctx, in, false)
}

// CreateAdmin creates an active administrator.
func (s *UserService) CreateAdmin(ctx context.Context, in UserInput) (*models.User, error) {
	return s.create(ctx, in, true)
}

func (s *UserService) create(ctx context.Context, in UserInput, admin bool) (*models.User, error) {
	hashed, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:          in.Email,
		HashedPassword: hashed,
		IsActive:       true,
		IsAdmin:        admin,
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.users.Get(ctx, id)
}

func (s *UserService) List(ctx context.Context, page utils.Page) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.users.List(ctx, page)
}

func (s *UserService) Update(ctx context.Context, id uint, patch UserPatch) (*models.User, error) {
	fields := map[string]any{}
	if patch.Email != nil {
		fields["email"] = *patch.Email
	}
	if patch.Password != nil {
		hashed, err := HashPassword(*patch.Password)
		if err != nil {
			return nil, err
		}
		fields["hashed_password"] = hashed
	}
	if patch.IsActive != nil {
		fields["is_active"] = *patch.IsActive
	}
	if patch.IsAdmin != nil {
		fields["is_admin"] = *patch.IsAdmin
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.users.Update(ctx, id, fields)
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.users.Delete(ctx, id)
}
