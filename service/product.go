package service

import (
	"context"
	"time"

	"ecommerce-api/apperror"
	"ecommerce-api/cache"
	"ecommerce-api/models"
	"ecommerce-api/repository"
	"ecommerce-api/utils"

	"github.com/shopspring/decimal"
)

type ProductInput struct {
	Name        string          `json:"name" binding:"required,min=3,max=100"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" binding:"gte=0"`
	IsActive    *bool           `json:"is_active"`
}

// ProductPatch carries the fields of a partial product update.
type ProductPatch struct {
	Name        *string          `json:"name" binding:"omitempty,min=3,max=100"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" binding:"omitempty,gte=0"`
	IsActive    *bool            `json:"is_active"`
}

type ProductService struct {
	products *repository.ProductRepository
	cache    *cache.ProductCache
	timeout  time.Duration
}

func NewProductService(products *repository.ProductRepository, productCache *cache.ProductCache, timeout time.Duration) *ProductService {
	return &ProductService{products: products, cache: productCache, timeout: timeout}
}

func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	view := s.cache.View(ctx)
	if product, ok := view.Get(ctx, id); ok {
		return product, nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	product, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	view.Set(ctx, product)
	return product, nil
}

func (s *ProductService) List(ctx context.Context, page utils.Page) ([]models.Product, error) {
	view := s.cache.View(ctx)
	if products, ok := view.GetList(ctx, page); ok {
		return products, nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	products, err := s.products.List(ctx, page)
	if err != nil {
		return nil, err
	}
	view.SetList(ctx, page, products)
	return products, nil
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if !in.Price.IsPositive() {
		return nil, apperror.Validation("price must be greater than zero")
	}
	if in.Stock < 0 {
		return nil, apperror.Validation("stock must not be negative")
	}
	product := &models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		IsActive:    in.IsActive == nil || *in.IsActive,
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, id uint, patch ProductPatch) (*models.Product, error) {
	fields := map[string]any{}
	if patch.Name != nil {
		fields["name"] = *patch.Name
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.Price != nil {
		if !patch.Price.IsPositive() {
			return nil, apperror.Validation("price must be greater than zero")
		}
		fields["price"] = *patch.Price
	}
	if patch.Stock != nil {
		if *patch.Stock < 0 {
			return nil, apperror.Validation("stock must not be negative")
		}
		fields["stock"] = *patch.Stock
	}
	if patch.IsActive != nil {
		fields["is_active"] = *patch.IsActive
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	product, err := s.products.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, id)
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id uint) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, id)
	return nil
}
