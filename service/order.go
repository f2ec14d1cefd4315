package service

import (
	"context"
	"errors"
	"time"

	"ecommerce-api/apperror"
	"ecommerce-api/events"
	"ecommerce-api/models"
	"ecommerce-api/repository"
	"ecommerce-api/utils"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// OrderItemRequest is one requested line of a new order.
type OrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required,gt=0"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

// ProductInvalidator is told which products changed stock after an order commits.
type ProductInvalidator interface {
	Invalidate(ctx context.Context, ids ...uint)
}

// OrderPublisher receives order lifecycle events after they commit.
type OrderPublisher interface {
	PublishOrder(ctx context.Context, event string, order *models.Order)
}

type OrderService struct {
	db          *gorm.DB
	orders      *repository.OrderRepository
	products    *repository.ProductRepository
	invalidator ProductInvalidator
	publisher   OrderPublisher
	timeout     time.Duration
	strict      bool
	log         logrus.FieldLogger
}

type OrderServiceOptions struct {
	Timeout           time.Duration
	StrictTransitions bool
	Invalidator       ProductInvalidator
	Publisher         OrderPublisher
}

func NewOrderService(db *gorm.DB, log logrus.FieldLogger, opts OrderServiceOptions) *OrderService {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	return &OrderService{
		db:          db,
		orders:      repository.NewOrderRepository(db),
		products:    repository.NewProductRepository(db),
		invalidator: opts.Invalidator,
		publisher:   opts.Publisher,
		timeout:     opts.Timeout,
		strict:      opts.StrictTransitions,
		log:         log,
	}
}

// CreateOrder validates every requested item against live product state,
// snapshots prices, decrements stock and stores the order in one transaction.
// The first failing item aborts the whole order and no stock changes.
func (s *OrderService) CreateOrder(ctx context.Context, buyerID uint, items []OrderItemRequest) (*models.Order, error) {
	if len(items) == 0 {
		return nil, apperror.Validation("order must contain at least one item")
	}
	ids := make([]uint, 0, len(items))
	seen := make(map[uint]bool, len(items))
	for _, item := range items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			return nil, apperror.Validation("product_id and quantity must be greater than zero")
		}
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	order := &models.Order{
		UserID: buyerID,
		Status: models.OrderStatusPending,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)
		locked, err := products.LockForUpdate(ctx, ids)
		if err != nil {
			return err
		}

		total := decimal.Zero
		decrements := make(map[uint]int, len(ids))
		for _, item := range items {
			product, ok := locked[item.ProductID]
			if !ok {
				return &apperror.ProductNotFoundError{ProductID: item.ProductID}
			}
			if !product.IsActive {
				return &apperror.ProductInactiveError{ProductID: product.ID, Name: product.Name}
			}
			available := product.Stock - decrements[product.ID]
			if available < item.Quantity {
				return &apperror.InsufficientStockError{
					ProductID: product.ID,
					Name:      product.Name,
					Available: available,
					Requested: item.Quantity,
				}
			}

			line := models.OrderItem{
				ProductID:       product.ID,
				Quantity:        item.Quantity,
				PriceAtPurchase: product.Price,
			}
			total = total.Add(line.Subtotal())
			decrements[product.ID] += item.Quantity
			order.Items = append(order.Items, line)
		}

		for _, id := range ids {
			ok, err := products.DecrementStock(ctx, id, decrements[id])
			if err != nil {
				return err
			}
			if !ok {
				product := locked[id]
				return &apperror.InsufficientStockError{
					ProductID: id,
					Name:      product.Name,
					Available: product.Stock,
					Requested: decrements[id],
				}
			}
		}

		order.TotalAmount = total
		return s.orders.WithTx(tx).Create(ctx, order)
	})
	if err != nil {
		entry := s.log.WithError(err).WithFields(logrus.Fields{"user_id": buyerID, "items": len(items)})
		if IsStockFailure(err) {
			entry.Info("order rejected")
		} else {
			entry.Error("order failed")
		}
		return nil, err
	}

	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, ids...)
	}
	// The order is committed; answer with what was written.
	created, err := s.orders.Get(ctx, order.ID)
	if err != nil {
		s.log.WithError(err).WithField("order_id", order.ID).Warn("failed to reload created order")
		created = order
	}
	s.log.WithFields(logrus.Fields{
		"order_id":     created.ID,
		"user_id":      buyerID,
		"total_amount": created.TotalAmount.StringFixed(2),
	}).Info("order created")
	if s.publisher != nil {
		s.publisher.PublishOrder(ctx, events.OrderCreated, created)
	}
	return created, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.orders.Get(ctx, id)
}

// ViewOrder returns the order if caller owns it or is an administrator.
func (s *OrderService) ViewOrder(ctx context.Context, caller *models.User, id uint) (*models.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != caller.ID && !caller.IsAdmin {
		return nil, apperror.Forbidden("not authorized to view this order")
	}
	return order, nil
}

func (s *OrderService) UserOrders(ctx context.Context, userID uint, page utils.Page) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.orders.ListByUser(ctx, userID, page)
}

func (s *OrderService) AllOrders(ctx context.Context, page utils.Page) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.orders.ListAll(ctx, page)
}

// UpdateStatus overwrites the order status with status exactly as given. Any
// string is accepted unless strict transitions are enabled.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	next := models.OrderStatus(status)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var previous models.OrderStatus
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := s.orders.WithTx(tx)
		current, err := orders.StatusForUpdate(ctx, id)
		if err != nil {
			return err
		}
		previous = current
		if s.strict && current != next {
			if !next.Known() || !current.CanTransitionTo(next) {
				return &apperror.InvalidTransitionError{From: string(current), To: string(next)}
			}
		}
		return orders.UpdateStatus(ctx, id, next)
	})
	if err != nil {
		return nil, err
	}

	order, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"order_id": id, "from": previous, "to": next}).Info("order status updated")
	if s.publisher != nil && previous != next {
		s.publisher.PublishOrder(ctx, events.OrderStatusChanged, order)
	}
	return order, nil
}

// IsStockFailure reports whether err is a rejected order line rather than an
// infrastructure failure.
func IsStockFailure(err error) bool {
	var stock *apperror.InsufficientStockError
	var inactive *apperror.ProductInactiveError
	var missing *apperror.ProductNotFoundError
	return errors.As(err, &stock) || errors.As(err, &inactive) || errors.As(err, &missing)
}
