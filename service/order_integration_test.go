//go:build integration

package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ecommerce-api/apperror"
	"ecommerce-api/config"
	"ecommerce-api/repository"
	"ecommerce-api/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("shop"),
		postgres.WithUsername("shop"),
		postgres.WithPassword("shop"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	cfg := testutil.Config()
	cfg.DBDriver = config.DriverPostgres
	cfg.DatabaseURL = dsn
	db, err := config.Connection(cfg, testutil.Logger())
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}

func TestCreateOrder_ConcurrentBuyersNeverOversell(t *testing.T) {
	db := setupPostgres(t)
	svc := NewOrderService(db, testutil.Logger(), OrderServiceOptions{Timeout: 30 * time.Second})
	buyer := testutil.CreateUser(t, db, "buyer@example.com", true, false)
	a := testutil.CreateProduct(t, db, "Product A", "10.00", 5, true)
	b := testutil.CreateProduct(t, db, "Product B", "3.00", 50, true)

	const buyers = 20
	var placed, rejected atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Alternate line order so lock acquisition order is exercised.
			items := []OrderItemRequest{{ProductID: a.ID, Quantity: 1}, {ProductID: b.ID, Quantity: 1}}
			if i%2 == 1 {
				items[0], items[1] = items[1], items[0]
			}
			_, err := svc.CreateOrder(context.Background(), buyer.ID, items)
			var stockErr *apperror.InsufficientStockError
			switch {
			case err == nil:
				placed.Add(1)
			case errors.As(err, &stockErr):
				rejected.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(5), placed.Load())
	assert.Equal(t, int32(buyers-5), rejected.Load())
	assert.Equal(t, 0, testutil.Stock(t, db, a.ID))
	assert.Equal(t, 45, testutil.Stock(t, db, b.ID))
	orders, items := testutil.CountOrders(t, db)
	assert.Equal(t, int64(5), orders)
	assert.Equal(t, int64(10), items)
}

func TestRegister_DuplicateEmailOnPostgres(t *testing.T) {
	db := setupPostgres(t)
	users := NewUserService(repository.NewUserRepository(db), 5*time.Second)

	_, err := users.Register(context.Background(), UserInput{Email: "dup@example.com", Password: "pw"})
	require.NoError(t, err)
	_, err = users.Register(context.Background(), UserInput{Email: "dup@example.com", Password: "pw"})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestOrderColumnsHoldLargeValuesOnPostgres(t *testing.T) {
	db := setupPostgres(t)
	svc := NewOrderService(db, testutil.Logger(), OrderServiceOptions{})
	buyer := testutil.CreateUser(t, db, "buyer@example.com", true, false)
	pricey := testutil.CreateProduct(t, db, "Pricey", "99999999.99", 1_000_000, true)

	order, err := svc.CreateOrder(context.Background(), buyer.ID, []OrderItemRequest{{ProductID: pricey.ID, Quantity: 1_000_000}})
	require.NoError(t, err)
	assert.Equal(t, "99999999990000", order.TotalAmount.StringFixed(0))

	status := "awaiting-carrier-pickup-at-regional-depot-after-customs-clearance"
	updated, err := svc.UpdateStatus(context.Background(), order.ID, status)
	require.NoError(t, err)
	assert.Equal(t, status, string(updated.Status))
}
