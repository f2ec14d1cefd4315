// Package testutil provides sqlite-backed fixtures shared by package tests.
package testutil

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"ecommerce-api/config"
	"ecommerce-api/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const TestSecret = "test-secret"

// Config returns a valid configuration for tests.
func Config() config.Config {
	return config.Config{
		DBDriver:          config.DriverSQLite,
		DatabaseURL:       "file::memory:",
		DBTimeout:         5 * time.Second,
		SecretKey:         TestSecret,
		Algorithm:         "HS256",
		AccessTokenExpire: 30 * time.Minute,
		ResetTokenExpire:  15 * time.Minute,
		PasswordResetURL:  "http://localhost:8080/reset-password-page",
		CacheTTL:          time.Minute,
		Port:              "8080",
		LogLevel:          "error",
	}
}

// Logger discards everything.
func Logger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// NewDB opens a migrated sqlite database in the test's temp dir.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// CreateUser inserts a user with password "secret".
func CreateUser(t *testing.T, db *gorm.DB, email string, active, admin bool) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{Email: email, HashedPassword: string(hashed), IsActive: active, IsAdmin: admin}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateProduct inserts a product with the given price and stock.
func CreateProduct(t *testing.T, db *gorm.DB, name, price string, stock int, active bool) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: active,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

// Stock reloads the product's stock.
func Stock(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var product models.Product
	require.NoError(t, db.First(&product, id).Error)
	return product.Stock
}

// CountOrders returns the number of stored orders and order items.
func CountOrders(t *testing.T, db *gorm.DB) (orders, items int64) {
	t.Helper()
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&items).Error)
	return orders, items
}
