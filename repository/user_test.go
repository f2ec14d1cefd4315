package repository

import (
	"context"
	"testing"
	"time"

	"ecommerce-api/apperror"
	"ecommerce-api/models"
	"ecommerce-api/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	testutil.CreateUser(t, db, "taken@example.com", true, false)

	err := repo.Create(context.Background(), &models.User{Email: "taken@example.com", HashedPassword: "x"})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	created := testutil.CreateUser(t, db, "someone@example.com", true, true)

	user, err := repo.GetByEmail(context.Background(), "someone@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.True(t, user.IsAdmin)

	_, err = repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUserRepository_DeleteWithOrders(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	buyer := testutil.CreateUser(t, db, "buyer@example.com", true, false)
	idle := testutil.CreateUser(t, db, "idle@example.com", true, false)
	product := testutil.CreateProduct(t, db, "Widget", "5.00", 10, true)
	seedOrder(t, db, buyer.ID, product, time.Now())

	assert.ErrorIs(t, repo.Delete(context.Background(), buyer.ID), apperror.ErrConflict)
	require.NoError(t, repo.Delete(context.Background(), idle.ID))
	assert.ErrorIs(t, repo.Delete(context.Background(), idle.ID), apperror.ErrNotFound)
}
