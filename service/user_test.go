package service

import (
	"context"
	"testing"
	"time"

	"ecommerce-api/apperror"
	"ecommerce-api/repository"
	"ecommerce-api/testutil"
	"ecommerce-api/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewUserService(repository.NewUserRepository(db), 5*time.Second)
	ctx := context.Background()

	user, err := svc.Register(ctx, UserInput{Email: "buyer@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsAdmin)
	assert.True(t, VerifyPassword(user.HashedPassword, "pw"))

	admin, err := svc.CreateAdmin(ctx, UserInput{Email: "admin@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)

	_, err = svc.Register(ctx, UserInput{Email: "buyer@example.com", Password: "other"})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	inactive := false
	password := "changed"
	updated, err := svc.Update(ctx, user.ID, UserPatch{IsActive: &inactive, Password: &password})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.True(t, VerifyPassword(updated.HashedPassword, "changed"))

	users, err := svc.List(ctx, utils.Page{Limit: 1})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, user.ID, users[0].ID)

	require.NoError(t, svc.Delete(ctx, user.ID))
	_, err = svc.Get(ctx, user.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
