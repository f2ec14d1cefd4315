package cache

import (
	"context"
	"testing"
	"time"

	"ecommerce-api/models"
	"ecommerce-api/testutil"
	"ecommerce-api/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T) (*ProductCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewProductCache(client, time.Minute, testutil.Logger()), mr
}

func TestProductCache_GetSet(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	view := c.View(ctx)
	require.NotNil(t, view)
	_, ok := view.Get(ctx, 1)
	assert.False(t, ok)

	view.Set(ctx, &models.Product{ID: 1, Name: "Widget", Price: decimal.RequireFromString("9.99"), Stock: 3, IsActive: true})
	assert.True(t, mr.Exists("product:0:1"))
	assert.Equal(t, time.Minute, mr.TTL("product:0:1"))

	got, ok := c.View(ctx).Get(ctx, 1)
	require.True(t, ok)
	assert.Equal(t, "Widget", got.Name)
	assert.Equal(t, 3, got.Stock)
	assert.True(t, decimal.RequireFromString("9.99").Equal(got.Price))

	mr.FastForward(2 * time.Minute)
	_, ok = c.View(ctx).Get(ctx, 1)
	assert.False(t, ok)
}

func TestProductCache_InvalidateRetiresProductsAndLists(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	page := utils.Page{Skip: 0, Limit: 10}

	view := c.View(ctx)
	view.Set(ctx, &models.Product{ID: 1, Name: "One"})
	view.SetList(ctx, page, []models.Product{{ID: 1, Name: "One"}, {ID: 2, Name: "Two"}})

	list, ok := c.View(ctx).GetList(ctx, page)
	require.True(t, ok)
	assert.Len(t, list, 2)

	c.Invalidate(ctx, 1)

	_, ok = c.View(ctx).Get(ctx, 1)
	assert.False(t, ok)
	_, ok = c.View(ctx).GetList(ctx, page)
	assert.False(t, ok)
}

func TestProductCache_WriteRacingInvalidationIsNeverServed(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	page := utils.Page{Limit: 10}

	// A reader takes its view and loads stock 5 from the database; an order
	// commits and invalidates before the reader stores what it loaded.
	stale := c.View(ctx)
	c.Invalidate(ctx, 1)
	stale.Set(ctx, &models.Product{ID: 1, Stock: 5})
	stale.SetList(ctx, page, []models.Product{{ID: 1, Stock: 5}})

	fresh := c.View(ctx)
	_, ok := fresh.Get(ctx, 1)
	assert.False(t, ok)
	_, ok = fresh.GetList(ctx, page)
	assert.False(t, ok)
}

func TestProductCache_UndecodableEntryIsAMiss(t *testing.T) {
	c, mr := newCache(t)
	require.NoError(t, mr.Set("product:0:7", "{not json"))

	_, ok := c.View(context.Background()).Get(context.Background(), 7)
	assert.False(t, ok)
}

func TestProductCache_Disabled(t *testing.T) {
	ctx := context.Background()
	var c *ProductCache
	assert.Nil(t, c.View(ctx))
	c.Invalidate(ctx, 1)

	c = NewProductCache(nil, time.Minute, testutil.Logger())
	view := c.View(ctx)
	assert.Nil(t, view)
	view.Set(ctx, &models.Product{ID: 1})
	view.SetList(ctx, utils.Page{Limit: 5}, nil)
	_, ok := view.Get(ctx, 1)
	assert.False(t, ok)
	_, ok = view.GetList(ctx, utils.Page{Limit: 5})
	assert.False(t, ok)
}
