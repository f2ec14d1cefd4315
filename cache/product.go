// Package cache is a redis read-through cache for catalog reads. A nil redis
// client disables it; every method then behaves as a miss or a no-op.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ecommerce-api/models"
	"ecommerce-api/utils"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// Entries are keyed by a generation counter so one INCR invalidates all of them.
	generationKey = "all_products:gen"
	opTimeout     = 2 * time.Second
)

type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
	log    logrus.FieldLogger
}

func NewProductCache(client *redis.Client, ttl time.Duration, log logrus.FieldLogger) *ProductCache {
	return &ProductCache{client: client, ttl: ttl, log: log}
}

func (c *ProductCache) enabled() bool {
	return c != nil && c.client != nil
}

// View is the cache as of one generation. Take it before reading the
// database: a value stored through a view taken before an invalidation lands
// under a stale generation and is never served.
type View struct {
	cache *ProductCache
	gen   int64
}

// View returns the current generation, or nil when the cache is disabled or
// unreachable. All View methods accept a nil receiver.
func (c *ProductCache) View(ctx context.Context) *View {
	if !c.enabled() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	gen, err := c.client.Get(ctx, generationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.log.WithError(err).Debug("product cache generation unavailable")
		return nil
	}
	return &View{cache: c, gen: gen}
}

func (v *View) productKey(id uint) string {
	return fmt.Sprintf("product:%d:%d", v.gen, id)
}

func (v *View) listKey(page utils.Page) string {
	page = page.Normalize()
	return fmt.Sprintf("all_products:%d:%d:%d", v.gen, page.Skip, page.Limit)
}

func (v *View) Get(ctx context.Context, id uint) (*models.Product, bool) {
	if v == nil {
		return nil, false
	}
	var product models.Product
	if !v.cache.getJSON(ctx, v.productKey(id), &product) {
		return nil, false
	}
	return &product, true
}

func (v *View) Set(ctx context.Context, product *models.Product) {
	if v == nil {
		return
	}
	v.cache.setJSON(ctx, v.productKey(product.ID), product)
}

func (v *View) GetList(ctx context.Context, page utils.Page) ([]models.Product, bool) {
	if v == nil {
		return nil, false
	}
	var products []models.Product
	if !v.cache.getJSON(ctx, v.listKey(page), &products) {
		return nil, false
	}
	return products, true
}

func (v *View) SetList(ctx context.Context, page utils.Page, products []models.Product) {
	if v == nil {
		return
	}
	v.cache.setJSON(ctx, v.listKey(page), products)
}

// Invalidate retires every cached product and list page. ids are only logged
// on failure; entries of older generations expire with their TTL.
func (c *ProductCache) Invalidate(ctx context.Context, ids ...uint) {
	if !c.enabled() {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), opTimeout)
	defer cancel()

	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		c.log.WithError(err).WithField("product_ids", ids).Warn("failed to invalidate product cache")
	}
}

func (c *ProductCache) getJSON(ctx context.Context, key string, dst any) bool {
	if !c.enabled() {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.WithError(err).WithField("key", key).Debug("cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("dropping undecodable cache entry")
		return false
	}
	return true
}

func (c *ProductCache) setJSON(ctx context.Context, key string, value any) {
	if !c.enabled() {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), opTimeout)
	defer cancel()
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.WithError(err).WithField("key", key).Debug("cache write failed")
	}
}
