package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ecommerce-api/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func limitedRouter(client *redis.Client, limit int) *gin.Engine {
	r := gin.New()
	r.POST("/token", RateLimiter(client, limit, time.Minute, testutil.Logger()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func post(r http.Handler, path string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, nil)
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	r := limitedRouter(client, 2)

	assert.Equal(t, http.StatusOK, post(r, "/token"))
	assert.Equal(t, http.StatusOK, post(r, "/token"))
	assert.Equal(t, http.StatusTooManyRequests, post(r, "/token"))

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Equal(t, time.Minute, mr.TTL(keys[0]))

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, post(r, "/token"))
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	r := limitedRouter(nil, 1)
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, post(r, "/token"))
	}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()
	r = limitedRouter(client, 1)
	assert.Equal(t, http.StatusOK, post(r, "/token"))
	assert.Equal(t, http.StatusOK, post(r, "/token"))
}
