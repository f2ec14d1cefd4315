package routes

import (
	"context"
	"net/http"

	"ecommerce-api/cache"
	"ecommerce-api/config"
	"ecommerce-api/controller"
	"ecommerce-api/events"
	"ecommerce-api/middleware"
	"ecommerce-api/repository"
	"ecommerce-api/service"
	"ecommerce-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Controllers groups the handlers and guards shared by the route files.
type Controllers struct {
	Auth     *controller.AuthController
	Users    *controller.UserController
	Products *controller.ProductController
	Orders   *controller.OrderController

	RequireAuth gin.HandlerFunc
	RateLimit   gin.HandlerFunc
}

// NewRouter wires stores, services and controllers and registers every route.
// rdb may be nil.
func NewRouter(cfg config.Config, db *gorm.DB, rdb *redis.Client, log *logrus.Logger) *gin.Engine {
	users := repository.NewUserRepository(db)
	productCache := cache.NewProductCache(rdb, cfg.CacheTTL, log)

	auth := service.NewAuthService(cfg, users, log)
	orders := service.NewOrderService(db, log, service.OrderServiceOptions{
		Timeout:           cfg.DBTimeout,
		StrictTransitions: cfg.StrictOrderStatus,
		Invalidator:       productCache,
		Publisher:         events.NewPublisher(rdb, log),
	})

	ctl := Controllers{
		Auth:        controller.NewAuthController(auth, utils.NewMailer(cfg.PasswordResetURL, log), log),
		Users:       controller.NewUserController(service.NewUserService(users, cfg.DBTimeout)),
		Products:    controller.NewProductController(service.NewProductService(repository.NewProductRepository(db), productCache, cfg.DBTimeout)),
		Orders:      controller.NewOrderController(orders),
		RequireAuth: middleware.RequireAuth(auth),
		RateLimit:   middleware.RateLimiter(rdb, cfg.RateLimitCount, cfg.RateLimitPeriod, log),
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log), middleware.CORSMiddleware(cfg.CORSAllowedOrigins))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the E-commerce API!"})
	})
	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.DBTimeout)
		defer cancel()
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			log.WithError(err).Error("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	AuthRoute(router, ctl)
	UserRoute(router, ctl)
	ProductRoute(router, ctl)
	OrderRoute(router, ctl)
	return router
}
