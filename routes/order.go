package routes

import (
	"ecommerce-api/middleware"

	"github.com/gin-gonic/gin"
)

func OrderRoute(router *gin.Engine, ctl Controllers) {
	orderRoutes := router.Group("/orders", ctl.RequireAuth)
	{
		active := orderRoutes.Group("", middleware.RequireActive())
		active.POST("/", ctl.Orders.CreateOrder)
		active.GET("/me/", ctl.Orders.MyOrders)
		active.GET("/:id", ctl.Orders.GetOrder)

		admin := orderRoutes.Group("", middleware.RequireAdmin())
		admin.GET("/", ctl.Orders.AllOrders)
		admin.PUT("/:id/status", ctl.Orders.UpdateStatus)
	}
}
