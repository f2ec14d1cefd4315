package routes

import (
	"ecommerce-api/middleware"

	"github.com/gin-gonic/gin"
)

// ProductRoute sets up the routes for the product resource. Reads are public.
func ProductRoute(router *gin.Engine, ctl Controllers) {
	productRoutes := router.Group("/products")
	{
		productRoutes.GET("/", ctl.Products.GetProducts)
		productRoutes.GET("/:id", ctl.Products.GetProductByID)

		admin := productRoutes.Group("", ctl.RequireAuth, middleware.RequireAdmin())
		admin.POST("/", ctl.Products.CreateProduct)
		admin.PUT("/:id", ctl.Products.UpdateProduct)
		admin.DELETE("/:id", ctl.Products.DeleteProduct)
	}
}
