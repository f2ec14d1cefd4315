package routes

import (
	"ecommerce-api/middleware"

	"github.com/gin-gonic/gin"
)

func AuthRoute(router *gin.Engine, ctl Controllers) {
	router.POST("/token", ctl.RateLimit, ctl.Auth.Token)
	router.POST("/login", ctl.RateLimit, ctl.Auth.Login)
	router.POST("/forgot-password", ctl.RateLimit, ctl.Auth.ForgotPassword)
	router.POST("/reset-password", ctl.RateLimit, ctl.Auth.ResetPassword)
}

func UserRoute(router *gin.Engine, ctl Controllers) {
	userRoutes := router.Group("/users")
	{
		userRoutes.POST("/", ctl.RateLimit, ctl.Users.CreateUser)
		userRoutes.GET("/me/", ctl.RequireAuth, ctl.Users.Me)
		userRoutes.GET("/", ctl.RequireAuth, middleware.RequireActive(), ctl.Users.GetUsers)
		userRoutes.GET("/:id", ctl.RequireAuth, middleware.RequireActive(), ctl.Users.GetUserID)
		userRoutes.PUT("/:id", ctl.RequireAuth, middleware.RequireAdmin(), ctl.Users.UpdateUser)
		userRoutes.DELETE("/:id", ctl.RequireAuth, middleware.RequireAdmin(), ctl.Users.DeleteUser)
	}
}
