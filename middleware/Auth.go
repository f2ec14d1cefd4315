package middleware

import (
	"net/http"
	"strings"

	"ecommerce-api/apperror"
	"ecommerce-api/models"
	"ecommerce-api/service"

	"github.com/gin-gonic/gin"
)

const userKey = "user"

// Abort stops the chain with the status and message mapped from err.
func Abort(c *gin.Context, err error) {
	status, msg := apperror.HTTPStatus(err)
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// RequireAuth resolves the bearer token to a user and stores it in the context.
func RequireAuth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			Abort(c, apperror.ErrUnauthenticated)
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), strings.TrimSpace(tokenString))
		if err != nil {
			Abort(c, err)
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// RequireActive must run after RequireAuth.
func RequireActive() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.RequireActive(CurrentUser(c)); err != nil {
			Abort(c, err)
			return
		}
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.RequireAdmin(CurrentUser(c)); err != nil {
			Abort(c, err)
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user stored by RequireAuth.
func CurrentUser(c *gin.Context) *models.User {
	user, exists := c.Get(userKey)
	if !exists {
		panic("middleware: CurrentUser called without RequireAuth")
	}
	return user.(*models.User)
}
