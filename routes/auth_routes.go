package routes

import (
	"fleethub/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up authentication routes
func SetupAuthRoutes(r *gin.RouterGroup, authHandler *handlers.AuthHandler, authenticate gin.HandlerFunc) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
	}

	protected := r.Group("/auth")
	protected.Use(authenticate)
	{
		protected.GET("/me", authHandler.GetProfile)
		protected.PUT("/password", authHandler.ChangePassword)
	}
}
