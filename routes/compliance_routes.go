package routes

import (
	"fleethub/internal/handlers"
	"fleethub/internal/middleware"
	"fleethub/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupComplianceRoutes sets up the subtree-wide compliance reporting routes
func SetupComplianceRoutes(r *gin.RouterGroup, documentHandler *handlers.DocumentHandler, authenticate gin.HandlerFunc) {
	compliance := r.Group("/compliance")
	compliance.Use(authenticate, middleware.RequireCapability(models.CapViewAnalytics))
	{
		compliance.GET("/summary", documentHandler.GetComplianceSummary)
		compliance.GET("/expiring-documents", documentHandler.GetExpiringDocuments)
	}
}
