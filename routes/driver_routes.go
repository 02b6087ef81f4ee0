package routes

import (
	"fleethub/internal/handlers"
	"fleethub/internal/middleware"
	"fleethub/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupDriverRoutes sets up routes for driver management
func SetupDriverRoutes(r *gin.RouterGroup, driverHandler *handlers.DriverHandler, documentHandler *handlers.DocumentHandler, authenticate gin.HandlerFunc) {
	drivers := r.Group("/drivers")
	drivers.Use(authenticate)
	{
		drivers.GET("", middleware.RequireCapability(models.CapAddDriver), driverHandler.ListDrivers)
		drivers.POST("", middleware.RequireCapability(models.CapAddDriver), driverHandler.CreateDriver)
		drivers.GET("/:id", middleware.RequireCapability(models.CapAddDriver), driverHandler.GetDriver)
		drivers.PUT("/:id", middleware.RequireCapability(models.CapEditDriver), driverHandler.UpdateDriver)
		drivers.DELETE("/:id", middleware.RequireCapability(models.CapRemoveDriver), driverHandler.DeleteDriver)
		drivers.PATCH("/:id/status", middleware.RequireCapability(models.CapEditDriver), driverHandler.UpdateStatus)
		drivers.POST("/:id/assign-vehicle", middleware.RequireCapability(models.CapEditDriver), driverHandler.AssignVehicle)

		drivers.POST("/:id/documents", middleware.RequireCapability(models.CapAddDriver), documentHandler.UploadDriverDocument)
		drivers.GET("/:id/documents", middleware.RequireCapability(models.CapAddDriver), documentHandler.GetDriverDocuments)
		drivers.GET("/:id/documents/:docType/download", middleware.RequireCapability(models.CapAddDriver), documentHandler.DownloadDriverDocument)
		drivers.DELETE("/:id/documents/:docType", middleware.RequireCapability(models.CapEditDriver), documentHandler.DeleteDriverDocument)
		drivers.PUT("/:id/documents/verify", middleware.RequireCapability(models.CapVerifyDocuments), documentHandler.VerifyDriverDocument)
		drivers.POST("/:id/compliance/recheck", middleware.RequireCapability(models.CapVerifyDocuments), documentHandler.RecheckDriverCompliance)
	}
}
