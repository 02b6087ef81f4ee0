package routes

import (
	"fleethub/internal/handlers"
	"fleethub/internal/middleware"
	"fleethub/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupVehicleRoutes sets up routes for vehicle management
func SetupVehicleRoutes(r *gin.RouterGroup, vehicleHandler *handlers.VehicleHandler, documentHandler *handlers.DocumentHandler, authenticate gin.HandlerFunc) {
	vehicles := r.Group("/vehicles")
	vehicles.Use(authenticate)
	{
		vehicles.GET("", middleware.RequireCapability(models.CapAddVehicle), vehicleHandler.ListVehicles)
		vehicles.POST("", middleware.RequireCapability(models.CapAddVehicle), vehicleHandler.CreateVehicle)
		vehicles.GET("/:id", middleware.RequireCapability(models.CapAddVehicle), vehicleHandler.GetVehicle)
		vehicles.PUT("/:id", middleware.RequireCapability(models.CapEditVehicle), vehicleHandler.UpdateVehicle)
		vehicles.DELETE("/:id", middleware.RequireCapability(models.CapRemoveVehicle), vehicleHandler.DeleteVehicle)
		vehicles.PATCH("/:id/status", middleware.RequireCapability(models.CapEditVehicle), vehicleHandler.UpdateStatus)
		vehicles.POST("/:id/assign-driver", middleware.RequireCapability(models.CapEditVehicle), vehicleHandler.AssignDriver)

		vehicles.POST("/:id/documents", middleware.RequireCapability(models.CapAddVehicle), documentHandler.UploadVehicleDocument)
		vehicles.GET("/:id/documents", middleware.RequireCapability(models.CapAddVehicle), documentHandler.GetVehicleDocuments)
		vehicles.GET("/:id/documents/:docType/download", middleware.RequireCapability(models.CapAddVehicle), documentHandler.DownloadVehicleDocument)
		vehicles.DELETE("/:id/documents/:docType", middleware.RequireCapability(models.CapEditVehicle), documentHandler.DeleteVehicleDocument)
		vehicles.PUT("/:id/documents/verify", middleware.RequireCapability(models.CapVerifyDocuments), documentHandler.VerifyVehicleDocument)
		vehicles.POST("/:id/compliance/recheck", middleware.RequireCapability(models.CapVerifyDocuments), documentHandler.RecheckVehicleCompliance)
	}
}
