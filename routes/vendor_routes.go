package routes

import (
	"fleethub/internal/handlers"
	"fleethub/internal/middleware"
	"fleethub/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupVendorRoutes sets up routes for vendor hierarchy management
func SetupVendorRoutes(r *gin.RouterGroup, vendorHandler *handlers.VendorHandler, authenticate gin.HandlerFunc) {
	vendors := r.Group("/vendors")
	vendors.Use(authenticate)
	{
		vendors.GET("", vendorHandler.ListVendors)
		vendors.GET("/under-user", middleware.RequireCapability(models.CapViewVendors), vendorHandler.GetVendorsUnderUser)
		vendors.GET("/:id", vendorHandler.GetVendor)
		vendors.GET("/:id/subtree", vendorHandler.GetSubtree)
		vendors.GET("/:id/children", vendorHandler.GetChildren)
		vendors.GET("/:id/stats", vendorHandler.GetStats)

		vendors.POST("/:id/sub-vendors", middleware.RequireCapability(models.CapCreateSubVendor), vendorHandler.CreateSubVendor)
		vendors.PUT("/:id", middleware.RequireCapability(models.CapEditSubVendor), vendorHandler.UpdateVendor)
		vendors.DELETE("/:id", middleware.RequireCapability(models.CapDeleteSubVendor), vendorHandler.DeleteVendor)

		vendors.GET("/:id/permissions", vendorHandler.GetPermissions)
		vendors.PUT("/:id/permissions", middleware.RequireCapability(models.CapEditPermissions), vendorHandler.UpdatePermissions)
	}

	stats := r.Group("/stats")
	stats.Use(authenticate)
	{
		stats.GET("/dashboard", vendorHandler.GetDashboard)
	}
}
