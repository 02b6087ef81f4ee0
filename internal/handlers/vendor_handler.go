package handlers

import (
	"fleethub/internal/middleware"
	"fleethub/internal/models"
	"fleethub/internal/services"
	"fleethub/internal/utils"
	"fleethub/internal/validators"

	"github.com/gin-gonic/gin"
)

type VendorHandler struct {
	vendorService services.VendorService
}

func NewVendorHandler(vendorService services.VendorService) *VendorHandler {
	return &VendorHandler{
		vendorService: vendorService,
	}
}

// ListVendors lists vendors in the caller's subtree, optionally filtered by
// level, region and city
func (h *VendorHandler) ListVendors(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	level := models.VendorLevel(c.Query("level"))
	vendors, err := h.vendorService.ListVendors(c.Request.Context(), principal, level, c.Query("region"), c.Query("city"))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Vendors retrieved successfully", map[string]interface{}{
		"vendors": vendors,
	}, &utils.Meta{Count: len(vendors)})
}

// GetVendorsUnderUser returns the caller's whole subtree rooted at its own
// vendor
func (h *VendorHandler) GetVendorsUnderUser(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	response, err := h.vendorService.GetSubtree(c.Request.Context(), principal, principal.VendorID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Vendors retrieved successfully", response)
}

func (h *VendorHandler) GetVendor(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	vendor, err := h.vendorService.GetVendor(c.Request.Context(), principal, id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Vendor retrieved successfully", vendor)
}

func (h *VendorHandler) GetSubtree(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	response, err := h.vendorService.GetSubtree(c.Request.Context(), principal, id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Vendor subtree retrieved successfully", response)
}

func (h *VendorHandler) GetChildren(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	children, err := h.vendorService.GetChildren(c.Request.Context(), principal, id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Child vendors retrieved successfully", map[string]interface{}{
		"vendors": children,
	}, &utils.Meta{Count: len(children)})
}

// CreateSubVendor creates a vendor one level below the target parent together
// with its login user
func (h *VendorHandler) CreateSubVendor(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	parentID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var request validators.CreateSubVendorRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	vendor, err := h.vendorService.CreateSubVendor(c.Request.Context(), principal, parentID, &request)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Sub-vendor created successfully", vendor)
}

func (h *VendorHandler) UpdateVendor(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var request validators.UpdateVendorRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	vendor, err := h.vendorService.UpdateVendor(c.Request.Context(), principal, id, &request)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Vendor updated successfully", vendor)
}

// DeleteVendor removes a vendor, reparenting its children and moving its
// fleet to the parent
func (h *VendorHandler) DeleteVendor(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.vendorService.DeleteVendor(c.Request.Context(), principal, id); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Vendor deleted successfully", nil)
}

func (h *VendorHandler) GetPermissions(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	response, err := h.vendorService.GetPermissions(c.Request.Context(), principal, id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Permissions retrieved successfully", response)
}

func (h *VendorHandler) UpdatePermissions(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var request validators.UpdatePermissionsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	vendor, err := h.vendorService.UpdatePermissions(c.Request.Context(), principal, id, &request)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Permissions updated successfully", vendor)
}

func (h *VendorHandler) GetStats(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	stats, err := h.vendorService.GetStats(c.Request.Context(), principal, id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Vendor stats retrieved successfully", stats)
}

// GetDashboard returns the stats of the caller's own vendor
func (h *VendorHandler) GetDashboard(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	stats, err := h.vendorService.GetStats(c.Request.Context(), principal, principal.VendorID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Dashboard stats retrieved successfully", stats)
}
