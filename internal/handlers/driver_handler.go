package handlers

import (
	"fleethub/internal/middleware"
	"fleethub/internal/services"
	"fleethub/internal/utils"
	"fleethub/internal/validators"

	"github.com/gin-gonic/gin"
)

type DriverHandler struct {
	driverService     services.DriverService
	assignmentService services.AssignmentService
}

func NewDriverHandler(driverService services.DriverService, assignmentService services.AssignmentService) *DriverHandler {
	return &DriverHandler{
		driverService:     driverService,
		assignmentService: assignmentService,
	}
}

// ListDrivers lists drivers across the caller's subtree with optional status,
// region and city filters
func (h *DriverHandler) ListDrivers(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	var request validators.ListDriversRequest
	if err := c.ShouldBindQuery(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid query: "+err.Error())
		return
	}

	params := utils.GetPaginationParams(c)
	drivers, total, err := h.driverService.ListDrivers(c.Request.Context(), principal, &request, params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Drivers retrieved successfully", map[string]interface{}{
		"drivers": drivers,
	}, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
		Count:      len(drivers),
	})
}

func (h *DriverHandler) GetDriver(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	driver, err := h.driverService.GetDriver(c.Request.Context(), principal, id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Driver retrieved successfully", driver)
}

func (h *DriverHandler) CreateDriver(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	var request validators.CreateDriverRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	driver, err := h.driverService.CreateDriver(c.Request.Context(), principal, &request)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Driver created successfully", driver)
}

func (h *DriverHandler) UpdateDriver(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var request validators.UpdateDriverRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	driver, err := h.driverService.UpdateDriver(c.Request.Context(), principal, id, &request)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Driver updated successfully", driver)
}

func (h *DriverHandler) DeleteDriver(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.driverService.DeleteDriver(c.Request.Context(), principal, id); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Driver deleted successfully", nil)
}

// UpdateStatus transitions a driver's duty status, enforcing the compliance
// gate for active statuses
func (h *DriverHandler) UpdateStatus(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var request validators.UpdateDriverStatusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	driver, err := h.driverService.UpdateStatus(c.Request.Context(), principal, id, &request)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Driver status updated successfully", driver)
}

// AssignVehicle links or unlinks a vehicle for this driver. A null vehicleId
// releases the current assignment.
func (h *DriverHandler) AssignVehicle(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var request validators.AssignVehicleRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	result, err := h.assignmentService.AssignVehicleToDriver(c.Request.Context(), principal, id, &request)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Driver assignment updated successfully", result)
}
