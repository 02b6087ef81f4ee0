package handlers

import (
	"fleethub/internal/middleware"
	"fleethub/internal/services"
	"fleethub/internal/utils"
	"fleethub/internal/validators"

	"github.com/gin-gonic/gin"
)

type VehicleHandler struct {
	vehicleService    services.VehicleService
	assignmentService services.AssignmentService
}

func NewVehicleHandler(vehicleService services.VehicleService, assignmentService services.AssignmentService) *VehicleHandler {
	return &VehicleHandler{
		vehicleService:    vehicleService,
		assignmentService: assignmentService,
	}
}

func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	var request validators.ListVehiclesRequest
	if err := c.ShouldBindQuery(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid query: "+err.Error())
		return
	}

	params := utils.GetPaginationParams(c)
	vehicles, total, err := h.vehicleService.ListVehicles(c.Request.Context(), principal, &request, params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Vehicles retrieved successfully", map[string]interface{}{
		"vehicles": vehicles,
	}, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
		Count:      len(vehicles),
	})
}

func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	vehicle, err := h.vehicleService.GetVehicle(c.Request.Context(), principal, id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Vehicle retrieved successfully", vehicle)
}

func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	var request validators.CreateVehicleRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	vehicle, err := h.vehicleService.CreateVehicle(c.Request.Context(), principal, &request)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Vehicle created successfully", vehicle)
}

func (h *VehicleHandler) UpdateVehicle(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var request validators.UpdateVehicleRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	vehicle, err := h.vehicleService.UpdateVehicle(c.Request.Context(), principal, id, &request)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Vehicle updated successfully", vehicle)
}

func (h *VehicleHandler) DeleteVehicle(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.vehicleService.DeleteVehicle(c.Request.Context(), principal, id); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Vehicle deleted successfully", nil)
}

// UpdateStatus transitions a vehicle's service status, enforcing the
// compliance gate for active statuses
func (h *VehicleHandler) UpdateStatus(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var request validators.UpdateVehicleStatusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	vehicle, err := h.vehicleService.UpdateStatus(c.Request.Context(), principal, id, &request)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Vehicle status updated successfully", vehicle)
}

// AssignDriver links or unlinks a driver for this vehicle. A null driverId
// releases the current assignment.
func (h *VehicleHandler) AssignDriver(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var request validators.AssignDriverRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	result, err := h.assignmentService.AssignDriverToVehicle(c.Request.Context(), principal, id, &request)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Vehicle assignment updated successfully", result)
}
