package handlers

import (
	"fleethub/internal/middleware"
	"fleethub/internal/services"
	"fleethub/internal/utils"
	"fleethub/internal/validators"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login authenticates a vendor user and returns a signed token
func (h *AuthHandler) Login(c *gin.Context) {
	var request validators.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	response, err := h.authService.Login(c.Request.Context(), &request)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Login successful", response)
}

// GetProfile returns the authenticated user together with its vendor
func (h *AuthHandler) GetProfile(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	response, err := h.authService.GetProfile(c.Request.Context(), principal)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Profile retrieved successfully", response)
}

// ChangePassword updates the authenticated user's password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	var request validators.ChangePasswordRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), principal, &request); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Password changed successfully", nil)
}
