package handlers

import (
	"fmt"
	"net/http"
	"time"

	"fleethub/internal/middleware"
	"fleethub/internal/models"
	"fleethub/internal/services"
	"fleethub/internal/utils"
	"fleethub/internal/validators"

	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	documentService services.DocumentService
}

func NewDocumentHandler(documentService services.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
	}
}

// parseUpload reads the multipart form: the "file" part plus docType,
// expiresAt and licenseNumber fields. Callers close the returned file.
func parseUpload(c *gin.Context) (*services.DocumentUpload, models.DocType, func(), bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "Document file is required")
		return nil, "", nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.BadRequestResponse(c, "Failed to read uploaded file")
		return nil, "", nil, false
	}

	upload := &services.DocumentUpload{
		FileName:      fileHeader.Filename,
		ContentType:   fileHeader.Header.Get("Content-Type"),
		Size:          fileHeader.Size,
		Reader:        file,
		LicenseNumber: c.PostForm("licenseNumber"),
	}

	if raw := c.PostForm("expiresAt"); raw != "" {
		expiresAt, err := parseDate(raw)
		if err != nil {
			file.Close()
			utils.BadRequestResponse(c, "Invalid expiresAt, expected RFC3339 or YYYY-MM-DD")
			return nil, "", nil, false
		}
		upload.ExpiresAt = &expiresAt
	}

	docType := models.DocType(c.PostForm("docType"))
	if docType == "" {
		file.Close()
		utils.BadRequestResponse(c, "docType is required")
		return nil, "", nil, false
	}

	return upload, docType, func() { file.Close() }, true
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

// UploadDriverDocument stores a driver document and resets its verification
func (h *DocumentHandler) UploadDriverDocument(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	upload, docType, closeFile, ok := parseUpload(c)
	if !ok {
		return
	}
	defer closeFile()

	response, err := h.documentService.UploadDriverDocument(c.Request.Context(), principal, id, docType, upload)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Document uploaded successfully", response)
}

// UploadVehicleDocument stores a vehicle document and resets its verification
func (h *DocumentHandler) UploadVehicleDocument(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	upload, docType, closeFile, ok := parseUpload(c)
	if !ok {
		return
	}
	defer closeFile()

	response, err := h.documentService.UploadVehicleDocument(c.Request.Context(), principal, id, docType, upload)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Document uploaded successfully", response)
}

func (h *DocumentHandler) GetDriverDocuments(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	response, err := h.documentService.GetDriverDocuments(c.Request.Context(), principal, id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Documents retrieved successfully", response)
}

func (h *DocumentHandler) GetVehicleDocuments(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	response, err := h.documentService.GetVehicleDocuments(c.Request.Context(), principal, id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Documents retrieved successfully", response)
}

func docTypeParam(c *gin.Context) (models.DocType, bool) {
	docType := models.DocType(c.Param("docType"))
	if docType == "" {
		utils.BadRequestResponse(c, "docType is required")
		return "", false
	}
	return docType, true
}

func streamDocument(c *gin.Context, file *services.DocumentFile) {
	defer file.Reader.Close()
	c.DataFromReader(http.StatusOK, file.Size, file.ContentType, file.Reader, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", file.FileName),
	})
}

// DownloadDriverDocument streams the stored document blob
func (h *DocumentHandler) DownloadDriverDocument(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	docType, ok := docTypeParam(c)
	if !ok {
		return
	}

	file, err := h.documentService.DownloadDriverDocument(c.Request.Context(), principal, id, docType)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	streamDocument(c, file)
}

func (h *DocumentHandler) DownloadVehicleDocument(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	docType, ok := docTypeParam(c)
	if !ok {
		return
	}

	file, err := h.documentService.DownloadVehicleDocument(c.Request.Context(), principal, id, docType)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	streamDocument(c, file)
}

func (h *DocumentHandler) DeleteDriverDocument(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	docType, ok := docTypeParam(c)
	if !ok {
		return
	}

	response, err := h.documentService.DeleteDriverDocument(c.Request.Context(), principal, id, docType)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Document deleted successfully", response)
}

func (h *DocumentHandler) DeleteVehicleDocument(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	docType, ok := docTypeParam(c)
	if !ok {
		return
	}

	response, err := h.documentService.DeleteVehicleDocument(c.Request.Context(), principal, id, docType)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Document deleted successfully", response)
}

// VerifyDriverDocument records a verify or reject decision for one document
func (h *DocumentHandler) VerifyDriverDocument(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var request validators.VerifyDocumentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	status, err := h.documentService.VerifyDriverDocument(c.Request.Context(), principal, id, models.DocType(request.DocType), &request)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Document verification updated successfully", status)
}

// VerifyVehicleDocument records a verify or reject decision for one document
func (h *DocumentHandler) VerifyVehicleDocument(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var request validators.VerifyDocumentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	status, err := h.documentService.VerifyVehicleDocument(c.Request.Context(), principal, id, models.DocType(request.DocType), &request)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Document verification updated successfully", status)
}

// RecheckDriverCompliance re-evaluates the driver's compliance verdict
func (h *DocumentHandler) RecheckDriverCompliance(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	status, err := h.documentService.RecheckDriverCompliance(c.Request.Context(), principal, id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Compliance rechecked successfully", status)
}

// RecheckVehicleCompliance re-evaluates the vehicle's compliance verdict
func (h *DocumentHandler) RecheckVehicleCompliance(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	status, err := h.documentService.RecheckVehicleCompliance(c.Request.Context(), principal, id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Compliance rechecked successfully", status)
}

// GetComplianceSummary returns the subtree-wide compliance counters
func (h *DocumentHandler) GetComplianceSummary(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	summary, err := h.documentService.GetComplianceSummary(c.Request.Context(), principal)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Compliance summary retrieved successfully", summary)
}

// GetExpiringDocuments lists documents expiring within the requested window
func (h *DocumentHandler) GetExpiringDocuments(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	var request validators.ExpiringDocumentsRequest
	if err := c.ShouldBindQuery(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid query: "+err.Error())
		return
	}

	response, err := h.documentService.GetExpiringDocuments(c.Request.Context(), principal, &request)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Expiring documents retrieved successfully", response)
}
