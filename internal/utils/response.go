package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Status    string      `json:"status"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	Meta      *Meta       `json:"meta,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type APIError struct {
	Code             string      `json:"code"`
	Message          string      `json:"message"`
	Details          interface{} `json:"details,omitempty"`
	ComplianceStatus interface{} `json:"complianceStatus,omitempty"`
}

type Meta struct {
	Pagination *PaginationMeta `json:"pagination,omitempty"`
	Total      int64           `json:"total,omitempty"`
	Count      int             `json:"count,omitempty"`
}

func SuccessResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Status:    StatusSuccess,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	})
}

func SuccessResponseWithMeta(c *gin.Context, message string, data interface{}, meta *Meta) {
	c.JSON(http.StatusOK, APIResponse{
		Status:    StatusSuccess,
		Message:   message,
		Data:      data,
		Meta:      meta,
		Timestamp: time.Now(),
	})
}

func CreatedResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Status:    StatusSuccess,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	})
}

func ErrorResponse(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, APIResponse{
		Status: StatusError,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
		Timestamp: time.Now(),
	})
}

func UnauthorizedResponse(c *gin.Context) {
	ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", ErrUnauthorized)
}

func ForbiddenResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusForbidden, "FORBIDDEN", message)
}

func NotFoundResponse(c *gin.Context, resource string) {
	ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", resource+" not found")
}

func BadRequestResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

func InternalServerErrorResponse(c *gin.Context) {
	ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_ERROR", ErrInternalServer)
}

// AppErrorResponse maps a service-layer error onto the response envelope.
// Compliance payloads attached to validation failures are surfaced so clients
// can show why an entity was rejected.
func AppErrorResponse(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		InternalServerErrorResponse(c)
		return
	}

	var statusCode int
	var code string
	switch appErr.Kind {
	case KindUnauthorized:
		statusCode, code = http.StatusUnauthorized, "UNAUTHORIZED"
	case KindNotFound:
		statusCode, code = http.StatusNotFound, "NOT_FOUND"
	case KindForbidden:
		statusCode, code = http.StatusForbidden, "FORBIDDEN"
	case KindValidation:
		statusCode, code = http.StatusBadRequest, "VALIDATION_ERROR"
	case KindConflict:
		statusCode, code = http.StatusConflict, "CONFLICT"
	default:
		statusCode, code = http.StatusInternalServerError, "INTERNAL_ERROR"
	}

	apiErr := &APIError{Code: code, Message: appErr.Message}
	if appErr.Kind == KindValidation && appErr.Details != nil {
		apiErr.ComplianceStatus = appErr.Details
	} else if appErr.Details != nil {
		apiErr.Details = appErr.Details
	}

	c.JSON(statusCode, APIResponse{
		Status:    StatusError,
		Error:     apiErr,
		Timestamp: time.Now(),
	})
}
