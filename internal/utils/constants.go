package utils

import "time"

// Application constants
const (
	AppName    = "FleetHub"
	AppVersion = "1.0.0"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Authentication
	JWTAccessTokenTTL = 24 * time.Hour
	PasswordMinLength = 8
	PasswordMaxLength = 128

	// Documents
	MaxDocumentSize      = 10 * 1024 * 1024 // 10MB
	DefaultExpiryWindow  = 30               // days
	ExpiringDocsMaxLimit = 10
)

// HTTP status strings
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error messages
const (
	ErrInvalidCredentials = "invalid credentials"
	ErrInvalidToken       = "invalid token"
	ErrInternalServer     = "internal server error"
	ErrUnauthorized       = "unauthorized"
	ErrForbidden          = "forbidden"
	ErrValidationFailed   = "validation failed"

	MsgNotInSubtree = "resource not in your subtree"
)

// Cache keys
const (
	CacheKeyVendorPrefix = "vendor:"
	VendorCacheTTL       = 15 * time.Minute
)
