package middleware

import (
	"errors"
	"strings"

	"fleethub/internal/models"
	"fleethub/internal/repositories/interfaces"
	"fleethub/internal/utils"
	"fleethub/pkg/logger"

	"github.com/gin-gonic/gin"
)

const PrincipalContextKey = "principal"

// Authenticate validates the bearer token and builds the request principal.
// The permission snapshot is read from the vendor record on every request, so
// a permission revocation takes effect immediately rather than at token expiry.
func Authenticate(userRepo interfaces.UserRepository, vendorRepo interfaces.VendorRepository, secretKey string, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString, secretKey)
		if err != nil {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		user, err := userRepo.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if !errors.Is(err, interfaces.ErrNotFound) {
				log.WithError(err).WithField("user_id", claims.UserID.Hex()).Error("Failed to load user for token")
			}
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		vendor, err := vendorRepo.GetByID(c.Request.Context(), user.VendorID)
		if err != nil {
			if !errors.Is(err, interfaces.ErrNotFound) {
				log.WithError(err).WithField("vendor_id", user.VendorID.Hex()).Error("Failed to load vendor for token")
			}
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		c.Set(PrincipalContextKey, &models.Principal{
			UserID:      user.ID,
			Email:       user.Email,
			Role:        user.Role,
			VendorID:    vendor.ID,
			Permissions: vendor.Permissions,
		})

		c.Next()
	}
}

// RequireCapability gates a route on one capability. Fail closed: a missing
// principal or an unset grant both deny.
func RequireCapability(capability models.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := GetPrincipal(c)
		if principal == nil {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		if !principal.Can(capability) {
			utils.ForbiddenResponse(c, "missing permission: "+string(capability))
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetPrincipal returns the authenticated principal, or nil when the route was
// reached without Authenticate.
func GetPrincipal(c *gin.Context) *models.Principal {
	value, exists := c.Get(PrincipalContextKey)
	if !exists {
		return nil
	}
	principal, ok := value.(*models.Principal)
	if !ok {
		return nil
	}
	return principal
}
