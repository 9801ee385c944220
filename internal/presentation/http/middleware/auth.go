package middleware

import (
	"strings"

	"github.com/ORiVS/Vegnbio-POS-sub000/internal/presentation/http/dto/response"
	"github.com/ORiVS/Vegnbio-POS-sub000/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys set by AuthMiddleware
const (
	StaffIDKey     = "staff_id"
	StaffNameKey   = "staff_name"
	StaffRolesKey  = "staff_roles"
	StaffClaimsKey = "staff_claims"
)

// AuthMiddleware creates a JWT authentication middleware for staff tokens
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(StaffIDKey, claims.StaffID)
		c.Set(StaffNameKey, claims.Name)
		c.Set(StaffRolesKey, claims.Roles)
		c.Set(StaffClaimsKey, claims)

		c.Next()
	}
}

// GetStaffID retrieves the authenticated staff id from gin context
func GetStaffID(c *gin.Context) uuid.UUID {
	v, exists := c.Get(StaffIDKey)
	if !exists {
		return uuid.Nil
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

// GetStaffClaims retrieves the validated token claims, or nil
func GetStaffClaims(c *gin.Context) *utils.StaffClaims {
	v, exists := c.Get(StaffClaimsKey)
	if !exists {
		return nil
	}
	claims, _ := v.(*utils.StaffClaims)
	return claims
}
