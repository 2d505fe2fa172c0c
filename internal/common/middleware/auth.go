package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hotelhub/service-booking/internal/common/auth"
	"github.com/hotelhub/service-booking/internal/common/response"
	"github.com/hotelhub/service-booking/internal/domain/staff"
)

const (
	userIDKey = "user_id"
	roleKey   = "role"
	emailKey  = "email"
)

// AuthMiddleware requires a valid bearer token and stores the caller's
// identity on the context. The role claim is normalised with staff.ParseRole.
func AuthMiddleware(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing Authorization header")
			return
		}
		if !strings.HasPrefix(header, "Bearer ") {
			response.Unauthorized(c, "invalid Authorization header")
			return
		}

		claims, err := jwtManager.ValidateToken(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
		if err != nil {
			response.Unauthorized(c, err.Error())
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(roleKey, staff.ParseRole(claims.Role))
		c.Set(emailKey, claims.Email)
		c.Next()
	}
}

// RequireRole lets the request through only for the listed roles.
func RequireRole(roles ...staff.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetUserRole(c)
		if !ok {
			response.Unauthorized(c, "role not found in token")
			return
		}
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		response.Forbidden(c, "insufficient permissions")
	}
}

// GetUserID returns the authenticated user's ID.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// GetUserRole returns the authenticated user's role.
func GetUserRole(c *gin.Context) (staff.Role, bool) {
	v, ok := c.Get(roleKey)
	if !ok {
		return "", false
	}
	role, ok := v.(staff.Role)
	return role, ok
}
