package middleware

import (
	"net/http"
	"strings"

	"buxta-backend/internal/shared/response"
	"buxta-backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ContextKeyUserID          = "user_id"
	ContextKeyRole            = "role"
	ContextKeyIsAuthenticated = "is_authenticated"

	RoleStaff = "staff"
)

// TokenValidator is satisfied by *jwt.Manager
type TokenValidator interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

// AuthMiddleware rejects requests without a valid Bearer access token
func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "Authentication required", "UNAUTHORIZED")
			return
		}

		if !authenticate(c, tokens, token) {
			response.Error(c, http.StatusUnauthorized, "Invalid or expired token", "INVALID_TOKEN")
			return
		}

		c.Next()
	}
}

// OptionalAuthMiddleware identifies the user when a valid token is present
// and otherwise lets the request through as anonymous.
func OptionalAuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyIsAuthenticated, false)
		if token, ok := bearerToken(c); ok {
			authenticate(c, tokens, token)
		}
		c.Next()
	}
}

// StaffMiddleware must run after AuthMiddleware
func StaffMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextKeyRole) != RoleStaff {
			response.Error(c, http.StatusForbidden, "Access denied: staff only", "FORBIDDEN")
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func authenticate(c *gin.Context, tokens TokenValidator, token string) bool {
	claims, err := tokens.ValidateAccessToken(token)
	if err != nil {
		return false
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return false
	}

	c.Set(ContextKeyIsAuthenticated, true)
	c.Set(ContextKeyUserID, userID)
	c.Set(ContextKeyRole, claims.Role)
	return true
}

// GetAuthenticatedUserID returns (userID, true) if the request carried a valid token
func GetAuthenticatedUserID(c *gin.Context) (uuid.UUID, bool) {
	if !c.GetBool(ContextKeyIsAuthenticated) {
		return uuid.Nil, false
	}
	v, exists := c.Get(ContextKeyUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
