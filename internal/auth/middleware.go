package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// ContextUserID is the gin context key holding the authenticated user id
	ContextUserID = "userID"
	// ContextRole is the gin context key holding the authenticated role
	ContextRole = "userRole"
)

// RequireAuth validates the bearer token (or token query param for WebSocket
// upgrades, which cannot carry headers from the browser API) and stores the
// caller's identity on the request context.
func RequireAuth(service *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			tokenString = strings.TrimPrefix(header, "Bearer ")
		} else if token := c.Query("token"); token != "" {
			tokenString = token
		}

		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing credentials"})
			return
		}

		claims, err := service.ParseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextRole, string(claims.Role))
		c.Next()
	}
}

// UserIDFromContext returns the authenticated user id set by RequireAuth
func UserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString(ContextUserID)
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// RoleFromContext returns the authenticated role set by RequireAuth
func RoleFromContext(c *gin.Context) Role {
	return Role(c.GetString(ContextRole))
}
