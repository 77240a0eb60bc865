package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	jwtsvc "roomdesk/internal/pkg/jwt"
	"roomdesk/internal/pkg/response"
)

// Auth validates the bearer token and puts the staff identity on the context.
func Auth(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			// Websocket clients cannot set headers from the browser.
			if t := c.Query("token"); t != "" {
				h = "Bearer " + t
			}
		}
		if !strings.HasPrefix(h, "Bearer ") {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid Authorization header")
			c.Abort()
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Empty token")
			c.Abort()
			return
		}

		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
			c.Abort()
			return
		}

		c.Set("staff_id", claims.StaffID)
		c.Set("store_id", claims.StoreID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// RequireRole aborts unless the authenticated staff has the given role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != role {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Insufficient role")
			c.Abort()
			return
		}
		c.Next()
	}
}

// StoreID returns the tenant the authenticated staff belongs to.
func StoreID(c *gin.Context) int64 {
	return c.GetInt64("store_id")
}

// Actor returns the display identity used for audit stamps.
func Actor(c *gin.Context) string {
	return c.GetString("username")
}
