package security

import (
	"net/http"
	"strings"

	"assettracker/pkg/roles"

	"github.com/gin-gonic/gin"
)

// JWTMiddleware validates JWT and extracts claims.
func JWTMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := parseToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("userID", claims["userID"])
		c.Set("role", claims["role"])
		c.Set("username", claims["username"])
		c.Next()
	}
}

// GetRole returns the role stored by JWTMiddleware.
func GetRole(c *gin.Context) roles.Role {
	role, _ := c.Get("role")
	r, _ := role.(string)
	return roles.Role(r)
}

// IsAllowed reports whether the authenticated role grants the permission.
func IsAllowed(c *gin.Context, permission roles.Permission) bool {
	return GetRole(c).Can(permission)
}

// Authorize ensures the user's role grants the required permission.
func Authorize(permission roles.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient permissions"})
			c.Abort()
			return
		}
		if _, ok := role.(string); !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid role format"})
			c.Abort()
			return
		}

		if !IsAllowed(c, permission) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient permissions", "required": permission})
			c.Abort()
			return
		}

		c.Next()
	}
}
