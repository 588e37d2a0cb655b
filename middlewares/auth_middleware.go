package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/thekitchen/ordering-api/utils"
)

// Authenticate requires a valid bearer token and stores user_id/is_admin
// in the request context.
func Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := claimsFromRequest(c)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("is_admin", claims.IsAdmin)
		c.Next()
	}
}

// AuthenticateOptional resolves the current user when a token is present
// but lets anonymous requests straight through. Cart endpoints use this so
// guests and users share one handler.
func AuthenticateOptional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := claimsFromRequest(c); err == nil {
			c.Set("user_id", claims.UserID)
			c.Set("is_admin", claims.IsAdmin)
		}
		c.Next()
	}
}

// AdminOnly gates a route to admin accounts. Must run after Authenticate.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool("is_admin") {
			utils.RespondError(c, http.StatusForbidden, errors.New("admin access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func claimsFromRequest(c *gin.Context) (*utils.CustomClaims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, errors.New("authentication required")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, errors.New("invalid authorization header")
	}
	return utils.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
}

// CurrentUserID returns the authenticated user id, or 0 for guests.
func CurrentUserID(c *gin.Context) uint {
	v, ok := c.Get("user_id")
	if !ok {
		return 0
	}
	if id, ok := v.(uint); ok {
		return id
	}
	return 0
}
