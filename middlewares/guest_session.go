package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const cartSessionCookie = "cart_session"

// GuestSession guarantees every visitor carries a cart session token so
// anonymous carts have a stable owner across requests.
func GuestSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cartSessionCookie)
		if err != nil || token == "" {
			token = uuid.NewString()
			c.SetCookie(cartSessionCookie, token, 60*60*24*30, "/", "", false, true)
		}
		c.Set("cart_session", token)
		c.Next()
	}
}

// CartSessionID returns the guest cart token for this request.
func CartSessionID(c *gin.Context) string {
	return c.GetString("cart_session")
}

// ClearCartSession drops the guest token after its cart has been merged
// into a user cart, so a stale cookie cannot be merged twice.
func ClearCartSession(c *gin.Context) {
	c.SetCookie(cartSessionCookie, "", -1, "/", "", false, true)
}
