package utils

import (
	"github.com/gin-gonic/gin"
)

// RespondJSON writes the standard success envelope: {"ok": true} merged
// with the payload keys at the top level.
func RespondJSON(c *gin.Context, code int, payload gin.H) {
	body := gin.H{"ok": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(code, body)
}

// RespondError writes {"ok": false, "error": message}.
func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, gin.H{
		"ok":    false,
		"error": err.Error(),
	})
}
