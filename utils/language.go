package utils

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// Language resolves the display language for a request: explicit ?lang=
// wins, then the Accept-Language header; anything but "ar" falls back to
// English.
func Language(c *gin.Context) string {
	if lang := c.Query("lang"); lang == "ar" || lang == "en" {
		return lang
	}
	if strings.HasPrefix(strings.ToLower(c.GetHeader("Accept-Language")), "ar") {
		return "ar"
	}
	return "en"
}
