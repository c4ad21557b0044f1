package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// PublicCache marks GET responses as publicly cacheable for maxAge seconds.
// Everything else is no-store: authenticated responses carry personal data.
func PublicCache(maxAge int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Header("Cache-Control", "no-store")
			c.Next()
			return
		}
		c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAge))
		c.Next()
	}
}
