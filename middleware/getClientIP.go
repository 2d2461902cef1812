package middleware

import (
	"github.com/gin-gonic/gin"
)

// getClientIP keys rate limits and request logs. gin only honours
// X-Forwarded-For and X-Real-IP when the peer is one of the engine's trusted
// proxies (TRUSTED_PROXIES); otherwise it is the socket address.
func getClientIP(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}
