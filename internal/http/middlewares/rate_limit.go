package middlewares

import (
	"net"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mcarreira/lingohub/internal/ratelimit"
)

// RateLimit enforces the given limiter for a derived key. Limiter errors
// (e.g. redis down) fail open; throttling logins matters less than serving
// them.
func RateLimit(limiter ratelimit.Limiter, keyFn func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFn(c)

		if key == "" {
			key = clientIP(c)
		}

		allowed, retryAfter, err := limiter.Allow(c.Request.Context(), key)

		if err != nil {
			c.Next()
			return
		}

		if !allowed {
			secs := int(retryAfter.Seconds())

			if secs < 1 {
				secs = 1
			}

			c.Header("Retry-After", strconv.Itoa(secs))

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":    "rate_limited",
					"message": "Too many requests. Please try again shortly.",
				},
			})
			return
		}

		c.Next()
	}
}

// for unauthenticated endpoints: rate limit by IP
func KeyByIP(c *gin.Context) string {
	return clientIP(c)
}

func clientIP(c *gin.Context) string {
	ip := c.ClientIP()

	host, _, err := net.SplitHostPort(ip)

	if err == nil && host != "" {
		return host
	}

	return ip
}
