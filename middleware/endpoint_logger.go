package middleware

import (
	"fmt"
	"time"

	"github.com/ariebrainware/onco-intake/util"
	"github.com/gin-gonic/gin"
)

// EndpointCallLogger logs each HTTP request as an endpoint event. Events are
// persisted when util.SetSecurityLoggerDB was called during startup.
func EndpointCallLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()

		username, _ := GetUsername(c)

		details := map[string]interface{}{
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"raw_path":    c.Request.URL.Path,
			"status":      status,
			"duration_ms": duration.Milliseconds(),
		}
		if len(c.Errors) > 0 {
			details["errors"] = c.Errors.String()
		}

		util.LogSecurityEvent(util.SecurityEvent{
			EventType: util.EventEndpointCall,
			Username:  username,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			Message:   fmt.Sprintf("%s %s -> %d", c.Request.Method, c.Request.URL.Path, status),
			Details:   details,
		})
	}
}
