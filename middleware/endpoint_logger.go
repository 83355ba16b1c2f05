package middleware

import (
	"fmt"
	"time"

	"github.com/ariebrainware/monorec/util"
	"github.com/gin-gonic/gin"
)

// EndpointCallLogger writes one structured line per request and records it as
// an ENDPOINT_CALL security event. Register it before Authenticate so the
// principal set further down the chain is visible once the handler returns.
func EndpointCallLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()

		var userID, email string
		if p, ok := GetPrincipal(c); ok {
			userID, email = p.Subject, p.Email
		}

		l := util.Logger()
		evt := l.Info()
		if status >= 500 {
			evt = l.Error()
		} else if status >= 400 {
			evt = l.Warn()
		}
		evt.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("route", c.FullPath()).
			Int("status", status).
			Dur("latency", duration).
			Str("remote_ip", c.ClientIP()).
			Str("user_id", userID).
			Msg("request")

		details := map[string]interface{}{
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"raw_path":    c.Request.URL.Path,
			"status":      status,
			"duration_ms": duration.Milliseconds(),
			"query":       c.Request.URL.RawQuery,
		}

		util.LogSecurityEvent(util.SecurityEvent{
			EventType: util.EventEndpointCall,
			UserID:    userID,
			Email:     email,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			Message:   fmt.Sprintf("%s %s -> %d", c.Request.Method, c.Request.URL.Path, status),
			Details:   details,
		})
	}
}
