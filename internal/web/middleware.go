package web

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"coffee-order-system/internal/logger"
)

const requestIDKey = "request_id"

// RequestID returns the request id assigned by the logging middleware,
// generating one if the middleware did not run.
func RequestID(c *gin.Context) string {
	if id, ok := c.Get(requestIDKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return logger.GenerateRequestID()
}

// RequestLogger assigns a request id and logs start and completion of every
// request.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := logger.GenerateRequestID()
		c.Set(requestIDKey, requestID)

		log.Debug("request_started",
			requestID,
			fmt.Sprintf("%s %s", c.Request.Method, c.Request.URL.Path),
			map[string]interface{}{
				"method":      c.Request.Method,
				"path":        c.Request.URL.Path,
				"remote_addr": c.ClientIP(),
				"user_agent":  c.Request.UserAgent(),
			})

		c.Next()

		duration := time.Since(start)
		log.Debug("request_completed",
			requestID,
			fmt.Sprintf("%s %s - %d", c.Request.Method, c.Request.URL.Path, c.Writer.Status()),
			map[string]interface{}{
				"method":      c.Request.Method,
				"path":        c.Request.URL.Path,
				"status_code": c.Writer.Status(),
				"duration_ms": duration.Milliseconds(),
			})
	}
}
