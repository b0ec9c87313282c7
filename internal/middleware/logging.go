package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fintrack/internal/logger"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "requestID"

const requestIDHeader = "X-Request-ID"

// RequestLogging returns a Gin middleware that tags each request with an id
// and logs method, path, status, latency, client IP and the acting principal.
// A well-formed X-Request-ID sent by the caller is reused.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}
		c.Set(RequestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)

		c.Next()

		fields := []interface{}{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if actor := c.GetString(ActorKey); actor != "" {
			fields = append(fields, "actor", actor)
		}

		if c.Writer.Status() >= 500 {
			logger.Get().Warnw("request", fields...)
			return
		}
		logger.Get().Infow("request", fields...)
	}
}
