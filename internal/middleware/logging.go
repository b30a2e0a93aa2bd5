package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ridematch/internal/logger"
	"ridematch/internal/metrics"
)

// RequestLogger logs every request and records it in the HTTP metrics.
func RequestLogger(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTP(c.Request.Method, route, status, latency)

		fields := []zap.Field{
			zap.String("service", serviceName),
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", latency),
			zap.Int("response_size", c.Writer.Size()),
		}
		if IsDegraded(c) {
			fields = append(fields, zap.Bool("degraded", true))
		}

		reqLogger := logger.WithContext(c.Request.Context())
		switch {
		case status >= 500:
			fields = append(fields, zap.String("errors", c.Errors.String()))
			reqLogger.Error("Request failed", fields...)
		case len(c.Errors) > 0:
			fields = append(fields, zap.String("errors", c.Errors.String()))
			reqLogger.Warn("Request completed with errors", fields...)
		default:
			reqLogger.Info("Request completed", fields...)
		}
	}
}
