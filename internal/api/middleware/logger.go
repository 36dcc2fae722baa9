package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/groundviewhq/groundview/internal/logger"
)

// Logger injects a request-scoped logger carrying a generated request id
// and the caller's tenant, and logs request start and completion.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		requestID := uuid.New().String()

		fields := logger.Fields{
			logger.FieldRequestID: requestID,
			logger.FieldComponent: "api",
		}
		if tenant := requestTenant(c); tenant != "" {
			fields[logger.FieldTenant] = tenant
		}

		ctx := logger.WithFields(c.Request.Context(), fields)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-ID", requestID)

		logger.CtxInfo(ctx, "Request started: method=%s, path=%s, client_ip=%s",
			c.Request.Method, path, c.ClientIP())

		c.Next()

		latency := time.Since(start)
		fullPath := path
		if query != "" {
			fullPath = path + "?" + query
		}

		logger.FromContext(ctx).WithFields(logger.Fields{
			logger.FieldStatus:     c.Writer.Status(),
			logger.FieldDurationMs: latency.Milliseconds(),
		}).Infof("Request completed: method=%s, path=%s", c.Request.Method, fullPath)
	}
}

// requestTenant reads the tenant from the query string or the X-Tenant
// header.
func requestTenant(c *gin.Context) string {
	if tenant := c.Query("tenant"); tenant != "" {
		return tenant
	}
	return c.GetHeader("X-Tenant")
}
