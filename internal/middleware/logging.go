// internal/middleware/logging.go
package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/aplv/catalogo-api/internal/models"
)

const maxAuditBody = 64 << 10

// RequestID tags each request with an id, reusing the caller's X-Request-ID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// RequestLogger writes one structured line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"query":      c.Request.URL.RawQuery,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).Milliseconds(),
			"ip":         c.ClientIP(),
			"user_agent": c.Request.UserAgent(),
			"request_id": c.GetString("request_id"),
		}
		entry := logrus.WithFields(fields)
		switch {
		case len(c.Errors) > 0:
			entry.WithField("errors", c.Errors.String()).Error("Request failed")
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Error("Request processed")
		default:
			entry.Info("Request processed")
		}
	}
}

// AuditLogMiddleware persists every admin mutation with its payload. It
// must run after AuthRequired so the admin email is known.
func AuditLogMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}

		var requestBody []byte
		if c.Request.Body != nil && isJSON(c.ContentType()) {
			requestBody, _ = io.ReadAll(io.LimitReader(c.Request.Body, maxAuditBody))
			c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(requestBody), c.Request.Body))
		}

		c.Next()

		var requestData map[string]interface{}
		if len(requestBody) > 0 {
			// partial or invalid bodies are audited without values
			_ = json.Unmarshal(requestBody, &requestData)
		}

		auditLog := &models.AuditLog{
			AdminEmail:   c.GetString("email"),
			Action:       c.Request.Method + " " + c.FullPath(),
			ResourceType: extractResourceType(c.Request.URL.Path),
			ResourceSlug: c.Param("slug"),
			Status:       c.Writer.Status(),
			NewValues:    models.JSONB(requestData),
			IPAddress:    c.ClientIP(),
			UserAgent:    c.Request.UserAgent(),
		}

		// Save audit log asynchronously
		go func() {
			if err := db.Create(auditLog).Error; err != nil {
				logrus.WithError(err).WithField("action", auditLog.Action).Error("Failed to create audit log")
			}
		}()
	}
}

func isJSON(contentType string) bool {
	return strings.HasPrefix(contentType, "application/json")
}

// extractResourceType maps /v1/admin/products/x to "products".
func extractResourceType(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, part := range parts {
		if part == "admin" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	if len(parts) >= 2 && parts[0] == "v1" {
		return parts[1]
	}
	if len(parts) >= 1 && parts[0] != "" {
		return parts[0]
	}
	return "unknown"
}
