package middleware

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/course-supporter-api/internal/models"
	"github.com/noah-isme/course-supporter-api/pkg/middleware/requestid"
)

// ContextAuditResourceKey holds a resource id set by the handler for routes
// without an :id parameter.
const ContextAuditResourceKey = "audit_resource_id"

type auditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// SetAuditResourceID records the id of the resource a request created.
func SetAuditResourceID(c *gin.Context, id string) {
	c.Set(ContextAuditResourceKey, id)
}

// Audit records an audit log row after every successful mutating request.
// The resource id comes from SetAuditResourceID, else from the route's :id
// parameter.
func Audit(repo auditWriter, logger *zap.Logger, action, resource string) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now().UTC()
		c.Next()

		if repo == nil || c.Writer.Status() >= 400 {
			return
		}

		var userID *int64
		if caller, ok := CallerFromContext(c); ok {
			id := caller.UserID
			userID = &id
		}
		var resourceID *string
		if id := c.GetString(ContextAuditResourceKey); id != "" {
			resourceID = &id
		} else if id := c.Param("id"); id != "" {
			resourceID = &id
		}

		body, _ := json.Marshal(map[string]interface{}{
			"path":    c.FullPath(),
			"method":  c.Request.Method,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).Milliseconds(),
		})

		entry := &models.AuditLog{
			UserID:     userID,
			Action:     action,
			Resource:   resource,
			ResourceID: resourceID,
			NewValues:  body,
			IPAddress:  c.ClientIP(),
			UserAgent:  c.GetHeader("User-Agent"),
			RequestID:  requestid.Value(c),
		}
		if err := repo.CreateAuditLog(c.Request.Context(), entry); err != nil {
			logger.Warn("audit log write failed",
				zap.String("action", action),
				zap.String("request_id", entry.RequestID),
				zap.Error(err))
		}
	}
}
