package respond

import (
	"github.com/gin-gonic/gin"

	"resume-tailor/internal/shared/envelope"
	"resume-tailor/internal/shared/telemetry"
)

// Error sends a standardized error envelope.
func Error(c *gin.Context, status int, code, message string, details any) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID, ok := c.Get("userId"); ok {
		fields["user_id"] = userID
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, envelope.ErrorBody{
		Status:  envelope.StatusError,
		Message: message,
		Code:    code,
		Detail:  details,
	})
}
