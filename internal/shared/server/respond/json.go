package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/shared/envelope"
)

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// OK writes a 200 success envelope around data.
func OK(c *gin.Context, message string, data any) {
	JSON(c, http.StatusOK, envelope.Success(message, data))
}
