package respond

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/shared/envelope"
)

// PathID parses a positive integer path parameter. On failure it writes a 422 and returns false.
func PathID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		Error(c, http.StatusUnprocessableEntity, "validation_error", name+": value is not a valid integer", []envelope.FieldError{
			{Loc: []string{"path", name}, Msg: name + ": value is not a valid integer", Type: "type_error.integer"},
		})
		return 0, false
	}
	return id, true
}
