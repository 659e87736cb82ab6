package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Success writes {status:true, ...fields}. Payload keys are endpoint
// specific (question, answer, inSight, ...), so the body is a flat map.
func Success(c *gin.Context, status int, fields gin.H) {
	if status == 0 {
		status = http.StatusOK
	}
	body := gin.H{"status": true}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(status, body)
}

// ErrorBody is the failure envelope. Errors maps JSON field names to
// messages when request binding failed.
type ErrorBody struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func Error(c *gin.Context, status int, message string, details map[string]string) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, ErrorBody{Message: message, Errors: details})
}

// Abort writes the failure envelope and stops the handler chain.
func Abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{Message: message})
}
