package httptransport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"skyrchitect-server-go/internal/platform/errors"
)

// APIResponse is the uniform response envelope. Reasoning carries the
// agent's markdown explanation when one exists.
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data"`
	Message   string      `json:"message"`
	Code      int         `json:"code"`
	Reasoning string      `json:"reasoning,omitempty"`
}

// RespondSuccess writes a success envelope.
func RespondSuccess(c *gin.Context, httpStatus int, data interface{}, message string) {
	RespondSuccessWithReasoning(c, httpStatus, data, message, "")
}

// RespondSuccessWithReasoning writes a success envelope including the
// agent's reasoning text.
func RespondSuccessWithReasoning(c *gin.Context, httpStatus int, data interface{}, message, reasoning string) {
	if message == "" {
		message = "ok"
	}
	c.JSON(httpStatus, APIResponse{
		Success:   true,
		Message:   message,
		Code:      httpStatus,
		Data:      data,
		Reasoning: reasoning,
	})
}

// RespondError writes a failure envelope.
func RespondError(c *gin.Context, httpStatus int, message string, data interface{}) {
	c.JSON(httpStatus, APIResponse{
		Success: false,
		Message: message,
		Code:    httpStatus,
		Data:    data,
	})
}

// RespondDomainError maps a typed domain error onto an HTTP status.
// Validation problems are the client's fault, everything else is ours.
func RespondDomainError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.IsKind(err, errors.KindValidation) {
		status = http.StatusBadRequest
	}
	RespondError(c, status, err.Error(), nil)
}
