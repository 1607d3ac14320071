package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marcos-nsantos/notes-backend/internal/pkg/apperror"
)

const requestIDKey = "request_id"

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// HandleError writes err as an ErrorResponse. Errors that are not an
// *apperror.AppError are reported as internal without their text.
func HandleError(c *gin.Context, err error) {
	appErr := apperror.From(err)
	c.JSON(appErr.StatusCode, ErrorResponse{
		Error:     appErr.Message,
		Code:      appErr.Code,
		RequestID: RequestID(c),
	})
}

// AbortWithError is HandleError for middleware: it stops the chain.
func AbortWithError(c *gin.Context, err error) {
	HandleError(c, err)
	c.Abort()
}

func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
