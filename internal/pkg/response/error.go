package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/pkg/apperror"
)

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Message string `json:"message"`
}

// Error sends a JSON error response.
// AppErrors are reported with their own status; anything else is logged and
// reported as 500 without leaking the cause.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, ErrorResponse{Message: appErr.Message})
		return
	}

	slog.ErrorContext(c.Request.Context(), "unhandled error",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("error", err.Error()),
	)
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "internal server error"})
}

// Message sends a JSON error response with an explicit status.
func Message(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorResponse{Message: message})
}
