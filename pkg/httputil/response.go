package httputil

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/medibook/hospital-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Status: "success",
		Data:   data,
	})
}

// RespondWithCreated sends a success response for a newly created resource
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Status: "success",
		Data:   data,
	})
}

// RespondWithMessage sends a success response carrying only a message
func RespondWithMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{
		Status:  "success",
		Message: message,
	})
}

// RespondWithError sends an error response. AppError values map to their
// HTTP status; anything else is a 500 with the detail kept server-side.
func RespondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.StatusCode(), Response{
			Status:  "error",
			Message: appErr.Message,
		})
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusInternalServerError, Response{
		Status:  "error",
		Message: "internal server error",
	})
	_ = c.Error(err)
}
