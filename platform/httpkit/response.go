// Package httpkit provides the gin middleware and response helpers every
// handler shares.
package httpkit

import (
	"errors"
	"net/http"

	"roofing_crm_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

const msgInternal = "internal error"

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// Error writes an ErrorResponse. details may be nil.
func Error(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, ErrorResponse{Error: message, Details: details})
}

// HandleError writes err and reports whether there was one to write.
// Typed errors answer with their Kind's status and Message. Causes behind
// internal and external failures are attached to the gin context so the
// request logger records them; untyped errors become a bare 500.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var domainErr *apperr.Error
	if !errors.As(err, &domainErr) {
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, msgInternal, nil)
		return true
	}

	switch domainErr.Kind {
	case apperr.KindInternal, apperr.KindExternal:
		if domainErr.Err != nil {
			_ = c.Error(domainErr.Err)
		}
	}
	Error(c, domainErr.HTTPStatus(), domainErr.Message, domainErr.Details)
	return true
}
