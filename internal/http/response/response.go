package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mindmap-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func NewError(code string, err error) APIError {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	} else if code != "" {
		msg = code
	}
	return APIError{Message: msg, Code: code}
}

func RespondError(c *gin.Context, status int, code string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.JSON(status, ErrorEnvelope{Error: NewError(code, err)})
}

// RespondAPIError unwraps an *apierr.Error into its status and code. Anything else is a
// 500 with fallbackCode. Internal messages are not echoed for 5xx responses.
func RespondAPIError(c *gin.Context, err error, fallbackCode string) {
	status, code := apierr.Resolve(err, fallbackCode)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, ErrorEnvelope{Error: APIError{Message: http.StatusText(status), Code: code}})
		return
	}
	var ae *apierr.Error
	if errors.As(err, &ae) && ae.Err != nil {
		err = ae.Err
	}
	RespondError(c, status, code, err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
