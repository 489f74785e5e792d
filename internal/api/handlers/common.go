package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/volunteerhub/internal/utils"
)

// APIError is the failure envelope shared by every endpoint.
type APIError struct {
	Success bool       `json:"success"`
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
	Error   string     `json:"error,omitempty"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)
	_ = c.Error(err)

	body := APIError{Success: false, Code: utils.CodeOf(err)}

	var ae *utils.AppError
	if errors.As(err, &ae) {
		body.Message = ae.Message
		// server-side failures echo the underlying cause to the caller
		if status >= http.StatusInternalServerError && ae.Err != nil {
			body.Error = ae.Err.Error()
		}
	} else {
		body.Message = http.StatusText(status)
		body.Error = err.Error()
	}

	c.JSON(status, body)
}

func writeOK(c *gin.Context, status int, message string, extra gin.H) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

// actorFrom returns the authenticated staff subject, or "" when auth is off.
func actorFrom(c *gin.Context) string {
	if v, ok := c.Get("user_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
