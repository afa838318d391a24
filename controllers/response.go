package controllers

import (
	"log/slog"
	"net/http"

	"DuoChat/pkg/apperr"

	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope every endpoint answers with.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, APIResponse{Success: true, Data: data})
}

func respondMsg(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Message: msg})
}

// respondError maps err to its status. Internal causes never reach the
// client.
func respondError(c *gin.Context, err error) {
	code := apperr.CodeOf(err)
	msg := apperr.Message(code)
	if code != apperr.Internal {
		msg = err.Error()
	} else {
		slog.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), "err", err)
	}
	c.JSON(apperr.HTTPStatus(code), APIResponse{Success: false, Message: msg, Code: code})
}

func badRequest(c *gin.Context, msg string) {
	respondError(c, apperr.Newf(apperr.Validation, "%s", msg))
}
