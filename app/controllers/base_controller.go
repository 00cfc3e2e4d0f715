package controllers

import (
	"net/http"

	"github.com/beego/beego/v2/server/web"

	apperrors "github.com/shikhar1verma/chat-contract-pdf/internal/errors"
)

// BaseController provides helpers for consistent JSON responses.
type BaseController struct {
	web.Controller
}

// JSON writes a JSON response with the supplied HTTP status code.
func (c *BaseController) JSON(status int, payload interface{}) {
	c.Ctx.Output.SetStatus(status)
	c.Data["json"] = payload
	c.ServeJSON()
}

// JSONSuccess writes a 200 response with the payload as-is.
func (c *BaseController) JSONSuccess(data interface{}) {
	c.JSON(http.StatusOK, data)
}

// JSONError writes an error envelope with message.
func (c *BaseController) JSONError(status int, message string) {
	c.JSON(status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// JSONAppError writes an AppError with its HTTP code and structured body.
func (c *BaseController) JSONAppError(err error) {
	appErr := apperrors.GetAppError(err)
	c.JSON(appErr.HTTPCode, map[string]interface{}{
		"success": false,
		"error": map[string]interface{}{
			"code":    appErr.Code,
			"message": appErr.Message,
			"details": appErr.Details,
		},
	})
}
