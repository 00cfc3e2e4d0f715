package controllers

import (
	"encoding/json"
	"net/http"
)

// ChatController 问答端点
type ChatController struct {
	BaseController
}

// ChatRequest 问答请求体
type ChatRequest struct {
	Question string `json:"question" validate:"required,min=1"`
	UploadID string `json:"upload_id" validate:"required,uuid4"`
}

// Chat 针对一次上传的文档提问
// @router /api/chat [post]
func (c *ChatController) Chat() {
	var req ChatRequest
	if err := json.Unmarshal(c.Ctx.Input.RequestBody, &req); err != nil {
		c.JSONError(http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		c.JSONError(http.StatusBadRequest, "question and a valid upload_id are required")
		return
	}

	answer, err := deps.Chat.Answer(c.Ctx.Request.Context(), req.Question, req.UploadID)
	if err != nil {
		c.JSONAppError(err)
		return
	}

	c.JSONSuccess(map[string]interface{}{
		"answer": answer,
	})
}
