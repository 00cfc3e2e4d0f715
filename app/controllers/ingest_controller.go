package controllers

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/shikhar1verma/chat-contract-pdf/internal/errors"
	"github.com/shikhar1verma/chat-contract-pdf/internal/logger"
	"github.com/shikhar1verma/chat-contract-pdf/internal/models"
	"github.com/shikhar1verma/chat-contract-pdf/internal/services"
)

// IngestController 摄取相关端点
type IngestController struct {
	BaseController
}

// Ingest 接收PDF上传，注册任务并排队异步摄取
// @router /api/ingest [post]
func (c *IngestController) Ingest() {
	file, header, err := c.GetFile("file")
	if err != nil {
		c.JSONError(http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	// 校验在创建任何状态之前完成，拒绝的请求不留痕迹
	if msg := validateUpload(header.Header.Get("Content-Type"),
		header.Size, deps.Config.Ingest.MaxUploadMB); msg != "" {
		c.JSONError(http.StatusBadRequest, msg)
		return
	}

	uploadID := uuid.NewString()
	ctx := c.Ctx.Request.Context()

	if err := deps.Registry.Create(ctx, uploadID, header.Filename); err != nil {
		c.JSONAppError(apperrors.NewStorageError("failed to register upload", err))
		return
	}
	if err := deps.Registry.SetProgress(ctx, uploadID, models.StageQueued, "Ingestion queued"); err != nil {
		logger.Warn("Failed to set initial progress",
			zap.String("upload_id", uploadID), zap.Error(err))
	}

	tmp, err := os.CreateTemp("", "ingest-*.pdf")
	if err != nil {
		c.cleanupFailedSubmit(uploadID, "")
		c.JSONAppError(apperrors.NewStorageError("failed to create temp file", err))
		return
	}
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		c.cleanupFailedSubmit(uploadID, tmp.Name())
		c.JSONAppError(apperrors.NewStorageError("failed to save uploaded file", err))
		return
	}
	if err := tmp.Close(); err != nil {
		c.cleanupFailedSubmit(uploadID, tmp.Name())
		c.JSONAppError(apperrors.NewStorageError("failed to save uploaded file", err))
		return
	}

	job := services.IngestJob{
		UploadID: uploadID,
		Filename: header.Filename,
		FilePath: tmp.Name(),
	}
	if err := deps.Dispatcher.Submit(job); err != nil {
		c.cleanupFailedSubmit(uploadID, tmp.Name())
		c.JSONAppError(err)
		return
	}

	logger.Info("Ingestion queued",
		zap.String("upload_id", uploadID),
		zap.String("filename", header.Filename),
		zap.Int64("size", header.Size))

	c.JSONSuccess(map[string]interface{}{
		"upload_id": uploadID,
		"progress":  "Ingestion queued",
	})
}

// validateUpload 上传前置校验，只认Content-Type不认扩展名，返回空串表示通过
func validateUpload(contentType string, size, maxMB int64) string {
	if contentType != "application/pdf" {
		return "Only PDF files allowed"
	}
	if size > maxMB*1024*1024 {
		return fmt.Sprintf("File too large (> %d MB)", maxMB)
	}
	return ""
}

// cleanupFailedSubmit 入队失败时撤销已创建的状态
func (c *IngestController) cleanupFailedSubmit(uploadID, tmpPath string) {
	ctx := c.Ctx.Request.Context()
	if tmpPath != "" {
		if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
			logger.Warn("Failed to remove temp file", zap.String("path", tmpPath), zap.Error(err))
		}
	}
	if err := deps.Registry.Delete(ctx, uploadID); err != nil {
		logger.Warn("Failed to remove upload record",
			zap.String("upload_id", uploadID), zap.Error(err))
	}
}

// Status 查询摄取进度
// @router /api/status/:upload_id [get]
func (c *IngestController) Status() {
	uploadID := c.Ctx.Input.Param(":upload_id")
	if uploadID == "" {
		c.JSONError(http.StatusBadRequest, "upload_id is required")
		return
	}

	progress, err := deps.Registry.GetProgress(c.Ctx.Request.Context(), uploadID)
	if err != nil {
		c.JSONError(http.StatusNotFound, "upload_id not found")
		return
	}

	c.JSONSuccess(map[string]interface{}{
		"progress": progress,
	})
}

// Reset 删除一次上传的全部数据
// @router /api/reset/:upload_id [delete]
func (c *IngestController) Reset() {
	uploadID := c.Ctx.Input.Param(":upload_id")
	if uploadID == "" {
		c.JSONError(http.StatusBadRequest, "upload_id is required")
		return
	}

	if err := deps.Ingest.Reset(c.Ctx.Request.Context(), uploadID); err != nil {
		appErr := apperrors.GetAppError(err)
		if appErr.Code == apperrors.ErrCodeUploadNotFound {
			c.JSONError(http.StatusNotFound,
				fmt.Sprintf("Document with upload_id %s not found", uploadID))
			return
		}
		c.JSONAppError(err)
		return
	}

	c.JSONSuccess(map[string]interface{}{
		"status":    "success",
		"message":   "Document deleted successfully",
		"upload_id": uploadID,
	})
}
