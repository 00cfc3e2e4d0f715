package repository

import (
	"context"
	"errors"

	"github.com/shikhar1verma/chat-contract-pdf/internal/models"
)

// 注册表哨兵错误
var (
	// ErrUploadNotFound 指定upload_id不存在
	ErrUploadNotFound = errors.New("upload not found")
	// ErrDuplicateUpload upload_id已存在（随机UUID下不应出现）
	ErrDuplicateUpload = errors.New("duplicate upload id")
)

// UploadRegistry 上传注册表：每个摄取任务一行
// SetProgress 在行不存在时返回 ErrUploadNotFound（不是静默no-op）；
// 流水线把这种情况当作警告处理，因为删除可能与摄取并发发生。
type UploadRegistry interface {
	Create(ctx context.Context, uploadID, filename string) error
	SetProgress(ctx context.Context, uploadID string, stage models.Stage, message string) error
	GetProgress(ctx context.Context, uploadID string) (string, error)
	Get(ctx context.Context, uploadID string) (*models.Upload, error)
	Delete(ctx context.Context, uploadID string) error
}
