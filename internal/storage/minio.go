package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/shikhar1verma/chat-contract-pdf/internal/config"
	"github.com/shikhar1verma/chat-contract-pdf/internal/logger"
)

// Archiver 原始PDF归档接口。归档是旁路能力，失败不阻塞摄取。
type Archiver interface {
	ArchivePDF(ctx context.Context, uploadID, filePath string) error
	RemovePDF(ctx context.Context, uploadID string) error
}

// NoopArchiver 未配置对象存储时的占位实现
type NoopArchiver struct{}

func (n *NoopArchiver) ArchivePDF(ctx context.Context, uploadID, filePath string) error {
	return nil
}

func (n *NoopArchiver) RemovePDF(ctx context.Context, uploadID string) error {
	return nil
}

// MinioArchiver 把原始PDF按upload_id归档到MinIO桶
type MinioArchiver struct {
	client *minio.Client
	bucket string
}

// NewMinioArchiver 创建MinIO归档客户端并确保桶存在
func NewMinioArchiver(cfg config.ArchiveConfig) (Archiver, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		logger.Info("Created archive bucket", zap.String("bucket", cfg.Bucket))
	}

	return &MinioArchiver{client: client, bucket: cfg.Bucket}, nil
}

func objectName(uploadID string) string {
	return uploadID + ".pdf"
}

// ArchivePDF 上传原始PDF文件
func (a *MinioArchiver) ArchivePDF(ctx context.Context, uploadID, filePath string) error {
	_, err := a.client.FPutObject(ctx, a.bucket, objectName(uploadID), filePath, minio.PutObjectOptions{
		ContentType: "application/pdf",
	})
	if err != nil {
		return fmt.Errorf("failed to archive pdf: %w", err)
	}
	return nil
}

// RemovePDF 删除归档的PDF
func (a *MinioArchiver) RemovePDF(ctx context.Context, uploadID string) error {
	if err := a.client.RemoveObject(ctx, a.bucket, objectName(uploadID), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove archived pdf: %w", err)
	}
	return nil
}
