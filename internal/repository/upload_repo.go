package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/shikhar1verma/chat-contract-pdf/internal/models"
	"gorm.io/gorm"
)

// uploadRepository UploadRegistry的gorm实现
type uploadRepository struct {
	db *gorm.DB
}

// NewUploadRepository 创建上传注册表
func NewUploadRepository(db *gorm.DB) UploadRegistry {
	return &uploadRepository{db: db}
}

func (r *uploadRepository) Create(ctx context.Context, uploadID, filename string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Upload{}).
		Where("upload_id = ?", uploadID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check upload existence: %w", err)
	}
	if count > 0 {
		return ErrDuplicateUpload
	}

	upload := models.Upload{
		UploadID: uploadID,
		Filename: filename,
		Stage:    models.StageQueued,
	}
	if err := r.db.WithContext(ctx).Create(&upload).Error; err != nil {
		return fmt.Errorf("failed to create upload: %w", err)
	}
	return nil
}

func (r *uploadRepository) SetProgress(ctx context.Context, uploadID string, stage models.Stage, message string) error {
	result := r.db.WithContext(ctx).Model(&models.Upload{}).
		Where("upload_id = ?", uploadID).
		Updates(map[string]interface{}{
			"progress": message,
			"stage":    string(stage),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update progress: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUploadNotFound
	}
	return nil
}

func (r *uploadRepository) GetProgress(ctx context.Context, uploadID string) (string, error) {
	upload, err := r.Get(ctx, uploadID)
	if err != nil {
		return "", err
	}
	return upload.Progress, nil
}

func (r *uploadRepository) Get(ctx context.Context, uploadID string) (*models.Upload, error) {
	var upload models.Upload
	err := r.db.WithContext(ctx).
		Where("upload_id = ?", uploadID).
		First(&upload).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUploadNotFound
		}
		return nil, fmt.Errorf("failed to load upload: %w", err)
	}
	return &upload, nil
}

func (r *uploadRepository) Delete(ctx context.Context, uploadID string) error {
	result := r.db.WithContext(ctx).
		Where("upload_id = ?", uploadID).
		Delete(&models.Upload{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete upload: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUploadNotFound
	}
	return nil
}
