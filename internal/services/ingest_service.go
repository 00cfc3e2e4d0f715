package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/shikhar1verma/chat-contract-pdf/internal/errors"
	"github.com/shikhar1verma/chat-contract-pdf/internal/logger"
	"github.com/shikhar1verma/chat-contract-pdf/internal/metrics"
	"github.com/shikhar1verma/chat-contract-pdf/internal/models"
	"github.com/shikhar1verma/chat-contract-pdf/internal/rag"
	"github.com/shikhar1verma/chat-contract-pdf/internal/repository"
	"github.com/shikhar1verma/chat-contract-pdf/internal/storage"
)

// IngestJob 一次摄取任务。FilePath指向临时PDF文件，
// 无论成功失败都由流水线负责删除。
type IngestJob struct {
	UploadID string
	Filename string
	FilePath string
}

// IngestService PDF摄取流水线：解析、清洗、切分、嵌入、索引。
// 每个阶段开始时更新注册表进度，索引阶段按完成比例报告中间进度。
type IngestService struct {
	registry repository.UploadRegistry
	parser   rag.DocumentParser
	chunker  *rag.Chunker
	embedder rag.Embedder
	store    rag.ChunkStore
	archiver storage.Archiver
}

// NewIngestService 创建摄取流水线
func NewIngestService(
	registry repository.UploadRegistry,
	parser rag.DocumentParser,
	chunker *rag.Chunker,
	embedder rag.Embedder,
	store rag.ChunkStore,
	archiver storage.Archiver,
) *IngestService {
	if archiver == nil {
		archiver = &storage.NoopArchiver{}
	}
	return &IngestService{
		registry: registry,
		parser:   parser,
		chunker:  chunker,
		embedder: embedder,
		store:    store,
		archiver: archiver,
	}
}

// Run 执行完整摄取流水线。
// 失败时把错误写入进度（"Error: ..."前缀）并返回；临时文件总是被删除。
func (s *IngestService) Run(ctx context.Context, job IngestJob) error {
	started := time.Now()
	defer func() {
		if err := os.Remove(job.FilePath); err != nil && !os.IsNotExist(err) {
			logger.Warn("Failed to remove temp file",
				zap.String("upload_id", job.UploadID),
				zap.String("path", job.FilePath),
				zap.Error(err))
		}
	}()

	if err := s.run(ctx, job); err != nil {
		s.setProgress(ctx, job.UploadID, models.StageFailed, "Error: "+errorMessage(err))
		metrics.IngestDocuments.WithLabelValues("failure").Inc()
		logger.Error("Ingestion failed",
			zap.String("upload_id", job.UploadID),
			zap.String("filename", job.Filename),
			zap.Error(err))
		return err
	}

	metrics.IngestDocuments.WithLabelValues("success").Inc()
	metrics.IngestDuration.Observe(time.Since(started).Seconds())
	logger.Info("Ingestion complete",
		zap.String("upload_id", job.UploadID),
		zap.String("filename", job.Filename),
		zap.Duration("elapsed", time.Since(started)))
	return nil
}

func (s *IngestService) run(ctx context.Context, job IngestJob) error {
	s.setProgress(ctx, job.UploadID, models.StageParsing, "10% - parsing PDF")

	file, err := os.Open(job.FilePath)
	if err != nil {
		return apperrors.NewStorageError("failed to open uploaded file", err)
	}
	text, err := s.parser.Parse(file)
	file.Close()
	if err != nil {
		return err
	}

	text = rag.Sanitize(text)

	s.setProgress(ctx, job.UploadID, models.StageSplitting, "40% - splitting into chunks")
	chunks := s.chunker.Split(text)
	if len(chunks) == 0 {
		return apperrors.NewBusinessError(apperrors.ErrCodeInvalidFileFormat,
			"no extractable text found in PDF")
	}

	s.setProgress(ctx, job.UploadID, models.StageEmbedding, "60% - generating embeddings")
	vectors, err := s.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return err
	}
	if len(vectors) != len(chunks) {
		return apperrors.NewExternalServiceError("embedding",
			fmt.Errorf("got %d vectors for %d chunks", len(vectors), len(chunks)))
	}

	total := len(chunks)
	milestones := indexingMilestones(total)
	for i := range chunks {
		if err := s.store.InsertChunk(ctx, rag.ChunkRecord{
			UploadID:  job.UploadID,
			Text:      chunks[i],
			Embedding: vectors[i],
		}); err != nil {
			return err
		}
		metrics.IngestChunks.Inc()

		done := i + 1
		if milestones[done] {
			pct := 60 + done*30/total
			s.setProgress(ctx, job.UploadID, models.StageIndexing,
				fmt.Sprintf("%d%% - indexing chunks", pct))
		}
	}

	// 归档是旁路，失败只记日志
	if err := s.archiver.ArchivePDF(ctx, job.UploadID, job.FilePath); err != nil {
		logger.Warn("Failed to archive PDF",
			zap.String("upload_id", job.UploadID),
			zap.Error(err))
	}

	s.setProgress(ctx, job.UploadID, models.StageComplete,
		"100% - ingestion complete, ready for chat")
	return nil
}

// indexingMilestones 索引阶段在完成1/4、1/2、3/4时各报告一次进度
func indexingMilestones(total int) map[int]bool {
	milestones := make(map[int]bool, 3)
	for _, q := range []int{1, 2, 3} {
		done := total * q / 4
		if done > 0 && done < total {
			milestones[done] = true
		}
	}
	return milestones
}

// setProgress 更新进度；行不存在说明上传已被并发重置，降级为警告
func (s *IngestService) setProgress(ctx context.Context, uploadID string, stage models.Stage, message string) {
	if err := s.registry.SetProgress(ctx, uploadID, stage, message); err != nil {
		logger.Warn("Failed to update progress",
			zap.String("upload_id", uploadID),
			zap.String("stage", string(stage)),
			zap.Error(err))
	}
}

// Reset 删除一次上传的全部痕迹：先删向量片段，再删归档文件，最后删注册表行。
// upload_id不存在时返回未找到错误。
func (s *IngestService) Reset(ctx context.Context, uploadID string) error {
	if _, err := s.registry.Get(ctx, uploadID); err != nil {
		if errors.Is(err, repository.ErrUploadNotFound) {
			return apperrors.NewNotFoundError("upload")
		}
		return apperrors.NewStorageError("failed to look up upload", err)
	}

	if err := s.store.DeleteUpload(ctx, uploadID); err != nil {
		return apperrors.NewStorageError("failed to delete indexed chunks", err)
	}

	if err := s.archiver.RemovePDF(ctx, uploadID); err != nil {
		logger.Warn("Failed to remove archived PDF",
			zap.String("upload_id", uploadID),
			zap.Error(err))
	}

	if err := s.registry.Delete(ctx, uploadID); err != nil {
		if errors.Is(err, repository.ErrUploadNotFound) {
			// 并发重置，片段已清空，当成功处理
			return nil
		}
		return apperrors.NewStorageError("failed to delete upload record", err)
	}

	logger.Info("Upload reset", zap.String("upload_id", uploadID))
	return nil
}

// errorMessage 暴露给用户的错误文本，取AppError的Message而非内部细节
func errorMessage(err error) string {
	if appErr, ok := err.(*apperrors.AppError); ok {
		return appErr.Message
	}
	return err.Error()
}
