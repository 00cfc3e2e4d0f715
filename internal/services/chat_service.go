package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	apperrors "github.com/shikhar1verma/chat-contract-pdf/internal/errors"
	"github.com/shikhar1verma/chat-contract-pdf/internal/logger"
	"github.com/shikhar1verma/chat-contract-pdf/internal/metrics"
	"github.com/shikhar1verma/chat-contract-pdf/internal/rag"
	"github.com/shikhar1verma/chat-contract-pdf/internal/repository"
)

// ChatService 基于检索的问答：嵌入问题、召回最近邻片段、拼prompt、生成回答
type ChatService struct {
	registry  repository.UploadRegistry
	embedder  rag.Embedder
	store     rag.ChunkStore
	generator rag.Generator
	topK      int
}

// NewChatService 创建问答服务
func NewChatService(
	registry repository.UploadRegistry,
	embedder rag.Embedder,
	store rag.ChunkStore,
	generator rag.Generator,
	topK int,
) *ChatService {
	if topK <= 0 {
		topK = 5
	}
	return &ChatService{
		registry:  registry,
		embedder:  embedder,
		store:     store,
		generator: generator,
		topK:      topK,
	}
}

// Answer 回答针对某次上传的问题。
// 未检索到片段时仍然调用生成器，让模型自己说明没有相关信息。
func (s *ChatService) Answer(ctx context.Context, question, uploadID string) (string, error) {
	if _, err := s.registry.Get(ctx, uploadID); err != nil {
		if errors.Is(err, repository.ErrUploadNotFound) {
			metrics.ChatRequests.WithLabelValues("not_found").Inc()
			return "", apperrors.NewNotFoundError("upload")
		}
		metrics.ChatRequests.WithLabelValues("error").Inc()
		return "", apperrors.NewStorageError("failed to look up upload", err)
	}

	queryVector, err := s.embedder.EmbedQuery(ctx, question)
	if err != nil {
		metrics.ChatRequests.WithLabelValues("error").Inc()
		return "", err
	}

	chunks, err := s.store.Nearest(ctx, uploadID, queryVector, s.topK)
	if err != nil {
		metrics.ChatRequests.WithLabelValues("error").Inc()
		return "", err
	}
	if len(chunks) == 0 {
		logger.Debug("No chunks retrieved for question",
			zap.String("upload_id", uploadID))
	}

	answer, err := s.generator.Generate(ctx, rag.BuildPrompt(chunks, question))
	if err != nil {
		metrics.ChatRequests.WithLabelValues("error").Inc()
		return "", err
	}

	metrics.ChatRequests.WithLabelValues("success").Inc()
	return answer, nil
}
