package rag

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	apperrors "github.com/shikhar1verma/chat-contract-pdf/internal/errors"
)

// Embedder 定义文本向量化接口。
// 摄取与检索必须使用同一实现，保证向量维度一致。
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// NoopEmbedder 未配置API key时的占位实现，首次使用即失败
type NoopEmbedder struct{}

func (n *NoopEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, apperrors.NewConfigurationError("embedding provider not configured")
}

func (n *NoopEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return nil, apperrors.NewConfigurationError("embedding provider not configured")
}

func (n *NoopEmbedder) Dimensions() int {
	return 0
}

var embeddingDimensions = map[string]int{
	"text-embedding-3-large": 3072,
	"text-embedding-3-small": 1536,
	"text-embedding-ada-002": 1536,
	"text-embedding-004":     768,
}

// OpenAIEmbedder 通过OpenAI兼容的Embedding API生成向量
type OpenAIEmbedder struct {
	client     *openai.Client
	model      string
	dimensions int
}

// NewOpenAIEmbedder 创建嵌入向量生成器。
// baseURL非空时指向OpenAI兼容端点（如Gemini的兼容层）。
func NewOpenAIEmbedder(apiKey, baseURL, model string) Embedder {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return &NoopEmbedder{}
	}
	if model == "" {
		model = "text-embedding-3-small"
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	client := openai.NewClientWithConfig(cfg)

	dims, ok := embeddingDimensions[model]
	if !ok {
		dims = 1536
	}

	return &OpenAIEmbedder{
		client:     client,
		model:      model,
		dimensions: dims,
	}
}

// EmbedBatch 一次请求嵌入整批文本，返回与输入同序的向量。
// 维度一致性在此处校验，向量存储不再重复检查。
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: texts,
	})
	if err != nil {
		return nil, apperrors.NewExternalServiceError("embedding", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, apperrors.NewExternalServiceError("embedding",
			fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data)))
	}

	vectors := make([][]float32, len(resp.Data))
	for i, item := range resp.Data {
		if len(item.Embedding) != e.dimensions {
			return nil, apperrors.NewExternalServiceError("embedding",
				fmt.Errorf("embedding %d has dimension %d, want %d", i, len(item.Embedding), e.dimensions))
		}
		vector := make([]float32, len(item.Embedding))
		copy(vector, item.Embedding)
		vectors[i] = vector
	}
	return vectors, nil
}

// EmbedQuery 嵌入单条查询文本
func (e *OpenAIEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, apperrors.NewExternalServiceError("embedding",
			fmt.Errorf("embedding response empty"))
	}
	return vectors[0], nil
}

func (e *OpenAIEmbedder) Dimensions() int {
	return e.dimensions
}
