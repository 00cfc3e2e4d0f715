package rag

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	apperrors "github.com/shikhar1verma/chat-contract-pdf/internal/errors"
)

// Generator 生成式回答客户端的窄接口
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// NoopGenerator 未配置API key时的占位实现
type NoopGenerator struct{}

func (n *NoopGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return "", apperrors.NewConfigurationError("generation provider not configured")
}

// OpenAIGenerator 通过OpenAI兼容的Chat Completion API生成回答
type OpenAIGenerator struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewOpenAIGenerator 创建生成式回答客户端
func NewOpenAIGenerator(apiKey, baseURL, model string, maxTokens int, temperature float64) Generator {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return &NoopGenerator{}
	}
	if model == "" {
		model = "gpt-4o-mini"
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAIGenerator{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		maxTokens:   maxTokens,
		temperature: float32(temperature),
	}
}

// Generate 返回模型的文本回答（不做任何后处理）
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	})
	if err != nil {
		return "", apperrors.NewExternalServiceError("generation", err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.NewExternalServiceError("generation",
			fmt.Errorf("completion response empty"))
	}

	return resp.Choices[0].Message.Content, nil
}
