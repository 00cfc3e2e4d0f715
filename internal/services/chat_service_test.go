package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/shikhar1verma/chat-contract-pdf/internal/errors"
)

// fakeGenerator 记录收到的prompt并返回固定回答
type fakeGenerator struct {
	prompt string
	answer string
	err    error
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.answer, f.err
}

func TestChatServiceAnswer(t *testing.T) {
	ctx := context.Background()

	t.Run("builds prompt from retrieved chunks", func(t *testing.T) {
		registry := newFakeRegistry("u1")
		store := &fakeChunkStore{nearest: []string{"clause 4.2", "clause 9.1"}}
		generator := &fakeGenerator{answer: "The term is 12 months."}
		svc := NewChatService(registry, &fakeEmbedder{}, store, generator, 5)

		answer, err := svc.Answer(ctx, "What is the term?", "u1")
		require.NoError(t, err)
		assert.Equal(t, "The term is 12 months.", answer)
		assert.Contains(t, generator.prompt, "clause 4.2\nclause 9.1")
		assert.Contains(t, generator.prompt, "Question: What is the term?")
	})

	t.Run("unknown upload returns not found", func(t *testing.T) {
		registry := newFakeRegistry()
		svc := NewChatService(registry, &fakeEmbedder{}, &fakeChunkStore{}, &fakeGenerator{}, 5)

		_, err := svc.Answer(ctx, "Anything?", "missing")
		require.Error(t, err)
		appErr := apperrors.GetAppError(err)
		assert.Equal(t, apperrors.ErrCodeUploadNotFound, appErr.Code)
	})

	t.Run("no retrieved chunks still generates an answer", func(t *testing.T) {
		registry := newFakeRegistry("u1")
		generator := &fakeGenerator{answer: "I have no relevant excerpts."}
		svc := NewChatService(registry, &fakeEmbedder{}, &fakeChunkStore{}, generator, 5)

		answer, err := svc.Answer(ctx, "Anything?", "u1")
		require.NoError(t, err)
		assert.Equal(t, "I have no relevant excerpts.", answer)
		assert.Contains(t, generator.prompt, "Question: Anything?")
	})

	t.Run("embedding failure propagates", func(t *testing.T) {
		registry := newFakeRegistry("u1")
		svc := NewChatService(registry, &fakeEmbedder{err: fmt.Errorf("quota exceeded")},
			&fakeChunkStore{}, &fakeGenerator{}, 5)

		_, err := svc.Answer(ctx, "Anything?", "u1")
		assert.Error(t, err)
	})

	t.Run("generation failure propagates", func(t *testing.T) {
		registry := newFakeRegistry("u1")
		generator := &fakeGenerator{err: fmt.Errorf("model overloaded")}
		svc := NewChatService(registry, &fakeEmbedder{}, &fakeChunkStore{}, generator, 5)

		_, err := svc.Answer(ctx, "Anything?", "u1")
		assert.Error(t, err)
	})
}
