package services

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shikhar1verma/chat-contract-pdf/internal/rag"
)

// blockingParser 在Parse里阻塞，用于让摄取任务停在流水线内
type blockingParser struct {
	started chan struct{}
	release chan struct{}
}

func (p *blockingParser) Parse(reader io.ReadSeeker) (string, error) {
	p.started <- struct{}{}
	<-p.release
	return "some extracted text", nil
}

func TestDispatcher(t *testing.T) {
	t.Run("rejects concurrent job for same upload", func(t *testing.T) {
		registry := newFakeRegistry("u1")
		parser := &blockingParser{
			started: make(chan struct{}, 1),
			release: make(chan struct{}),
		}
		svc := NewIngestService(registry, parser, rag.NewChunker(10, 0),
			&fakeEmbedder{}, &fakeChunkStore{}, nil)

		dispatcher, err := NewDispatcher(svc, 2, 4)
		require.NoError(t, err)
		defer dispatcher.Shutdown()

		job := IngestJob{UploadID: "u1", FilePath: writeTempPDF(t)}
		require.NoError(t, dispatcher.Submit(job))

		<-parser.started
		assert.True(t, dispatcher.Running("u1"))
		assert.Error(t, dispatcher.Submit(job))

		close(parser.release)
		assert.Eventually(t, func() bool {
			return !dispatcher.Running("u1")
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("different uploads run independently", func(t *testing.T) {
		registry := newFakeRegistry("u1", "u2")
		svc := NewIngestService(registry, &fakeParser{text: "short text"},
			rag.NewChunker(100, 0), &fakeEmbedder{}, &fakeChunkStore{}, nil)

		dispatcher, err := NewDispatcher(svc, 2, 4)
		require.NoError(t, err)
		defer dispatcher.Shutdown()

		require.NoError(t, dispatcher.Submit(IngestJob{UploadID: "u1", FilePath: writeTempPDF(t)}))
		require.NoError(t, dispatcher.Submit(IngestJob{UploadID: "u2", FilePath: writeTempPDF(t)}))

		assert.Eventually(t, func() bool {
			return !dispatcher.Running("u1") && !dispatcher.Running("u2")
		}, 2*time.Second, 10*time.Millisecond)
	})
}
