package rag

import (
	"context"
	"sort"
	"sync"
)

// memoryChunkStore 进程内向量存储，用于本地开发和测试。
// 进程重启后数据丢失。
type memoryChunkStore struct {
	mu     sync.RWMutex
	chunks map[string][]ChunkRecord
}

// NewMemoryChunkStore 创建内存向量存储
func NewMemoryChunkStore() ChunkStore {
	return &memoryChunkStore{
		chunks: make(map[string][]ChunkRecord),
	}
}

func (s *memoryChunkStore) InsertChunk(ctx context.Context, chunk ChunkRecord) error {
	embedding := make([]float32, len(chunk.Embedding))
	copy(embedding, chunk.Embedding)
	chunk.Embedding = embedding

	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks[chunk.UploadID] = append(s.chunks[chunk.UploadID], chunk)
	return nil
}

func (s *memoryChunkStore) Nearest(ctx context.Context, uploadID string, queryVector []float32, k int) ([]string, error) {
	if len(queryVector) == 0 {
		return nil, nil
	}
	if k <= 0 {
		k = 5
	}

	s.mu.RLock()
	records := s.chunks[uploadID]
	s.mu.RUnlock()

	type scored struct {
		distance float64
		text     string
	}
	candidates := make([]scored, 0, len(records))
	for _, record := range records {
		if len(record.Embedding) != len(queryVector) {
			continue
		}
		candidates = append(candidates, scored{
			distance: squaredL2(queryVector, record.Embedding),
			text:     record.Text,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	texts := make([]string, 0, len(candidates))
	for _, c := range candidates {
		texts = append(texts, c.text)
	}
	return texts, nil
}

func (s *memoryChunkStore) DeleteUpload(ctx context.Context, uploadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.chunks, uploadID)
	return nil
}

func (s *memoryChunkStore) Ready() bool {
	return true
}
