package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/shikhar1verma/chat-contract-pdf/internal/models"
)

// dbChunkStore 基于Postgres chunks表的向量存储。
// 向量以JSON存在文本列里，检索时对该upload的全部片段做暴力L2扫描。
// 单文档最多几百个片段，线性扫描完全够用，不值得引入pgvector。
type dbChunkStore struct {
	db *gorm.DB
}

// NewDBChunkStore 创建数据库向量存储
func NewDBChunkStore(db *gorm.DB) ChunkStore {
	return &dbChunkStore{db: db}
}

func (s *dbChunkStore) InsertChunk(ctx context.Context, chunk ChunkRecord) error {
	if len(chunk.Embedding) == 0 {
		return fmt.Errorf("embedding is empty")
	}

	payload, err := json.Marshal(chunk.Embedding)
	if err != nil {
		return fmt.Errorf("failed to encode embedding: %w", err)
	}

	record := models.Chunk{
		UploadID:  chunk.UploadID,
		Content:   chunk.Text,
		Embedding: string(payload),
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to insert chunk: %w", err)
	}
	return nil
}

func (s *dbChunkStore) Nearest(ctx context.Context, uploadID string, queryVector []float32, k int) ([]string, error) {
	if len(queryVector) == 0 {
		return nil, nil
	}
	if k <= 0 {
		k = 5
	}

	var records []models.Chunk
	if err := s.db.WithContext(ctx).
		Where("upload_id = ?", uploadID).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load chunks: %w", err)
	}

	type scored struct {
		distance float64
		content  string
	}
	candidates := make([]scored, 0, len(records))
	for _, record := range records {
		var vector []float32
		if err := json.Unmarshal([]byte(record.Embedding), &vector); err != nil {
			continue
		}
		if len(vector) != len(queryVector) {
			continue
		}
		candidates = append(candidates, scored{
			distance: squaredL2(queryVector, vector),
			content:  record.Content,
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
		texts = append(texts, c.content)
	}
	return texts, nil
}

func (s *dbChunkStore) DeleteUpload(ctx context.Context, uploadID string) error {
	if err := s.db.WithContext(ctx).
		Where("upload_id = ?", uploadID).
		Delete(&models.Chunk{}).Error; err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}
	return nil
}

func (s *dbChunkStore) Ready() bool {
	sqlDB, err := s.db.DB()
	if err != nil {
		return false
	}
	return sqlDB.Ping() == nil
}

// squaredL2 平方欧氏距离，排序用途不需要开方
func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
