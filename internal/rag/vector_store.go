package rag

import "context"

// ChunkRecord 一条已嵌入的文本片段
type ChunkRecord struct {
	UploadID  string
	Text      string
	Embedding []float32
}

// ChunkStore 向量存储抽象。
// 所有操作都以upload_id为作用域；Nearest按L2距离从近到远返回片段文本，
// 结果不足k条或完全为空都不是错误。
type ChunkStore interface {
	InsertChunk(ctx context.Context, chunk ChunkRecord) error
	Nearest(ctx context.Context, uploadID string, queryVector []float32, k int) ([]string, error)
	DeleteUpload(ctx context.Context, uploadID string) error
	Ready() bool
}
