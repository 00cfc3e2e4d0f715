package models

import (
	"time"
)

// Chunk 文档分块表（database向量存储的退化实现使用；Milvus模式下不落库）
type Chunk struct {
	ChunkID    uint      `gorm:"primaryKey;column:chunk_id" json:"chunk_id"`
	UploadID   string    `gorm:"column:upload_id;size:36;not null;index" json:"upload_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Embedding  string    `gorm:"type:text" json:"-"` // JSON编码的向量
	CreateTime time.Time `gorm:"column:create_time;autoCreateTime" json:"create_time"`
}

func (Chunk) TableName() string {
	return "chunks"
}
