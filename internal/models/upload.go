package models

import (
	"time"
)

// Stage 摄取流水线阶段（结构化状态，便于测试状态机而无需解析进度文本）
type Stage string

const (
	StageQueued    Stage = "queued"
	StageParsing   Stage = "parsing"
	StageSplitting Stage = "splitting"
	StageEmbedding Stage = "embedding"
	StageIndexing  Stage = "indexing"
	StageComplete  Stage = "complete"
	StageFailed    Stage = "failed"
)

// Terminal 是否为终态
func (s Stage) Terminal() bool {
	return s == StageComplete || s == StageFailed
}

// Upload 上传任务表，每个摄取任务一行
type Upload struct {
	UploadID   string    `gorm:"primaryKey;column:upload_id;size:36" json:"upload_id"`
	Filename   string    `gorm:"size:500;not null" json:"filename"`
	Progress   string    `gorm:"type:text" json:"progress"`
	Stage      Stage     `gorm:"size:20;default:'queued'" json:"stage"`
	CreateTime time.Time `gorm:"column:create_time;autoCreateTime" json:"create_time"`
	UpdateTime time.Time `gorm:"column:update_time;autoUpdateTime" json:"update_time"`
}

func (Upload) TableName() string {
	return "uploads"
}
