package services

import (
	"context"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	apperrors "github.com/shikhar1verma/chat-contract-pdf/internal/errors"
	"github.com/shikhar1verma/chat-contract-pdf/internal/logger"
)

// Dispatcher 摄取任务队列。固定大小的worker池异步执行流水线，
// 同一upload_id同时最多一个在跑。
type Dispatcher struct {
	pool    *ants.Pool
	ingest  *IngestService
	mu      sync.Mutex
	running map[string]struct{}
}

// NewDispatcher 创建任务分发器。workers为并发worker数，queueSize为等待队列长度。
func NewDispatcher(ingest *IngestService, workers, queueSize int) (*Dispatcher, error) {
	if workers <= 0 {
		workers = 4
	}
	if queueSize <= 0 {
		queueSize = 16
	}

	pool, err := ants.NewPool(workers,
		ants.WithMaxBlockingTasks(queueSize),
		ants.WithNonblocking(false))
	if err != nil {
		return nil, err
	}

	return &Dispatcher{
		pool:    pool,
		ingest:  ingest,
		running: make(map[string]struct{}),
	}, nil
}

// Submit 把摄取任务交给worker池。队列满或同upload已在执行时返回错误，
// 调用方负责在此情况下清理临时文件和注册表行。
func (d *Dispatcher) Submit(job IngestJob) error {
	d.mu.Lock()
	if _, ok := d.running[job.UploadID]; ok {
		d.mu.Unlock()
		return apperrors.NewBusinessError(apperrors.ErrCodeConflict,
			"ingestion already in progress for this upload")
	}
	d.running[job.UploadID] = struct{}{}
	d.mu.Unlock()

	err := d.pool.Submit(func() {
		defer func() {
			d.mu.Lock()
			delete(d.running, job.UploadID)
			d.mu.Unlock()
		}()
		// 任务生命周期独立于提交它的HTTP请求
		_ = d.ingest.Run(context.Background(), job)
	})
	if err != nil {
		d.mu.Lock()
		delete(d.running, job.UploadID)
		d.mu.Unlock()
		logger.Error("Failed to submit ingest job",
			zap.String("upload_id", job.UploadID),
			zap.Error(err))
		return apperrors.NewBusinessError(apperrors.ErrCodeTooManyRequests,
			"ingestion queue is full, try again later")
	}

	return nil
}

// Running 指定upload是否有摄取任务在执行
func (d *Dispatcher) Running(uploadID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.running[uploadID]
	return ok
}

// Shutdown 停止worker池，等待在跑任务结束
func (d *Dispatcher) Shutdown() {
	d.pool.Release()
}
