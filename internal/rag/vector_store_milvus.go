package rag

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

// MilvusOptions Milvus客户端配置
type MilvusOptions struct {
	Address    string
	Username   string
	Password   string
	Collection string
	Database   string
	VectorSize int
	UseTLS     bool
	Timeout    time.Duration
}

type milvusChunkStore struct {
	milvusClient client.Client
	collection   string
	vectorSize   int

	// initMu保护collection的检查/创建/加载序列；多条流水线并发首插时
	// 只允许一个goroutine执行初始化
	initMu sync.Mutex
	loaded bool
}

// NewMilvusChunkStore 创建Milvus向量存储。
// 所有上传共用一个collection，按upload_id字段过滤实现行级隔离。
func NewMilvusChunkStore(opts MilvusOptions) (ChunkStore, error) {
	if opts.Address == "" {
		opts.Address = "localhost:19530"
	}
	if opts.Collection == "" {
		opts.Collection = "pdf_chunks"
	}
	if opts.VectorSize == 0 {
		opts.VectorSize = 1536
	}
	if opts.Database == "" {
		opts.Database = "default"
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	milvusClient, err := client.NewClient(ctx, client.Config{
		Address:       opts.Address,
		DBName:        opts.Database,
		Username:      opts.Username,
		Password:      opts.Password,
		EnableTLSAuth: opts.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create milvus client: %w", err)
	}

	return &milvusChunkStore{
		milvusClient: milvusClient,
		collection:   opts.Collection,
		vectorSize:   opts.VectorSize,
	}, nil
}

func (s *milvusChunkStore) ensureCollection(ctx context.Context) error {
	s.initMu.Lock()
	defer s.initMu.Unlock()

	if s.loaded {
		return nil
	}

	hasCollection, err := s.milvusClient.HasCollection(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if !hasCollection {
		schema := &entity.Schema{
			CollectionName: s.collection,
			Description:    "Embedded PDF chunks scoped by upload_id",
			Fields: []*entity.Field{
				{
					Name:       "chunk_id",
					DataType:   entity.FieldTypeInt64,
					PrimaryKey: true,
					AutoID:     true,
				},
				{
					Name:     "upload_id",
					DataType: entity.FieldTypeVarChar,
					TypeParams: map[string]string{
						"max_length": "64",
					},
				},
				{
					Name:     "content",
					DataType: entity.FieldTypeVarChar,
					TypeParams: map[string]string{
						"max_length": "65535",
					},
				},
				{
					Name:     "vector",
					DataType: entity.FieldTypeFloatVector,
					TypeParams: map[string]string{
						"dim": fmt.Sprintf("%d", s.vectorSize),
					},
				},
			},
		}

		if err := s.milvusClient.CreateCollection(ctx, schema, entity.DefaultShardNumber); err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}

		index, indexErr := vectorIndex()
		if indexErr != nil {
			return fmt.Errorf("failed to create index: %w", indexErr)
		}
		if err := s.milvusClient.CreateIndex(ctx, s.collection, "vector", index, false); err != nil {
			return fmt.Errorf("failed to create vector index: %w", err)
		}
	}

	if err := s.milvusClient.LoadCollection(ctx, s.collection, false); err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}
	s.loaded = true

	return nil
}

// vectorIndex 最近邻检索使用L2距离；HNSW优先，参数不被接受时退回IvfFlat
func vectorIndex() (entity.Index, error) {
	if index, err := entity.NewIndexHNSW(entity.L2, 8, 64); err == nil {
		return index, nil
	}
	return entity.NewIndexIvfFlat(entity.L2, 128)
}

// uploadExpr 构造upload_id过滤表达式；upload_id是UUID，去掉引号防御表达式注入
func uploadExpr(uploadID string) string {
	return fmt.Sprintf(`upload_id == "%s"`, strings.ReplaceAll(uploadID, `"`, ""))
}

func (s *milvusChunkStore) InsertChunk(ctx context.Context, chunk ChunkRecord) error {
	if len(chunk.Embedding) == 0 {
		return fmt.Errorf("embedding is empty")
	}
	if err := s.ensureCollection(ctx); err != nil {
		return err
	}

	uploadIDColumn := entity.NewColumnVarChar("upload_id", []string{chunk.UploadID})
	contentColumn := entity.NewColumnVarChar("content", []string{chunk.Text})
	vectorColumn := entity.NewColumnFloatVector("vector", s.vectorSize, [][]float32{chunk.Embedding})

	_, err := s.milvusClient.Insert(ctx, s.collection, "", uploadIDColumn, contentColumn, vectorColumn)
	if err != nil {
		return fmt.Errorf("milvus insert failed: %w", err)
	}

	return nil
}

func (s *milvusChunkStore) Nearest(ctx context.Context, uploadID string, queryVector []float32, k int) ([]string, error) {
	if len(queryVector) == 0 {
		return nil, nil
	}
	if err := s.ensureCollection(ctx); err != nil {
		return nil, err
	}
	if k <= 0 {
		k = 5
	}

	sp, _ := entity.NewIndexHNSWSearchParam(64)
	searchResults, err := s.milvusClient.Search(
		ctx,
		s.collection,
		[]string{},
		uploadExpr(uploadID),
		[]string{"content"},
		[]entity.Vector{entity.FloatVector(queryVector)},
		"vector",
		entity.L2,
		k,
		sp,
	)
	if err != nil {
		return nil, fmt.Errorf("milvus search failed: %w", err)
	}

	if len(searchResults) == 0 {
		return []string{}, nil
	}
	result := searchResults[0]
	if result.Err != nil {
		return nil, fmt.Errorf("milvus search error: %w", result.Err)
	}
	if result.ResultCount == 0 {
		return []string{}, nil
	}

	// Milvus按距离从近到远返回
	var contents []string
	for _, field := range result.Fields {
		if field.Name() == "content" {
			if col, ok := field.(*entity.ColumnVarChar); ok {
				contents = col.Data()
			}
		}
	}

	texts := make([]string, 0, result.ResultCount)
	for i := 0; i < result.ResultCount && i < len(contents); i++ {
		texts = append(texts, contents[i])
	}
	return texts, nil
}

func (s *milvusChunkStore) DeleteUpload(ctx context.Context, uploadID string) error {
	if err := s.ensureCollection(ctx); err != nil {
		return err
	}

	if err := s.milvusClient.Delete(ctx, s.collection, "", uploadExpr(uploadID)); err != nil {
		return fmt.Errorf("milvus delete failed: %w", err)
	}

	return nil
}

func (s *milvusChunkStore) Ready() bool {
	if s.milvusClient == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := s.milvusClient.ListCollections(ctx)
	return err == nil
}
