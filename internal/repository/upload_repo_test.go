package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/shikhar1verma/chat-contract-pdf/internal/models"
)

func newMockRegistry(t *testing.T) (UploadRegistry, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return NewUploadRepository(db), mock
}

func TestUploadRepositoryCreate(t *testing.T) {
	t.Run("duplicate upload id is rejected", func(t *testing.T) {
		repo, mock := newMockRegistry(t)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "uploads"`).
			WithArgs("abc").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		err := repo.Create(context.Background(), "abc", "contract.pdf")
		assert.ErrorIs(t, err, ErrDuplicateUpload)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("new upload is inserted", func(t *testing.T) {
		repo, mock := newMockRegistry(t)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "uploads"`).
			WithArgs("abc").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(`INSERT INTO "uploads"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(context.Background(), "abc", "contract.pdf")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUploadRepositorySetProgress(t *testing.T) {
	t.Run("updates progress and stage", func(t *testing.T) {
		repo, mock := newMockRegistry(t)

		mock.ExpectExec(`UPDATE "uploads" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SetProgress(context.Background(), "abc", models.StageParsing, "10% - parsing PDF")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row returns not found", func(t *testing.T) {
		repo, mock := newMockRegistry(t)

		mock.ExpectExec(`UPDATE "uploads" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SetProgress(context.Background(), "gone", models.StageComplete, "done")
		assert.ErrorIs(t, err, ErrUploadNotFound)
	})
}

func TestUploadRepositoryGet(t *testing.T) {
	t.Run("returns upload row", func(t *testing.T) {
		repo, mock := newMockRegistry(t)

		now := time.Now()
		mock.ExpectQuery(`SELECT \* FROM "uploads" WHERE upload_id = \$1`).
			WithArgs("abc", 1).
			WillReturnRows(sqlmock.
				NewRows([]string{"upload_id", "filename", "progress", "stage", "create_time", "update_time"}).
				AddRow("abc", "contract.pdf", "Ingestion queued", "queued", now, now))

		upload, err := repo.Get(context.Background(), "abc")
		require.NoError(t, err)
		assert.Equal(t, "abc", upload.UploadID)
		assert.Equal(t, models.StageQueued, upload.Stage)
	})

	t.Run("missing row returns not found", func(t *testing.T) {
		repo, mock := newMockRegistry(t)

		mock.ExpectQuery(`SELECT \* FROM "uploads"`).
			WillReturnRows(sqlmock.NewRows([]string{"upload_id"}))

		_, err := repo.Get(context.Background(), "gone")
		assert.ErrorIs(t, err, ErrUploadNotFound)
	})
}

func TestUploadRepositoryGetProgress(t *testing.T) {
	repo, mock := newMockRegistry(t)

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "uploads"`).
		WillReturnRows(sqlmock.
			NewRows([]string{"upload_id", "filename", "progress", "stage", "create_time", "update_time"}).
			AddRow("abc", "contract.pdf", "60% - generating embeddings", "embedding", now, now))

	progress, err := repo.GetProgress(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "60% - generating embeddings", progress)
}

func TestUploadRepositoryDelete(t *testing.T) {
	t.Run("deletes existing row", func(t *testing.T) {
		repo, mock := newMockRegistry(t)

		mock.ExpectExec(`DELETE FROM "uploads"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), "abc"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row returns not found", func(t *testing.T) {
		repo, mock := newMockRegistry(t)

		mock.ExpectExec(`DELETE FROM "uploads"`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), "gone"), ErrUploadNotFound)
	})
}
