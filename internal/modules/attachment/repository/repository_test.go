package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return db, mock
}

func TestCommitRequiresPendingRow(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`UPDATE "attachments" SET`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewAttachmentRepository(db).Commit(context.Background(), "evidences/1-a.png", "complaint", uuid.New())

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseUpdatesExistingRow(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`UPDATE "attachments" SET "state"=\$1`).WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewAttachmentRepository(db).Release(context.Background(), "avatars/1-a.png", "avatars")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseInsertsUnknownPath(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`UPDATE "attachments" SET "state"=\$1`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO "attachments"`).WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewAttachmentRepository(db).Release(context.Background(), "avatars/legacy.png", "avatars")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseByOwnerWithoutFiles(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT "path" FROM "attachments"`).WillReturnRows(sqlmock.NewRows([]string{"path"}))

	paths, err := NewAttachmentRepository(db).ReleaseByOwner(context.Background(), "complaint", uuid.New())

	assert.NoError(t, err)
	assert.Empty(t, paths)
	assert.NoError(t, mock.ExpectationsWereMet())
}
