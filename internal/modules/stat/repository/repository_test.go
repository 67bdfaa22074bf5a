package repository

import (
	"context"
	"testing"

	"anoa.com/complainthub/internal/entity"
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

func TestCountUsers(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	total, err := NewStatRepository(db).CountUsers(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByStatus(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT current_status, count\(\*\) AS total FROM "complaints" GROUP BY "current_status"`).
		WillReturnRows(sqlmock.NewRows([]string{"current_status", "total"}).
			AddRow("Submitted", 4).
			AddRow("Finished", 2))

	counts, err := NewStatRepository(db).CountByStatus(context.Background())

	require.NoError(t, err)
	assert.Equal(t, map[entity.ComplaintStatus]int64{entity.StatusSubmitted: 4, entity.StatusFinished: 2}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountPerCategoryLeftJoin(t *testing.T) {
	db, mock := newMockDB(t)
	jalan, air := uuid.New(), uuid.New()
	mock.ExpectQuery(`SELECT categories.id, categories.name, count\(complaints.id\) AS total FROM "categories" LEFT JOIN complaints ON complaints.category_id = categories.id GROUP BY categories.id, categories.name ORDER BY categories.name asc`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "total"}).
			AddRow(air.String(), "Air Bersih", 0).
			AddRow(jalan.String(), "Jalan", 3))

	rows, err := NewStatRepository(db).CountPerCategory(context.Background())

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, CategoryCount{ID: air, Name: "Air Bersih", Total: 0}, rows[0])
	assert.Equal(t, int64(3), rows[1].Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
