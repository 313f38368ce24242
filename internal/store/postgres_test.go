package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"tour-backoffice/internal/common/database"
	apperrors "tour-backoffice/internal/common/errors"
	"tour-backoffice/internal/common/logger"
	"tour-backoffice/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var recordColumns = []string{"id", "data", "created_at", "updated_at"}

func newPostgresRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewPostgresRepository(database.NewPostgresFromDB(db), logger.NewTestLogger(t))
	repo.now = func() time.Time { return time.Date(2024, 7, 15, 9, 0, 0, 0, time.UTC) }
	return repo, mock
}

func TestPostgresRepository_EnsureSchema(t *testing.T) {
	repo, mock := newPostgresRepo(t)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS records`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_List(t *testing.T) {
	repo, mock := newPostgresRepo(t)
	ts := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(selectRecords)).
		WithArgs("suppliers").
		WillReturnRows(sqlmock.NewRows(recordColumns).
			AddRow("s1", []byte(`{"name":"Etosha Lodge"}`), ts, ts).
			AddRow("s2", []byte(`{"name":"Sossus Camp"}`), ts, ts))

	recs, err := repo.List(context.Background(), models.ResourceSuppliers)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "s2", recs[1].ID)
	assert.Equal(t, "Sossus Camp", recs[1].Data["name"])
	assert.Equal(t, models.ResourceSuppliers, recs[0].Resource)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetNotFound(t *testing.T) {
	repo, mock := newPostgresRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectRecord)).
		WithArgs("tours", "missing").
		WillReturnRows(sqlmock.NewRows(recordColumns))

	_, err := repo.Get(context.Background(), models.ResourceTours, "missing")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Create(t *testing.T) {
	repo, mock := newPostgresRepo(t)
	mock.ExpectExec(regexp.QuoteMeta(insertRecord)).
		WithArgs("agents", sqlmock.AnyArg(), []byte(`{"name":"Africa Travel Co"}`), repo.now()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec, err := repo.Create(context.Background(), models.ResourceAgents, map[string]interface{}{
		"name":      "Africa Travel Co",
		"createdAt": "ignored",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, repo.now(), rec.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_CreateManyCommits(t *testing.T) {
	repo, mock := newPostgresRepo(t)

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta(insertRecord))
	prep.ExpectExec().WithArgs("quote-schedule", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WithArgs("quote-schedule", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	recs, err := repo.CreateMany(context.Background(), models.ResourceQuoteSchedule, []map[string]interface{}{
		{"quoteNumber": "Q1"},
		{"quoteNumber": "Q2"},
	})
	require.NoError(t, err)
	assert.Len(t, recs, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_CreateManyRollsBack(t *testing.T) {
	repo, mock := newPostgresRepo(t)

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta(insertRecord))
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	recs, err := repo.CreateMany(context.Background(), models.ResourceQuoteSchedule, []map[string]interface{}{
		{"quoteNumber": "Q1"},
		{"quoteNumber": "Q2"},
	})
	assert.Nil(t, recs)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeDatabaseInsertFailed))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Patch(t *testing.T) {
	repo, mock := newPostgresRepo(t)
	ts := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(patchRecord)).
		WithArgs("suppliers", "s1", []byte(`{"type":"Camp"}`), repo.now()).
		WillReturnRows(sqlmock.NewRows(recordColumns).
			AddRow("s1", []byte(`{"name":"Etosha Lodge","type":"Camp"}`), ts, repo.now()))

	rec, err := repo.Patch(context.Background(), models.ResourceSuppliers, "s1", map[string]interface{}{"type": "Camp"})
	require.NoError(t, err)
	assert.Equal(t, "Camp", rec.Data["type"])
	assert.Equal(t, "Etosha Lodge", rec.Data["name"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Delete(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantCode apperrors.ErrorCode
	}{
		{"deleted", 1, ""},
		{"missing", 0, apperrors.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newPostgresRepo(t)
			mock.ExpectExec(regexp.QuoteMeta(deleteRecord)).
				WithArgs("bookings", "b1").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err := repo.Delete(context.Background(), models.ResourceBookings, "b1")
			if tt.wantCode == "" {
				assert.NoError(t, err)
			} else {
				assert.True(t, apperrors.HasCode(err, tt.wantCode))
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresRepository_QueryFailure(t *testing.T) {
	repo, mock := newPostgresRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectRecords)).
		WithArgs("rates").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.List(context.Background(), models.ResourceRates)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeQueryExecutionFailed))
}
