package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tour-backoffice/internal/common/database"
	apperrors "tour-backoffice/internal/common/errors"
	"tour-backoffice/internal/common/logger"
	"tour-backoffice/internal/models"

	"github.com/google/uuid"
)

const createRecordsTable = `
CREATE TABLE IF NOT EXISTS records (
	seq        BIGSERIAL,
	resource   TEXT        NOT NULL,
	id         TEXT        NOT NULL,
	data       JSONB       NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (resource, id)
)`

const (
	selectRecords = `SELECT id, data, created_at, updated_at FROM records WHERE resource = $1 ORDER BY seq`
	selectRecord  = `SELECT id, data, created_at, updated_at FROM records WHERE resource = $1 AND id = $2`
	insertRecord  = `INSERT INTO records (resource, id, data, created_at, updated_at) VALUES ($1, $2, $3, $4, $4)`
	patchRecord   = `UPDATE records SET data = data || $3::jsonb, updated_at = $4 WHERE resource = $1 AND id = $2 RETURNING id, data, created_at, updated_at`
	deleteRecord  = `DELETE FROM records WHERE resource = $1 AND id = $2`
)

// PostgresRepository stores every resource in one JSONB table.
type PostgresRepository struct {
	client *database.PostgresClient
	logger logger.Logger
	now    func() time.Time
}

func NewPostgresRepository(client *database.PostgresClient, log logger.Logger) *PostgresRepository {
	return &PostgresRepository{
		client: client,
		logger: log.WithFields(map[string]interface{}{"component": "postgres-repository"}),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// EnsureSchema creates the records table when it is missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.client.DB.ExecContext(ctx, createRecordsTable); err != nil {
		return apperrors.NewQueryExecutionFailedError("ensure schema", err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, resource models.Resource) ([]Record, error) {
	rows, err := r.client.DB.QueryContext(ctx, selectRecords, string(resource))
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list "+string(resource), err)
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows, resource)
		if err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("list "+string(resource), err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list "+string(resource), err)
	}
	return out, nil
}

func (r *PostgresRepository) Get(ctx context.Context, resource models.Resource, id string) (*Record, error) {
	rec, err := scanRecord(r.client.DB.QueryRowContext(ctx, selectRecord, string(resource), id), resource)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(string(resource), id)
	}
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("get "+string(resource), err)
	}
	return rec, nil
}

func (r *PostgresRepository) Create(ctx context.Context, resource models.Resource, data map[string]interface{}) (*Record, error) {
	rec := r.newRecord(resource, data)
	payload, err := json.Marshal(rec.Data)
	if err != nil {
		return nil, apperrors.NewDatabaseInsertFailedError(err)
	}

	if _, err := r.client.DB.ExecContext(ctx, insertRecord, string(resource), rec.ID, payload, rec.CreatedAt); err != nil {
		return nil, apperrors.NewDatabaseInsertFailedError(err)
	}

	r.logger.Debug("record created", map[string]interface{}{
		"resource": resource,
		"id":       rec.ID,
	})
	return rec, nil
}

func (r *PostgresRepository) CreateMany(ctx context.Context, resource models.Resource, docs []map[string]interface{}) ([]Record, error) {
	out := make([]Record, 0, len(docs))

	err := r.client.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, insertRecord)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, doc := range docs {
			rec := r.newRecord(resource, doc)
			payload, err := json.Marshal(rec.Data)
			if err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx, string(resource), rec.ID, payload, rec.CreatedAt); err != nil {
				return err
			}
			out = append(out, *rec)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.NewDatabaseInsertFailedError(err)
	}

	r.logger.Info("records created", map[string]interface{}{
		"resource": resource,
		"count":    len(out),
	})
	return out, nil
}

func (r *PostgresRepository) Patch(ctx context.Context, resource models.Resource, id string, data map[string]interface{}) (*Record, error) {
	payload, err := json.Marshal(stripReserved(data))
	if err != nil {
		return nil, apperrors.NewInvalidArgumentError("data", err.Error())
	}

	row := r.client.DB.QueryRowContext(ctx, patchRecord, string(resource), id, payload, r.now())
	rec, err := scanRecord(row, resource)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(string(resource), id)
	}
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("patch "+string(resource), err)
	}
	return rec, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, resource models.Resource, id string) error {
	res, err := r.client.DB.ExecContext(ctx, deleteRecord, string(resource), id)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("delete "+string(resource), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("delete "+string(resource), err)
	}
	if n == 0 {
		return apperrors.NewNotFoundError(string(resource), id)
	}
	return nil
}

func (r *PostgresRepository) newRecord(resource models.Resource, data map[string]interface{}) *Record {
	now := r.now()
	return &Record{
		ID:        uuid.New().String(),
		Resource:  resource,
		Data:      stripReserved(data),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner, resource models.Resource) (*Record, error) {
	var (
		rec     = Record{Resource: resource}
		payload []byte
	)
	if err := row.Scan(&rec.ID, &payload, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, &rec.Data); err != nil {
		return nil, fmt.Errorf("decode record %s: %w", rec.ID, err)
	}
	if rec.Data == nil {
		rec.Data = map[string]interface{}{}
	}
	return &rec, nil
}
