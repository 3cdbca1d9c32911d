package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arthousehq/photofolio/pkg/photofolio"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements photofolio.MetadataStore using PostgreSQL. Uniqueness
// of image_key is enforced by the primary key; Upsert is a single atomic
// INSERT ... ON CONFLICT statement.
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// Schema is the DDL for the backing table, applied by deployment tooling.
const Schema = `
CREATE TABLE IF NOT EXISTS image_record (
    image_key      TEXT PRIMARY KEY,
    url            TEXT NOT NULL,
    storage_handle TEXT NOT NULL DEFAULT '',
    original_name  TEXT NOT NULL DEFAULT '',
    size_bytes     BIGINT NOT NULL DEFAULT 0,
    mime_type      TEXT NOT NULL DEFAULT '',
    uploaded_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS image_record_uploaded_at_idx ON image_record (uploaded_at DESC);
`

// EnsureSchema creates the backing table when it does not exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, Schema); err != nil {
		return r.wrapError("ensure schema", err)
	}
	return nil
}

func (r *Repository) wrapError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}

func (r *Repository) Get(ctx context.Context, imageKey string) (*photofolio.ImageRecord, error) {
	query := `
        SELECT image_key, url, storage_handle, original_name, size_bytes, mime_type, uploaded_at
        FROM image_record WHERE image_key = $1`

	var record photofolio.ImageRecord
	err := r.db.QueryRow(ctx, query, imageKey).Scan(
		&record.ImageKey, &record.URL, &record.StorageHandle,
		&record.OriginalName, &record.SizeBytes, &record.MimeType,
		&record.UploadedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, photofolio.ErrImageNotFound
		}
		return nil, r.wrapError("get image", err)
	}

	return &record, nil
}

func (r *Repository) Upsert(ctx context.Context, record *photofolio.ImageRecord) error {
	query := `
        INSERT INTO image_record (
            image_key, url, storage_handle, original_name, size_bytes, mime_type, uploaded_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (image_key) DO UPDATE SET
            url            = EXCLUDED.url,
            storage_handle = EXCLUDED.storage_handle,
            original_name  = EXCLUDED.original_name,
            size_bytes     = EXCLUDED.size_bytes,
            mime_type      = EXCLUDED.mime_type,
            uploaded_at    = EXCLUDED.uploaded_at`

	_, err := r.db.Exec(ctx, query,
		record.ImageKey, record.URL, record.StorageHandle,
		record.OriginalName, record.SizeBytes, record.MimeType,
		record.UploadedAt)
	if err != nil {
		return r.wrapError("upsert image", err)
	}

	return nil
}

func (r *Repository) Delete(ctx context.Context, imageKey string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM image_record WHERE image_key = $1`, imageKey)
	if err != nil {
		return r.wrapError("delete image", err)
	}
	if tag.RowsAffected() == 0 {
		return photofolio.ErrImageNotFound
	}
	return nil
}

func (r *Repository) List(ctx context.Context) ([]*photofolio.ImageRecord, error) {
	query := `
        SELECT image_key, url, storage_handle, original_name, size_bytes, mime_type, uploaded_at
        FROM image_record ORDER BY uploaded_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.wrapError("list images", err)
	}
	defer rows.Close()

	result := make([]*photofolio.ImageRecord, 0)
	for rows.Next() {
		var record photofolio.ImageRecord
		if err := rows.Scan(
			&record.ImageKey, &record.URL, &record.StorageHandle,
			&record.OriginalName, &record.SizeBytes, &record.MimeType,
			&record.UploadedAt); err != nil {
			return nil, r.wrapError("scan image", err)
		}
		result = append(result, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, r.wrapError("list images", err)
	}

	return result, nil
}
