package store

import (
	"context"
	"database/sql"
	"errors"
)

// SQLiteBlobs stores blobs in the saves table created by the migrations.
type SQLiteBlobs struct {
	db *sql.DB
}

func NewSQLiteBlobs(db *sql.DB) *SQLiteBlobs {
	return &SQLiteBlobs{db: db}
}

func (b *SQLiteBlobs) Get(ctx context.Context, key string) ([]byte, error) {
	var data string
	err := b.db.QueryRowContext(ctx, `SELECT data FROM saves WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(data), nil
}

func (b *SQLiteBlobs) Put(ctx context.Context, key string, data []byte) error {
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO saves (key, data, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, key, string(data))
	return err
}
