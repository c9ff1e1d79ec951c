package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the sqlite file at path and makes sure the
// local_storage table exists.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	// single writer; sqlite serializes anyway
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database %s: %w", path, err)
	}

	createLocalStorageTable := `
	CREATE TABLE IF NOT EXISTS local_storage (
			"namespace" TEXT NOT NULL,
			"key" TEXT NOT NULL,
			"value" TEXT NOT NULL,
			"updated_at" DATETIME NOT NULL,
			PRIMARY KEY ("namespace", "key")
	);`
	if _, err := db.ExecContext(ctx, createLocalStorageTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create local_storage table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) GetItem(ctx context.Context, namespace, key string) (string, bool, error) {
	var value string
	row := s.db.QueryRowContext(ctx,
		`SELECT value FROM local_storage WHERE namespace = ? AND key = ?`, namespace, key)
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get %s/%s: %w", namespace, key, err)
	}
	return value, true, nil
}

func (s *SQLiteStore) SetItem(ctx context.Context, namespace, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO local_storage(namespace, key, value, updated_at) VALUES(?, ?, ?, ?)
		 ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		namespace, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (s *SQLiteStore) RemoveItem(ctx context.Context, namespace, key string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM local_storage WHERE namespace = ? AND key = ?`, namespace, key); err != nil {
		return fmt.Errorf("remove %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
