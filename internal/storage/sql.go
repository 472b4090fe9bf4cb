package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"storefront-web/internal/logger"

	"go.uber.org/zap"
)

const (
	DialectPostgres = "postgres"
	DialectMySQL    = "mysql"
)

type queries struct {
	get    string
	upsert string
	remove string
}

var dialectQueries = map[string]queries{
	DialectPostgres: {
		get: `
			SELECT value
			FROM visitor_state
			WHERE visitor_id = $1 AND key = $2
		`,
		upsert: `
			INSERT INTO visitor_state (visitor_id, key, value, updated_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (visitor_id, key)
			DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
		`,
		remove: `
			DELETE FROM visitor_state
			WHERE visitor_id = $1 AND key = $2
		`,
	},
	DialectMySQL: {
		get: "SELECT value FROM visitor_state WHERE visitor_id = ? AND `key` = ?",
		upsert: "INSERT INTO visitor_state (visitor_id, `key`, value, updated_at) VALUES (?, ?, ?, ?) " +
			"ON DUPLICATE KEY UPDATE value = VALUES(value), updated_at = VALUES(updated_at)",
		remove: "DELETE FROM visitor_state WHERE visitor_id = ? AND `key` = ?",
	},
}

// SQLStore keeps visitor state in the visitor_state table.
type SQLStore struct {
	db  *sql.DB
	q   queries
	now func() time.Time
}

func NewSQLStore(db *sql.DB, dialect string) (*SQLStore, error) {
	q, ok := dialectQueries[dialect]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, dialect)
	}
	return &SQLStore{db: db, q: q, now: time.Now}, nil
}

func (s *SQLStore) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, s.q.get, namespace, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("query failed",
			zap.String("repo", "VisitorState"),
			zap.String("method", "Get"),
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, err
	}
	return value, nil
}

func (s *SQLStore) Set(ctx context.Context, namespace, key string, value []byte) error {
	if namespace == "" {
		return ErrMissingNamespace
	}

	if _, err := s.db.ExecContext(ctx, s.q.upsert, namespace, key, value, s.now().UTC()); err != nil {
		logger.FromCtx(ctx).Error("upsert failed",
			zap.String("repo", "VisitorState"),
			zap.String("method", "Set"),
			zap.String("key", key),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *SQLStore) Remove(ctx context.Context, namespace, key string) error {
	if _, err := s.db.ExecContext(ctx, s.q.remove, namespace, key); err != nil {
		logger.FromCtx(ctx).Error("delete failed",
			zap.String("repo", "VisitorState"),
			zap.String("method", "Remove"),
			zap.String("key", key),
			zap.Error(err),
		)
		return err
	}
	return nil
}
