package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/fitness/libs/go/entity"
)

const uniqueViolation = "23505"

// PostgresStore keeps each record as a JSONB document in a per-kind table.
type PostgresStore[T entity.Record[T]] struct {
	pool    *pgxpool.Pool
	table   string
	uniques []Unique[T]
}

// NewPostgresStore binds a store to the named table.
func NewPostgresStore[T entity.Record[T]](pool *pgxpool.Pool, table string, uniques ...Unique[T]) *PostgresStore[T] {
	return &PostgresStore[T]{
		pool:    pool,
		table:   pgx.Identifier{table}.Sanitize(),
		uniques: uniques,
	}
}

// EnsureSchema creates the table and one unique expression index per unique field.
func (s *PostgresStore[T]) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
            id TEXT PRIMARY KEY,
            doc JSONB NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`, s.table),
	}
	for _, u := range s.uniques {
		index := pgx.Identifier{fmt.Sprintf("%s_%s_key", trimQuotes(s.table), u.Field)}.Sanitize()
		stmts = append(stmts, fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s ((doc->>'%s'))`, index, s.table, u.Field))
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Insert implements Store.
func (s *PostgresStore[T]) Insert(ctx context.Context, doc T) (T, error) {
	var zero T
	doc = doc.WithID(uuid.NewString())
	body, err := json.Marshal(doc)
	if err != nil {
		return zero, err
	}

	stmt := fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES ($1, $2)`, s.table)
	if _, err := s.pool.Exec(ctx, stmt, doc.RecordID(), body); err != nil {
		return zero, translate(err)
	}
	return doc, nil
}

// Get implements Store.
func (s *PostgresStore[T]) Get(ctx context.Context, id string) (T, error) {
	query := fmt.Sprintf(`SELECT doc FROM %s WHERE id=$1`, s.table)
	return s.scanOne(s.pool.QueryRow(ctx, query, id))
}

// Replace implements Store.
func (s *PostgresStore[T]) Replace(ctx context.Context, doc T) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	stmt := fmt.Sprintf(`UPDATE %s SET doc=$2, updated_at=NOW() WHERE id=$1`, s.table)
	tag, err := s.pool.Exec(ctx, stmt, doc.RecordID(), body)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete implements Store.
func (s *PostgresStore[T]) Delete(ctx context.Context, id string) (T, error) {
	stmt := fmt.Sprintf(`DELETE FROM %s WHERE id=$1 RETURNING doc`, s.table)
	return s.scanOne(s.pool.QueryRow(ctx, stmt, id))
}

// List implements Store.
func (s *PostgresStore[T]) List(ctx context.Context, after string, limit int) ([]T, error) {
	limit = pageSize(limit)
	query := fmt.Sprintf(`SELECT doc FROM %s WHERE id > $1 ORDER BY id LIMIT $2`, s.table)

	rows, err := s.pool.Query(ctx, query, after, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]T, 0, limit)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var doc T
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
		results = append(results, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *PostgresStore[T]) scanOne(row pgx.Row) (T, error) {
	var doc T
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return doc, ErrNotFound
		}
		return doc, err
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, err
	}
	return doc, nil
}

func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}

func trimQuotes(identifier string) string {
	if len(identifier) >= 2 && identifier[0] == '"' && identifier[len(identifier)-1] == '"' {
		return identifier[1 : len(identifier)-1]
	}
	return identifier
}
