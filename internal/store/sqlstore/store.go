// Package sqlstore implements store.Store on MySQL or PostgreSQL through
// sqlx. Queries are written with '?' placeholders and rebound for the
// connection's driver.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/freshmart/grocery-api/internal/store"
)

// Store is the SQL backed store.
type Store struct {
	*queries
	db *sqlx.DB
}

var _ store.Store = (*Store)(nil)

// New wraps an open connection pool.
func New(db *sqlx.DB) *Store {
	return &Store{queries: &queries{ext: db}, db: db}
}

func (s *Store) InTx(ctx context.Context, fn func(q store.Querier) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() // no-op after Commit

	if err := fn(&queries{ext: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// queries runs statements against either the pool or a transaction.
type queries struct {
	ext sqlx.ExtContext
}

var _ store.Querier = (*queries)(nil)

func (q *queries) get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	err := sqlx.GetContext(ctx, q.ext, dest, q.ext.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func (q *queries) selectAll(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return sqlx.SelectContext(ctx, q.ext, dest, q.ext.Rebind(query), args...)
}

func (q *queries) exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	res, err := q.ext.ExecContext(ctx, q.ext.Rebind(query), args...)
	if err != nil {
		return nil, translate(err)
	}
	return res, nil
}

// insert runs an INSERT and returns the generated id. PostgreSQL has no
// LastInsertId, so the statement gets a RETURNING clause there.
func (q *queries) insert(ctx context.Context, query string, args ...interface{}) (int64, error) {
	if q.ext.DriverName() == "postgres" {
		var id int64
		err := q.ext.QueryRowxContext(ctx, q.ext.Rebind(query+" RETURNING id"), args...).Scan(&id)
		if err != nil {
			return 0, translate(err)
		}
		return id, nil
	}
	res, err := q.exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// translate maps driver unique-violation errors to store.ErrConflict.
func translate(err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return store.ErrConflict
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return store.ErrConflict
	}
	return err
}
