// Package sqlstore implements the repository ports on database/sql.
// The same queries serve SQLite and PostgreSQL; placeholders are written as "?"
// and rebound per dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SscSPs/pocket_ledger_app/internal/platform/database"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const pgUniqueViolation = "23505"

type txKey struct{}

// querier is the subset of *sql.DB and *sql.Tx used by repositories.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	DB *database.DB
}

// conn returns the transaction carried by ctx, or the pool.
func (r *BaseRepository) conn(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return r.DB.DB
}

func (r *BaseRepository) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return r.conn(ctx).ExecContext(ctx, r.DB.Rebind(query), args...)
}

func (r *BaseRepository) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return r.conn(ctx).QueryContext(ctx, r.DB.Rebind(query), args...)
}

func (r *BaseRepository) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return r.conn(ctx).QueryRowContext(ctx, r.DB.Rebind(query), args...)
}

// withinTx joins the transaction already in ctx or starts a new one.
func (r *BaseRepository) withinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return runInTx(ctx, r.DB, fn)
}

// TxManager implements repositories.TransactionManager over the shared pool.
type TxManager struct {
	db *database.DB
}

// NewTxManager creates a transaction manager for db.
func NewTxManager(db *database.DB) *TxManager {
	return &TxManager{db: db}
}

// WithinTransaction runs fn in a transaction. Nested calls join the outer transaction.
func (m *TxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return runInTx(ctx, m.db, fn)
}

func runInTx(ctx context.Context, db *database.DB, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
			}
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a unique or primary key conflict from either driver.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return false
}

// monthPattern turns "2024-03" into a LIKE pattern over YYYY-MM-DD text dates.
func monthPattern(yearMonth string) string {
	return yearMonth + "-%"
}
