package sqlrow

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// Executor defines the common database operations for both DB and Tx
type Executor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Session manages the database connection and current transaction
type Session struct {
	db       *sqlx.DB // Underlying DB for starting transactions
	executor Executor // Current executor (DB or Tx)
	dialect  Dialect
	obs      *ObservabilityConfig
}

func NewSession(db *sql.DB, dialect Dialect, opts ...SessionOption) *Session {
	xdb := sqlx.NewDb(db, dialect.Name())
	s := &Session{
		db:       xdb,
		executor: xdb,
		dialect:  dialect,
		obs:      defaultObservabilityConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dialect returns the dialect the session was created with.
func (s *Session) Dialect() Dialect { return s.dialect }

func (s *Session) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.executor.QueryContext(ctx, query, args...)
}

func (s *Session) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.executor.QueryRowContext(ctx, query, args...)
}

func (s *Session) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.executor.ExecContext(ctx, query, args...)
}

func (s *Session) Begin(ctx context.Context) (*Session, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	// Return new Session where executor is the transaction
	return &Session{
		db:       s.db,
		executor: tx,
		dialect:  s.dialect,
		obs:      s.obs,
	}, nil
}

func (s *Session) Commit() error {
	if tx, ok := s.executor.(*sqlx.Tx); ok {
		return tx.Commit()
	}
	return sql.ErrTxDone
}

func (s *Session) Rollback() error {
	if tx, ok := s.executor.(*sqlx.Tx); ok {
		return tx.Rollback()
	}
	return sql.ErrTxDone
}

// Transaction executes a function within a transaction
func (s *Session) Transaction(ctx context.Context, fn func(txSession *Session) error) (err error) {
	// Check if already in transaction
	if _, ok := s.executor.(*sqlx.Tx); ok {
		return fn(s)
	}

	txSession, err := s.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = txSession.Rollback()
			panic(p)
		} else if err != nil {
			_ = txSession.Rollback()
		}
	}()

	err = fn(txSession)
	if err != nil {
		return err
	}

	return txSession.Commit()
}
