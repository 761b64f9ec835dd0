// Package sqlstore implements the store interfaces over database/sql. The
// sqlite and postgres drivers supply a connection pool and a Dialect and add
// their own migrations on top.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/aussiebroadwan/userdir/internal/users/store"
)

// DBTX is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Dialect captures what differs between SQL backends.
type Dialect struct {
	Name string

	// Placeholder is sq.Question for sqlite, sq.Dollar for postgres.
	Placeholder sq.PlaceholderFormat

	// IsUniqueViolation reports whether err is a UNIQUE/PRIMARY KEY constraint failure.
	IsUniqueViolation func(error) bool
}

func (d Dialect) builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(d.Placeholder)
}

func (d Dialect) mapWriteErr(err error) error {
	if err != nil && d.IsUniqueViolation != nil && d.IsUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

// Store is the pool-level scope. Drivers embed it and add ApplyMigrations.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// DB exposes the pool for migrations.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Dialect() Dialect { return s.dialect }

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Users() store.Users { return &usersRepo{db: s.db, d: s.dialect} }

// Session checks a dedicated connection out of the pool.
func (s *Store) Session(ctx context.Context) (store.Session, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return &sessionStore{conn: conn, dialect: s.dialect}, nil
}

// Tx starts a read/write transaction and returns a Tx-scoped store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx, s.dialect), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return withTx(ctx, s.Tx, fn)
}

func withTx(ctx context.Context, begin func(context.Context) (store.Tx, error), fn func(tx store.Tx) error) error {
	tx, err := begin(ctx)
	if err != nil {
		return err
	}

	// Rollback after a successful Commit is a harmless ErrTxDone.
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}
