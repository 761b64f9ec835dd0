package sqlstore

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/userdir/internal/users/store"
)

type sessionStore struct {
	conn    *sql.Conn
	dialect Dialect
}

func (s *sessionStore) Users() store.Users { return &usersRepo{db: s.conn, d: s.dialect} }

func (s *sessionStore) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx, s.dialect), nil
}

func (s *sessionStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return withTx(ctx, s.Tx, fn)
}

func (s *sessionStore) Ping(ctx context.Context) error { return s.conn.PingContext(ctx) }

func (s *sessionStore) Close() error { return s.conn.Close() }

type txStore struct {
	tx      *sql.Tx
	dialect Dialect
}

func newTx(tx *sql.Tx, d Dialect) *txStore {
	return &txStore{tx: tx, dialect: d}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Users() store.Users { return &usersRepo{db: t.tx, d: t.dialect} }

// WithTx joins the running transaction. The outer owner commits.
func (t *txStore) WithTx(_ context.Context, fn func(tx store.Tx) error) error {
	return fn(t)
}
