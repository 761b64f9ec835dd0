package sqlite

import (
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/aussiebroadwan/userdir/internal/users/store"
	"github.com/aussiebroadwan/userdir/internal/users/store/sqlstore"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Store is the SQLite backed store.
type Store struct {
	*sqlstore.Store
}

var _ store.Store = (*Store)(nil)

// Dialect is the sqlstore dialect for modernc.org/sqlite.
var Dialect = sqlstore.Dialect{
	Name:              "sqlite",
	Placeholder:       sq.Question,
	IsUniqueViolation: isUniqueViolation,
}

// NewStore opens dsn with the pure-Go sqlite driver. Use FileDSN to build a
// DSN with the pragmas the service expects.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	return &Store{
		Store: sqlstore.New(db, Dialect),
	}, nil
}

// FileDSN returns a DSN for the database file at path with a busy timeout,
// WAL journaling and foreign keys enabled on every pooled connection.
func FileDSN(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
}

func isUniqueViolation(err error) bool {
	var se *moderncsqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}
