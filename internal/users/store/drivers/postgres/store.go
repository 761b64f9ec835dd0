package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/aussiebroadwan/userdir/internal/users/store"
	"github.com/aussiebroadwan/userdir/internal/users/store/sqlstore"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const uniqueViolation = "23505"

// Store is the PostgreSQL backed store, using pgx through database/sql.
type Store struct {
	*sqlstore.Store
}

var _ store.Store = (*Store)(nil)

// Dialect is the sqlstore dialect for pgx.
var Dialect = sqlstore.Dialect{
	Name:              "postgres",
	Placeholder:       sq.Dollar,
	IsUniqueViolation: isUniqueViolation,
}

// NewStore opens dsn and verifies the server is reachable.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{Store: sqlstore.New(db, Dialect)}, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
