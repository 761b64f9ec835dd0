package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/userdir/internal/users/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Querier exposes the sub-repositories. Every scope (pool, session,
// transaction) implements it so services don't care which one they hold.
type Querier interface {
	Users() Users
}

// Handle is what services work against: something to query plus a way to
// run a unit of work atomically.
type Handle interface {
	Querier

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error
}

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this.
type Store interface {
	Handle

	// Session pins one pooled connection for the lifetime of a request. The
	// caller MUST Close the returned Session.
	Session(ctx context.Context) (Session, error)

	// Tx starts a read/write transaction and returns a Tx-scoped store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	ApplyMigrations() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error

	// Close releases the connection pool.
	Close() error
}

// Session is a store bound to a single dedicated connection.
type Session interface {
	Handle

	Tx(ctx context.Context) (Tx, error)
	Ping(ctx context.Context) error

	// Close returns the connection to the pool.
	Close() error
}

// Tx is a transactional scope. It exposes the same repos but adds Commit/Rollback.
// Nested transactions are not supported: WithTx on a Tx reuses it.
type Tx interface {
	Handle
	Commit() error
	Rollback() error
}

// UserUpdate carries the columns to change. Nil fields are left as stored.
type UserUpdate struct {
	Name         *string
	Surname      *string
	Age          *int
	Email        *string
	PasswordHash *string
	IsSuperuser  *bool
	UpdatedAt    time.Time
}

type Users interface {
	// GetUserByID returns a user by id or ErrNotFound.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail returns a user by exact email or ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// A duplicate email yields ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUser applies the non-nil fields of upd. ErrNotFound if the row is
	// gone, ErrAlreadyExists on email collision.
	UpdateUser(ctx context.Context, id string, upd UserUpdate) error

	// ListUsers returns a window ordered by id ascending.
	ListUsers(ctx context.Context, offset, limit int) ([]domain.User, error)

	// CountUsers returns the total number of users.
	CountUsers(ctx context.Context) (int, error)
}
