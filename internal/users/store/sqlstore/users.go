package sqlstore

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/aussiebroadwan/userdir/internal/users/domain"
	"github.com/aussiebroadwan/userdir/internal/users/store"
)

const usersTable = "users"

var userColumns = []string{
	"id", "name", "surname", "age", "email",
	"password_hash", "is_superuser", "created_at", "updated_at",
}

type usersRepo struct {
	db DBTX
	d  Dialect
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Surname, &u.Age, &u.Email,
		&u.PasswordHash, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

func (r *usersRepo) getOne(ctx context.Context, where sq.Eq) (domain.User, error) {
	query, args, err := r.d.builder().
		Select(userColumns...).
		From(usersTable).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return domain.User{}, fmt.Errorf("build user lookup: %w", err)
	}

	u, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.getOne(ctx, sq.Eq{"id": id})
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getOne(ctx, sq.Eq{"email": email})
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	query, args, err := r.d.builder().
		Insert(usersTable).
		Columns(userColumns...).
		Values(
			u.ID, u.Name, u.Surname, u.Age, u.Email,
			u.PasswordHash, u.IsSuperuser, u.CreatedAt.UTC(), u.UpdatedAt.UTC(),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build user insert: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return r.d.mapWriteErr(err)
}

func (r *usersRepo) UpdateUser(ctx context.Context, id string, upd store.UserUpdate) error {
	query, args, err := buildUserUpdate(r.d, id, upd)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return r.d.mapWriteErr(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func buildUserUpdate(d Dialect, id string, upd store.UserUpdate) (string, []any, error) {
	if upd.UpdatedAt.IsZero() {
		return "", nil, errors.New("user update: updated_at is required")
	}

	b := d.builder().Update(usersTable)
	if upd.Name != nil {
		b = b.Set("name", *upd.Name)
	}
	if upd.Surname != nil {
		b = b.Set("surname", *upd.Surname)
	}
	if upd.Age != nil {
		b = b.Set("age", *upd.Age)
	}
	if upd.Email != nil {
		b = b.Set("email", *upd.Email)
	}
	if upd.PasswordHash != nil {
		b = b.Set("password_hash", *upd.PasswordHash)
	}
	if upd.IsSuperuser != nil {
		b = b.Set("is_superuser", *upd.IsSuperuser)
	}

	query, args, err := b.
		Set("updated_at", upd.UpdatedAt.UTC()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build user update: %w", err)
	}
	return query, args, nil
}

func (r *usersRepo) ListUsers(ctx context.Context, offset, limit int) ([]domain.User, error) {
	if offset < 0 || limit < 0 {
		return nil, fmt.Errorf("list users: negative window (offset=%d, limit=%d)", offset, limit)
	}

	query, args, err := r.d.builder().
		Select(userColumns...).
		From(usersTable).
		OrderBy("id ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user list: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0, limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *usersRepo) CountUsers(ctx context.Context) (int, error) {
	query, args, err := r.d.builder().
		Select("COUNT(*)").
		From(usersTable).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build user count: %w", err)
	}

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
