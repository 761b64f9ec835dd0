package sqlstore

import (
	"errors"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/aussiebroadwan/userdir/internal/users/store"
	"github.com/stretchr/testify/require"
)

func TestBuildUserUpdate(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	name := "Ann"
	age := 31

	t.Run("sqlite placeholders and only set fields", func(t *testing.T) {
		query, args, err := buildUserUpdate(Dialect{Placeholder: sq.Question}, "01ID", store.UserUpdate{
			Name:      &name,
			Age:       &age,
			UpdatedAt: now,
		})
		require.NoError(t, err)
		require.Equal(t, "UPDATE users SET name = ?, age = ?, updated_at = ? WHERE id = ?", query)
		require.Equal(t, []any{"Ann", 31, now, "01ID"}, args)
	})

	t.Run("postgres placeholders", func(t *testing.T) {
		query, _, err := buildUserUpdate(Dialect{Placeholder: sq.Dollar}, "01ID", store.UserUpdate{
			Name:      &name,
			UpdatedAt: now,
		})
		require.NoError(t, err)
		require.Equal(t, "UPDATE users SET name = $1, updated_at = $2 WHERE id = $3", query)
	})

	t.Run("timestamp only", func(t *testing.T) {
		query, _, err := buildUserUpdate(Dialect{Placeholder: sq.Question}, "01ID", store.UserUpdate{UpdatedAt: now})
		require.NoError(t, err)
		require.Equal(t, "UPDATE users SET updated_at = ? WHERE id = ?", query)
	})

	t.Run("missing timestamp", func(t *testing.T) {
		_, _, err := buildUserUpdate(Dialect{Placeholder: sq.Question}, "01ID", store.UserUpdate{Name: &name})
		require.Error(t, err)
	})
}

func TestDialectMapWriteErr(t *testing.T) {
	dup := errors.New("duplicate")
	d := Dialect{IsUniqueViolation: func(err error) bool { return errors.Is(err, dup) }}

	require.NoError(t, d.mapWriteErr(nil))
	require.ErrorIs(t, d.mapWriteErr(dup), store.ErrAlreadyExists)

	other := errors.New("disk full")
	require.Equal(t, other, d.mapWriteErr(other))
	require.Equal(t, other, Dialect{}.mapWriteErr(other))
}
