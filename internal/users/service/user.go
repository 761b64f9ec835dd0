package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/userdir/internal/users/domain"
	"github.com/aussiebroadwan/userdir/internal/users/store"
	"github.com/aussiebroadwan/userdir/pkg/cryptox"
	"github.com/aussiebroadwan/userdir/pkg/idx"
)

// MaxPageLimit caps the page size accepted by List.
const MaxPageLimit = 1000

var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidPatch = errors.New("invalid user patch")
	ErrInvalidPage  = errors.New("invalid page window")
)

// UserService owns every read and write of User records. It resolves the
// request's store session from the context and falls back to Store.
type UserService struct {
	Store  store.Store
	Hasher cryptox.Hasher

	dummyOnce sync.Once
	dummyHash string
}

func (s *UserService) handle(ctx context.Context) store.Handle {
	return store.FromContext(ctx, s.Store)
}

func (s *UserService) hasher() cryptox.Hasher {
	if s.Hasher == nil {
		return cryptox.Argon2Hasher{}
	}
	return s.Hasher
}

// Create hashes the draft's password and inserts a new user. The UNIQUE
// index on email decides collisions, reported as ErrEmailTaken.
func (s *UserService) Create(ctx context.Context, d domain.UserDraft) (domain.User, error) {
	digest, err := s.hasher().Hash(d.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.NewAt(now).String(),
		Name:         d.Name,
		Surname:      d.Surname,
		Age:          d.Age,
		Email:        d.Email,
		PasswordHash: digest,
		IsSuperuser:  d.IsSuperuser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.handle(ctx).Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, fmt.Errorf("%w: %w", ErrEmailTaken, err)
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// GetByEmail looks a user up by exact email. found is false when no such
// user exists; err is reserved for store failures.
func (s *UserService) GetByEmail(ctx context.Context, email string) (u domain.User, found bool, err error) {
	return lookup(s.handle(ctx).Users().GetUserByEmail(ctx, email))
}

// GetByID looks a user up by id with the same contract as GetByEmail.
func (s *UserService) GetByID(ctx context.Context, id string) (u domain.User, found bool, err error) {
	return lookup(s.handle(ctx).Users().GetUserByID(ctx, id))
}

func lookup(u domain.User, err error) (domain.User, bool, error) {
	switch {
	case err == nil:
		return u, true, nil
	case errors.Is(err, store.ErrNotFound):
		return domain.User{}, false, nil
	default:
		return domain.User{}, false, err
	}
}

// List returns the window [skip, skip+limit) in id order together with the
// total number of users. Both reads share one transaction so the count
// matches the page.
func (s *UserService) List(ctx context.Context, skip, limit int) ([]domain.User, int, error) {
	if skip < 0 || limit < 0 || limit > MaxPageLimit {
		return nil, 0, fmt.Errorf("%w: skip=%d limit=%d", ErrInvalidPage, skip, limit)
	}

	var (
		users []domain.User
		total int
	)
	err := s.handle(ctx).WithTx(ctx, func(tx store.Tx) error {
		var err error
		if users, err = tx.Users().ListUsers(ctx, skip, limit); err != nil {
			return err
		}
		total, err = tx.Users().CountUsers(ctx)
		return err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// Update applies the non-nil fields of patch to existing and returns the
// persisted result. A supplied password is hashed first.
func (s *UserService) Update(ctx context.Context, existing domain.User, patch domain.UserPatch) (domain.User, error) {
	if err := validatePatch(patch); err != nil {
		return domain.User{}, err
	}

	upd := store.UserUpdate{
		Name:        patch.Name,
		Surname:     patch.Surname,
		Age:         patch.Age,
		Email:       patch.Email,
		IsSuperuser: patch.IsSuperuser,
		UpdatedAt:   time.Now().UTC(),
	}
	if patch.Password != nil {
		digest, err := s.hasher().Hash(*patch.Password)
		if err != nil {
			return domain.User{}, fmt.Errorf("hash password: %w", err)
		}
		upd.PasswordHash = &digest
	}

	var out domain.User
	err := s.handle(ctx).WithTx(ctx, func(tx store.Tx) error {
		if !patch.IsEmpty() {
			if err := tx.Users().UpdateUser(ctx, existing.ID, upd); err != nil {
				return err
			}
		}
		u, err := tx.Users().GetUserByID(ctx, existing.ID)
		if err != nil {
			return err
		}
		out = u
		return nil
	})
	switch {
	case err == nil:
		return out, nil
	case errors.Is(err, store.ErrAlreadyExists):
		return domain.User{}, fmt.Errorf("%w: %w", ErrEmailTaken, err)
	case errors.Is(err, store.ErrNotFound):
		return domain.User{}, ErrUserNotFound
	default:
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}
}

func validatePatch(p domain.UserPatch) error {
	if p.Email != nil && strings.TrimSpace(*p.Email) == "" {
		return fmt.Errorf("%w: email must not be empty", ErrInvalidPatch)
	}
	if p.Age != nil && *p.Age < 0 {
		return fmt.Errorf("%w: age must not be negative", ErrInvalidPatch)
	}
	return nil
}

// Authenticate checks an email and password pair. A missing account and a
// wrong password are indistinguishable to the caller: both return
// found=false with a nil error.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (domain.User, bool, error) {
	u, found, err := s.GetByEmail(ctx, email)
	if err != nil {
		return domain.User{}, false, err
	}
	if !found {
		// Burn the same hashing cost as a real check.
		s.hasher().Verify(password, s.dummyDigest())
		return domain.User{}, false, nil
	}
	if !s.hasher().Verify(password, u.PasswordHash) {
		return domain.User{}, false, nil
	}
	return u, true, nil
}

func (s *UserService) dummyDigest() string {
	s.dummyOnce.Do(func() {
		digest, err := s.hasher().Hash(idx.New().String())
		if err == nil {
			s.dummyHash = digest
		}
	})
	return s.dummyHash
}
