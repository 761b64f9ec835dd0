package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// maxArgon2Memory bounds the m= parameter accepted from a digest, in KiB (1 GiB).
const maxArgon2Memory = 1 << 20

// ErrMismatch is returned by VerifyPassword when the password is wrong.
var ErrMismatch = errors.New("password does not match")

// Hasher is the one-way credential transform used for user passwords.
type Hasher interface {
	// Hash returns an encoded digest of password. The digest embeds its own
	// salt and parameters.
	Hash(password string) (string, error)

	// Verify reports whether password produces digest. It never fails loudly:
	// malformed digests simply don't match.
	Verify(password, digest string) bool
}

// Argon2Hasher hashes with Argon2id and verifies both Argon2id and legacy
// bcrypt digests.
type Argon2Hasher struct{}

var _ Hasher = Argon2Hasher{}

func (Argon2Hasher) Hash(password string) (string, error) { return HashPassword(password) }

func (Argon2Hasher) Verify(password, digest string) bool {
	return VerifyPassword(password, digest) == nil
}

// HashPassword generates a PHC-format Argon2id hash string including salt and parameters.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey(
		[]byte(password+GetPepper()),
		salt,
		iterations,
		memory,
		parallelism,
		keyLength,
	)

	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifyPassword compares a plaintext password against an encoded digest.
// Argon2id digests are checked in constant time; bcrypt digests ($2a$, $2b$,
// $2y$) are accepted for records imported from older systems and are checked
// without the pepper.
func VerifyPassword(password, encodedHash string) error {
	if isBcrypt(encodedHash) {
		if err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)); err != nil {
			if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
				return ErrMismatch
			}
			return fmt.Errorf("invalid hash format: %w", err)
		}
		return nil
	}

	// PHC format: ["", "argon2id", "v=19", "m=X,t=Y,p=Z", "salt", "hash"]
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return errors.New("invalid hash format: expected 6 parts")
	}
	if parts[1] != "argon2id" {
		return errors.New("invalid hash format: not argon2id")
	}
	if parts[2] != "v=19" {
		return errors.New("invalid hash format: wrong version")
	}

	var mem, iters uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return fmt.Errorf("invalid hash format: failed to parse parameters: %w", err)
	}
	// argon2.IDKey panics below these floors and allocates m KiB unchecked.
	if iters < 1 || par < 1 || mem < 8*uint32(par) || mem > maxArgon2Memory {
		return errors.New("invalid hash format: parameters out of range")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("invalid hash format: failed to decode salt: %w", err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return fmt.Errorf("invalid hash format: failed to decode hash: %w", err)
	}
	if len(expected) == 0 {
		return errors.New("invalid hash format: empty hash")
	}

	computed := argon2.IDKey(
		[]byte(password+GetPepper()),
		salt,
		iters,
		mem,
		par,
		uint32(len(expected)), // #nosec G115 - bounded by the decoded digest
	)

	if subtle.ConstantTimeCompare(computed, expected) == 1 {
		return nil
	}
	return ErrMismatch
}

func isBcrypt(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// GeneratePassword returns a random 12 character alphanumeric password.
func GeneratePassword() (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const length = 12
	password := make([]byte, length)
	for i := range password {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", fmt.Errorf("failed to generate random password: %w", err)
		}
		password[i] = charset[n.Int64()]
	}
	return string(password), nil
}
