package idx

import (
	"crypto/rand"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ID is a ULID in its canonical 26 character form. IDs generated by this
// package sort lexically in creation order, which the store relies on for
// insertion-ordered listing.
type ID string

// Zero represents the zero value ID, don't use this unless its a placeholder.
const Zero ID = ""

// ErrInvalid reports a malformed ULID string.
var ErrInvalid = errors.New("idx: invalid ulid")

var (
	mu      sync.Mutex
	once    sync.Once
	entropy *ulid.MonotonicEntropy
)

func source() *ulid.MonotonicEntropy {
	once.Do(func() {
		entropy = ulid.Monotonic(rand.Reader, 0)
	})
	return entropy
}

// New returns a new ID for the current UTC time.
func New() ID {
	return NewAt(time.Now().UTC())
}

// NewAt generates an ID at the provided time. Calls within the same
// millisecond still produce increasing IDs.
func NewAt(t time.Time) ID {
	src := source()

	mu.Lock()
	defer mu.Unlock()

	return ID(ulid.MustNew(ulid.Timestamp(t), src).String())
}

// Parse validates s as a strict ULID and returns it as an ID.
func Parse(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, ErrInvalid
	}

	u, err := ulid.ParseStrict(s)
	if err != nil {
		return Zero, ErrInvalid
	}

	// Normalise lowercase input so lookups hit the stored form.
	return ID(u.String()), nil
}

// MustParse parses or panics. Useful for hard-coded IDs in tests.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// IsZero reports whether id is the zero value.
func (id ID) IsZero() bool { return id == Zero }

// String returns the canonical string form.
func (id ID) String() string { return string(id) }

// Time extracts the embedded timestamp, or the zero time for invalid IDs.
func (id ID) Time() time.Time {
	u, err := ulid.ParseStrict(id.String())
	if err != nil {
		return time.Time{}
	}
	return ulid.Time(u.Time())
}

// Compare reports the lexical ordering between a and b (-1, 0, +1).
func Compare(a, b ID) int {
	return strings.Compare(a.String(), b.String())
}
