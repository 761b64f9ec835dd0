package domain

import "time"

// User is a registered account. PasswordHash is the encoded digest produced
// by cryptox and is never serialised to clients.
type User struct {
	ID           string
	Name         string
	Surname      string
	Age          int
	Email        string
	PasswordHash string // argon2id encoded
	IsSuperuser  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserDraft is the input for creating a user. Password is plaintext and is
// hashed before it reaches the store.
type UserDraft struct {
	Name        string
	Surname     string
	Age         int
	Email       string
	Password    string
	IsSuperuser bool
}

// UserPatch is a partial update. A nil field is left untouched.
type UserPatch struct {
	Name        *string
	Surname     *string
	Age         *int
	Email       *string
	Password    *string
	IsSuperuser *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Surname == nil && p.Age == nil &&
		p.Email == nil && p.Password == nil && p.IsSuperuser == nil
}
