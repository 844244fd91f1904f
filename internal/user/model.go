package user

import (
	"errors"
	"time"
)

var (
	// ErrNotFound indicates no user matches the requested identifier or email.
	ErrNotFound = errors.New("user not found")

	// ErrEmailTaken indicates the email is already registered. The store's
	// unique index on the lowercased email is the authoritative guard; this
	// error is also returned by the friendly pre-check during registration.
	ErrEmailTaken = errors.New("email already registered")
)

// User is the store-internal record, including the password hash. It must
// never be serialized to a client; use Public for anything that leaves the
// process.
type User struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Public is the externally-returned view of a user. It has no password hash
// field at all, so leaking one is a compile error rather than a forgotten
// strip.
type Public struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Public converts the record into its client-safe view.
func (u User) Public() Public {
	return Public{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// NewUser carries the fields required to create a user. The repository
// assigns the identifier and timestamps.
type NewUser struct {
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
}
