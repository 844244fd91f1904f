package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/authgate/authgate/internal/notification"
	"github.com/authgate/authgate/internal/user"
)

// Session is the result of a successful register or login: the public view
// of the account plus a signed bearer token for it.
type Session struct {
	User  user.Public `json:"user"`
	Token string      `json:"token"`
}

// Service orchestrates account registration and credential login on top of
// the user store, the password hasher and the token service. The notifier is
// optional; registration succeeds whether or not a welcome message goes out.
type Service struct {
	users    user.Repository
	hasher   PasswordHasher
	tokens   *TokenService
	notifier notification.Notifier
}

func NewService(users user.Repository, hasher PasswordHasher, tokens *TokenService, notifier notification.Notifier) *Service {
	return &Service{users: users, hasher: hasher, tokens: tokens, notifier: notifier}
}

// RegisterInput carries already validated registration fields.
type RegisterInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// dummyPasswordHash is compared against when login hits an unknown email, so
// both failure causes cost one bcrypt comparison. It is not a credential and
// matches no password.
const dummyPasswordHash = "$2a$10$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Register creates an account and signs the first token for it. The email is
// trimmed and lowercased before any store access, so addresses differing only
// in case collide.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	email := normalizeEmail(in.Email)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return Session{}, user.ErrEmailTaken
	} else if !errors.Is(err, user.ErrNotFound) {
		return Session{}, fmt.Errorf("check email availability: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.users.Create(ctx, user.NewUser{
		Email:        email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
	})
	if err != nil {
		// The unique index closes the race between the availability check
		// and the insert; the store reports it as ErrEmailTaken.
		return Session{}, err
	}

	token, err := s.tokens.Issue(created.ID, created.Email)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindAccountCreated,
			Destination: created.Email,
			Body:        fmt.Sprintf("welcome, %s %s", created.FirstName, created.LastName),
		})
	}

	return Session{User: created.Public(), Token: token}, nil
}

// Login verifies credentials and signs a fresh token. Unknown email and wrong
// password return the identical error.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	switch {
	case errors.Is(err, user.ErrNotFound):
		_, _ = s.hasher.Verify(password, dummyPasswordHash)
		return Session{}, ErrInvalidCredentials
	case err != nil:
		return Session{}, fmt.Errorf("find user by email: %w", err)
	}

	ok, err := s.hasher.Verify(password, u.PasswordHash)
	if err != nil {
		return Session{}, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return Session{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}

	return Session{User: u.Public(), Token: token}, nil
}

// Profile returns the public view of one account.
func (s *Service) Profile(ctx context.Context, userID string) (user.Public, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return user.Public{}, err
	}
	return u.Public(), nil
}

// ListUsers returns the public view of every account.
func (s *Service) ListUsers(ctx context.Context) ([]user.Public, error) {
	return s.users.List(ctx)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
