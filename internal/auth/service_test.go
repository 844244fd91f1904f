package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/authgate/authgate/internal/user"
)

func newTestService(t *testing.T) (*Service, *user.MemoryRepository, *TokenService) {
	t.Helper()
	repo := user.NewMemoryRepository()
	hasher, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	tokens := newTestTokenService(t, time.Hour)
	return NewService(repo, hasher, tokens, nil), repo, tokens
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates account and issues token", func(t *testing.T) {
		svc, repo, tokens := newTestService(t)

		session, err := svc.Register(ctx, RegisterInput{
			Email:     "jo@x.com",
			FirstName: "Jo",
			LastName:  "Li",
			Password:  "abcdef",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, session.User.ID)
		assert.Equal(t, "jo@x.com", session.User.Email)
		assert.Equal(t, "Jo", session.User.FirstName)
		assert.Equal(t, "Li", session.User.LastName)
		assert.False(t, session.User.CreatedAt.IsZero())

		claims, err := tokens.Verify(session.Token)
		require.NoError(t, err)
		assert.Equal(t, session.User.ID, claims.Subject)
		assert.Equal(t, "jo@x.com", claims.Email)

		stored, err := repo.FindByEmail(ctx, "jo@x.com")
		require.NoError(t, err)
		assert.NotEmpty(t, stored.PasswordHash)
		assert.NotEqual(t, "abcdef", stored.PasswordHash)
	})

	t.Run("normalizes email before storing", func(t *testing.T) {
		svc, repo, _ := newTestService(t)

		session, err := svc.Register(ctx, RegisterInput{
			Email:     "  Jo@X.Com ",
			FirstName: "Jo",
			LastName:  "Li",
			Password:  "abcdef",
		})
		require.NoError(t, err)
		assert.Equal(t, "jo@x.com", session.User.Email)

		_, err = repo.FindByEmail(ctx, "jo@x.com")
		require.NoError(t, err)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", FirstName: "Aa", LastName: "Bb", Password: "abcdef"})
		require.NoError(t, err)

		_, err = svc.Register(ctx, RegisterInput{Email: "a@b.com", FirstName: "Cc", LastName: "Dd", Password: "ghijkl"})
		assert.True(t, errors.Is(err, user.ErrEmailTaken))
	})

	t.Run("rejects duplicate email differing only in case", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", FirstName: "Aa", LastName: "Bb", Password: "abcdef"})
		require.NoError(t, err)

		_, err = svc.Register(ctx, RegisterInput{Email: "A@B.COM", FirstName: "Cc", LastName: "Dd", Password: "ghijkl"})
		assert.True(t, errors.Is(err, user.ErrEmailTaken))
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	register := func(t *testing.T, svc *Service) Session {
		t.Helper()
		session, err := svc.Register(ctx, RegisterInput{
			Email:     "jo@x.com",
			FirstName: "Jo",
			LastName:  "Li",
			Password:  "abcdef",
		})
		require.NoError(t, err)
		return session
	}

	t.Run("valid credentials issue a fresh token", func(t *testing.T) {
		svc, _, tokens := newTestService(t)
		registered := register(t, svc)

		session, err := svc.Login(ctx, "jo@x.com", "abcdef")
		require.NoError(t, err)
		assert.Equal(t, registered.User.ID, session.User.ID)

		claims, err := tokens.Verify(session.Token)
		require.NoError(t, err)
		assert.Equal(t, registered.User.ID, claims.Subject)
	})

	t.Run("email is matched case-insensitively", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		register(t, svc)

		session, err := svc.Login(ctx, "JO@X.COM", "abcdef")
		require.NoError(t, err)
		assert.Equal(t, "jo@x.com", session.User.Email)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		register(t, svc)

		_, wrongPass := svc.Login(ctx, "jo@x.com", "wrongpw")
		_, unknown := svc.Login(ctx, "nobody@x.com", "abcdef")

		assert.True(t, errors.Is(wrongPass, ErrInvalidCredentials))
		assert.True(t, errors.Is(unknown, ErrInvalidCredentials))
		assert.Equal(t, wrongPass.Error(), unknown.Error())
	})
}

func TestProfile(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)

	session, err := svc.Register(ctx, RegisterInput{Email: "jo@x.com", FirstName: "Jo", LastName: "Li", Password: "abcdef"})
	require.NoError(t, err)

	t.Run("returns public view", func(t *testing.T) {
		profile, err := svc.Profile(ctx, session.User.ID)
		require.NoError(t, err)
		assert.Equal(t, session.User, profile)
	})

	t.Run("missing account", func(t *testing.T) {
		_, err := svc.Profile(ctx, "missing-id")
		assert.True(t, errors.Is(err, user.ErrNotFound))
	})

	t.Run("deleted account", func(t *testing.T) {
		require.True(t, repo.Delete(ctx, session.User.ID))
		_, err := svc.Profile(ctx, session.User.ID)
		assert.True(t, errors.Is(err, user.ErrNotFound))
	})
}

func TestListUsers(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	first, err := svc.Register(ctx, RegisterInput{Email: "a@x.com", FirstName: "Aa", LastName: "Aa", Password: "abcdef"})
	require.NoError(t, err)
	second, err := svc.Register(ctx, RegisterInput{Email: "b@x.com", FirstName: "Bb", LastName: "Bb", Password: "abcdef"})
	require.NoError(t, err)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, first.User.ID, users[0].ID)
	assert.Equal(t, second.User.ID, users[1].ID)
}
