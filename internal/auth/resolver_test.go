package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authgate/authgate/internal/user"
)

func TestExtractBearer(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		token   string
		wantErr error
	}{
		{name: "valid", header: "Bearer abc.def.ghi", token: "abc.def.ghi"},
		{name: "missing header", header: "", wantErr: ErrMissingAuthHeader},
		{name: "scheme only", header: "Bearer", wantErr: ErrMalformedAuthHeader},
		{name: "wrong scheme", header: "Basic abc", wantErr: ErrMalformedAuthHeader},
		{name: "lowercase scheme", header: "bearer abc", wantErr: ErrMalformedAuthHeader},
		{name: "extra space", header: "Bearer  abc", wantErr: ErrMalformedAuthHeader},
		{name: "trailing segment", header: "Bearer abc def", wantErr: ErrMalformedAuthHeader},
		{name: "empty token", header: "Bearer ", wantErr: ErrEmptyBearerToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := ExtractBearer(tt.header)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.token, token)
		})
	}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	repo := user.NewMemoryRepository()
	tokens := newTestTokenService(t, time.Hour)
	resolver := NewResolver(tokens, repo)

	u, err := repo.Create(ctx, user.NewUser{
		Email:        "jo@x.com",
		FirstName:    "Jo",
		LastName:     "Li",
		PasswordHash: dummyPasswordHash,
	})
	require.NoError(t, err)

	tok, err := tokens.Issue(u.ID, u.Email)
	require.NoError(t, err)

	t.Run("valid token resolves identity", func(t *testing.T) {
		id, err := resolver.Resolve(ctx, "Bearer "+tok)
		require.NoError(t, err)
		assert.Equal(t, u.ID, id.UserID)
		assert.Equal(t, "jo@x.com", id.Email)
	})

	t.Run("missing header", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, "")
		assert.True(t, errors.Is(err, ErrMissingAuthHeader))
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, "Bearer garbage")
		assert.True(t, errors.Is(err, ErrTokenMalformed))
	})

	t.Run("token outliving its account stops working", func(t *testing.T) {
		ghost, err := repo.Create(ctx, user.NewUser{
			Email:        "ghost@x.com",
			FirstName:    "Gh",
			LastName:     "Ost",
			PasswordHash: dummyPasswordHash,
		})
		require.NoError(t, err)
		ghostTok, err := tokens.Issue(ghost.ID, ghost.Email)
		require.NoError(t, err)

		require.True(t, repo.Delete(ctx, ghost.ID))

		_, err = resolver.Resolve(ctx, "Bearer "+ghostTok)
		assert.True(t, errors.Is(err, user.ErrNotFound))
	})
}
