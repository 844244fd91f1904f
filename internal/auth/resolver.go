package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/authgate/authgate/internal/user"
)

// Identity is the authenticated caller attached to a request once its token
// has been verified and its account confirmed to still exist.
type Identity struct {
	UserID string
	Email  string
}

// ExtractBearer pulls the raw token out of an Authorization header value.
// The header must be exactly the scheme word "Bearer", one space, and the
// token. Anything else is rejected: missing header, wrong scheme, wrong
// casing, extra spaces, or an empty token.
func ExtractBearer(header string) (string, error) {
	if header == "" {
		return "", ErrMissingAuthHeader
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", ErrMalformedAuthHeader
	}
	if parts[1] == "" {
		return "", ErrEmptyBearerToken
	}
	return parts[1], nil
}

// Resolver turns an Authorization header into an Identity. A valid signature
// alone is not enough: the subject must still exist in the user store, so a
// token that outlives its account stops working.
type Resolver struct {
	tokens *TokenService
	users  user.Repository
}

func NewResolver(tokens *TokenService, users user.Repository) *Resolver {
	return &Resolver{tokens: tokens, users: users}
}

// Resolve authenticates a request from its Authorization header value.
// Every failure path returns an error the transport layer maps to the same
// response; the distinctions exist for logging only.
func (r *Resolver) Resolve(ctx context.Context, header string) (Identity, error) {
	raw, err := ExtractBearer(header)
	if err != nil {
		return Identity{}, err
	}

	claims, err := r.tokens.Verify(raw)
	if err != nil {
		return Identity{}, err
	}

	u, err := r.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Identity{}, err
		}
		return Identity{}, fmt.Errorf("look up token subject: %w", err)
	}

	return Identity{UserID: u.ID, Email: u.Email}, nil
}
