package auth

import "errors"

// Credential and token errors. Handlers surface every token and header error
// as one uniform "unauthorized" response; the specific kind is only for
// server-side logs, so a caller cannot use the API as a verification oracle.
var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password. Login must return this exact error for either case.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrTokenExpired indicates the expiry claim has elapsed.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenMalformed indicates the string is not parseable as a JWT.
	ErrTokenMalformed = errors.New("token malformed")

	// ErrTokenSignatureInvalid indicates the signature does not verify under
	// the configured secret.
	ErrTokenSignatureInvalid = errors.New("token signature invalid")

	// ErrTokenClaimMismatch indicates the issuer or audience claim does not
	// match this service's configuration.
	ErrTokenClaimMismatch = errors.New("token issuer or audience mismatch")

	// ErrMissingAuthHeader indicates no Authorization header was sent.
	ErrMissingAuthHeader = errors.New("missing authorization header")

	// ErrMalformedAuthHeader indicates the Authorization header is not
	// exactly "Bearer" followed by a single token.
	ErrMalformedAuthHeader = errors.New("malformed authorization header")

	// ErrEmptyBearerToken indicates a "Bearer" scheme with a blank token.
	ErrEmptyBearerToken = errors.New("empty bearer token")

	// ErrNoSigningSecret indicates the token service was constructed without
	// a signing secret. Fatal at startup, never per-request.
	ErrNoSigningSecret = errors.New("signing secret is not configured")

	// ErrInvalidCost indicates a bcrypt cost factor outside the accepted
	// range.
	ErrInvalidCost = errors.New("bcrypt cost out of range")

	// ErrMalformedHash indicates a stored hash that is not a product of this
	// hasher.
	ErrMalformedHash = errors.New("stored password hash is malformed")
)
