package driven

import "context"

// TokenProvider provides access tokens for authenticated repository host calls.
type TokenProvider interface {
	// GetToken returns the access token, or "" for anonymous access.
	GetToken(ctx context.Context) (string, error)

	// IsAuthenticated reports whether a token is available.
	IsAuthenticated() bool
}
