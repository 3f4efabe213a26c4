package github

import (
	"context"
	"os"
	"strings"

	"github.com/custodia-labs/autoscore/internal/core/ports/driven"
)

// TokenEnv is consulted when no token is configured.
const TokenEnv = "GITHUB_TOKEN"

// Ensure StaticTokenProvider implements the interface.
var _ driven.TokenProvider = (*StaticTokenProvider)(nil)

// StaticTokenProvider serves a fixed token.
type StaticTokenProvider struct {
	token string
}

// NewTokenProvider returns a provider for token, falling back to the
// GITHUB_TOKEN environment variable when token is empty.
func NewTokenProvider(token string) *StaticTokenProvider {
	token = strings.TrimSpace(token)
	if token == "" {
		token = strings.TrimSpace(os.Getenv(TokenEnv))
	}
	return &StaticTokenProvider{token: token}
}

// GetToken returns the token, or "" for anonymous access.
func (p *StaticTokenProvider) GetToken(context.Context) (string, error) {
	return p.token, nil
}

// IsAuthenticated reports whether a token is set.
func (p *StaticTokenProvider) IsAuthenticated() bool {
	return p.token != ""
}
