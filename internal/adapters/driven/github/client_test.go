package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/autoscore/internal/core/domain"
)

// newTestClient serves mux over httptest and returns a client pointed at it
// with throttling disabled.
func newTestClient(t *testing.T, token string, mux *http.ServeMux) *Client {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return NewClient(
		&StaticTokenProvider{token: token},
		WithBaseURL(server.URL),
		WithRateLimiter(NewRateLimiter(1000, AuthenticatedLimit)),
	)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestClient_Lookup(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/student/Prototype-4", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(HeaderRateRemaining, "4999")
		w.Header().Set(HeaderRateLimit, "5000")
		writeJSON(w, http.StatusOK, `{"full_name":"student/Prototype-4","private":true,"default_branch":"master"}`)
	})
	client := newTestClient(t, "", mux)

	info, err := client.Lookup(context.Background(), "student", "Prototype-4")
	require.NoError(t, err)
	assert.Equal(t, "student/Prototype-4", info.FullName)
	assert.True(t, info.Private)
	assert.Equal(t, "master", info.DefaultBranch)

	remaining, limit, _ := client.RateLimiter().Snapshot()
	assert.Equal(t, 4999, remaining)
	assert.Equal(t, 5000, limit)
}

func TestClient_Lookup_SendsToken(t *testing.T) {
	var auth string
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/student/Prototype-4", func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, `{"full_name":"student/Prototype-4"}`)
	})
	client := newTestClient(t, "ghp_secret", mux)

	_, err := client.Lookup(context.Background(), "student", "Prototype-4")
	require.NoError(t, err)
	assert.Equal(t, "Bearer ghp_secret", auth)
}

func TestClient_Lookup_Anonymous(t *testing.T) {
	var auth string
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/student/Prototype-4", func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, `{"full_name":"student/Prototype-4"}`)
	})
	client := newTestClient(t, "", mux)

	_, err := client.Lookup(context.Background(), "student", "Prototype-4")
	require.NoError(t, err)
	assert.Empty(t, auth)
}

func TestClient_Lookup_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusNotFound, `{"message":"Not Found"}`)
			},
			check: func(t *testing.T, err error) {
				assert.True(t, IsNotFound(err))
				assert.True(t, errors.Is(err, domain.ErrNotFound))
				assert.Contains(t, err.Error(), "404")
			},
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusBadGateway, `{"message":"Bad Gateway"}`)
			},
			check: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, domain.ErrHostUnavailable))
				assert.False(t, IsNotFound(err))
			},
		},
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusUnauthorized, `{"message":"Bad credentials"}`)
			},
			check: func(t *testing.T, err error) {
				assert.True(t, IsUnauthorized(err))
				assert.False(t, errors.Is(err, domain.ErrHostUnavailable))
			},
		},
		{
			name: "primary rate limit",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set(HeaderRateRemaining, "0")
				w.Header().Set(HeaderRateLimit, "60")
				w.Header().Set(HeaderRateReset, strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10))
				writeJSON(w, http.StatusForbidden, `{"message":"API rate limit exceeded"}`)
			},
			check: func(t *testing.T, err error) {
				assert.True(t, IsRateLimited(err))
				assert.True(t, errors.Is(err, domain.ErrHostUnavailable))

				var rl *RateLimitError
				require.True(t, errors.As(err, &rl))
				assert.Equal(t, 0, rl.Remaining)
				assert.Equal(t, 60, rl.Limit)
			},
		},
		{
			name: "too many requests",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusTooManyRequests, `{"message":"slow down"}`)
			},
			check: func(t *testing.T, err error) {
				assert.True(t, IsRateLimited(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/repos/student/homework", tt.handler)
			client := newTestClient(t, "", mux)

			info, err := client.Lookup(context.Background(), "student", "homework")
			require.Error(t, err)
			assert.Nil(t, info)
			tt.check(t, err)
		})
	}
}

func TestClient_ListBranches_Paginates(t *testing.T) {
	var server *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/student/Prototype-4/branches", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			writeJSON(w, http.StatusOK, `[{"name":"lesson-1"}]`)
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s/repos/student/Prototype-4/branches?page=2>; rel="next"`, server.URL))
		writeJSON(w, http.StatusOK, `[{"name":"master"},{"name":"lesson-0"}]`)
	})
	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewClient(
		NewTokenProvider("tok"),
		WithBaseURL(server.URL+"/"),
		WithRateLimiter(NewRateLimiter(1000, AuthenticatedLimit)),
	)

	names, err := client.ListBranches(context.Background(), "student", "Prototype-4")
	require.NoError(t, err)
	assert.Equal(t, []string{"master", "lesson-0", "lesson-1"}, names)
}

func TestClient_ListBranches_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/student/gone/branches", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"message":"Not Found"}`)
	})
	client := newTestClient(t, "", mux)

	_, err := client.ListBranches(context.Background(), "student", "gone")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_CanceledContext(t *testing.T) {
	client := NewClient(NewTokenProvider(""), WithBaseURL("http://127.0.0.1:1"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Lookup(ctx, "student", "Prototype-4")
	assert.Error(t, err)
}

func TestNewClient_DefaultQuota(t *testing.T) {
	t.Setenv(TokenEnv, "")

	anon := NewClient(NewTokenProvider(""))
	_, limit, _ := anon.RateLimiter().Snapshot()
	assert.Equal(t, AnonymousLimit, limit)

	authed := NewClient(NewTokenProvider("tok"))
	_, limit, _ = authed.RateLimiter().Snapshot()
	assert.Equal(t, AuthenticatedLimit, limit)
}
