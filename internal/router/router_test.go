package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gibber-dev/gibber/internal/config"
	"github.com/gibber-dev/gibber/internal/handler"
	"github.com/gibber-dev/gibber/internal/jwt"
	"github.com/gibber-dev/gibber/internal/setup"
)

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()
	deps := &setup.Dependencies{
		// Handlers behind auth are not exercised here, so no services needed.
		Handler: handler.New(nil, nil, nil),
		Jwt:     jwt.New("test-secret", time.Hour),
		Config:  &config.Config{},
	}
	return New(deps)
}

func TestProtectedRoutesNeedAuth(t *testing.T) {
	router := newTestRouter(t)

	t.Run("no cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/posts/1", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("garbage cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/posts/1", nil)
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: "not.a.token"})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestHealthIsRateLimitedPerIP(t *testing.T) {
	router := newTestRouter(t)

	get := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = remoteAddr
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr.Code
	}

	for i := 0; i < 10; i++ {
		require.Equal(t, http.StatusOK, get("10.0.0.1:1000"), "request %d should pass", i)
	}
	assert.Equal(t, http.StatusTooManyRequests, get("10.0.0.1:1000"))

	// Another client has its own bucket.
	assert.Equal(t, http.StatusOK, get("10.0.0.2:1000"))
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "http_requests_in_flight")
}
