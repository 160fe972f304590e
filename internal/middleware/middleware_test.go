package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/softionyx/site/internal/pkg/jwt"
)

func init() { gin.SetMode(gin.TestMode) }

func withSecret(t *testing.T) {
	t.Helper()
	jwt.SetSecret("middleware-test-secret")
	t.Cleanup(func() { jwt.SetSecret("") })
}

func serve(r *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	req.RemoteAddr = "203.0.113.7:5555"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": {"Bearer " + token}}
}

func TestAuth(t *testing.T) {
	withSecret(t)
	r := gin.New()
	r.GET("/me", Auth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": CurrentUserID(c), "role": CurrentRole(c), "email": CurrentEmail(c)})
	})
	r.GET("/admin", Auth(), RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := serve(r, http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authentication required")

	w = serve(r, http.MethodGet, "/me", bearer("not-a-jwt"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired token")

	expired, err := jwt.Sign(7, "ana@example.com", "user", -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me", bearer(expired)).Code)

	userToken, err := jwt.Sign(7, "ana@example.com", "user", time.Hour)
	require.NoError(t, err)
	w = serve(r, http.MethodGet, "/me", bearer(userToken))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":7,"role":"user","email":"ana@example.com"}`, w.Body.String())

	w = serve(r, http.MethodGet, "/admin", bearer(userToken))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Admin access required")

	adminToken, err := jwt.Sign(1, "admin@softionyx.com", "admin", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodGet, "/admin", bearer(adminToken)).Code)
}

func TestAuthRejectsEverythingWithoutSecret(t *testing.T) {
	withSecret(t)
	token, err := jwt.Sign(7, "ana@example.com", "user", time.Hour)
	require.NoError(t, err)
	jwt.SetSecret("")

	r := gin.New()
	r.GET("/me", Auth(), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me", bearer(token)).Code)
}

func TestOptionalAuth(t *testing.T) {
	withSecret(t)
	r := gin.New()
	r.GET("/help", OptionalAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": CurrentUserID(c)})
	})

	assert.JSONEq(t, `{"id":0}`, serve(r, http.MethodGet, "/help", nil).Body.String())
	assert.JSONEq(t, `{"id":0}`, serve(r, http.MethodGet, "/help", bearer("garbage")).Body.String())

	token, err := jwt.Sign(9, "x@example.com", "user", time.Hour)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":9}`, serve(r, http.MethodGet, "/help", bearer(token)).Body.String())
}

func TestNormalizeToken(t *testing.T) {
	assert.Equal(t, "abc", NormalizeToken("  Bearer abc "))
	assert.Equal(t, "abc", NormalizeToken("bearer abc"))
	assert.Equal(t, "abc", NormalizeToken("abc"))
	assert.Equal(t, "", NormalizeToken("   "))
}

func TestRateLimitBlocksAfterMax(t *testing.T) {
	store := NewMemoryStore()
	r := gin.New()
	r.POST("/contact", RateLimit(store, ContactLimit, zaptest.NewLogger(t)), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 10; i++ {
		w := serve(r, http.MethodPost, "/contact", nil)
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}
	w := serve(r, http.MethodPost, "/contact", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many contact form submissions, please try again later.")
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("RateLimit-Remaining"))
}

func TestAuthLimiterSkipsSuccessfulRequests(t *testing.T) {
	store := NewMemoryStore()
	status := http.StatusOK
	r := gin.New()
	r.POST("/login", RateLimit(store, AuthLimit, zaptest.NewLogger(t)), func(c *gin.Context) {
		c.Status(status)
	})

	for i := 0; i < 20; i++ {
		require.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/login", nil).Code)
	}

	status = http.StatusUnauthorized
	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusUnauthorized, serve(r, http.MethodPost, "/login", nil).Code)
	}
	w := serve(r, http.MethodPost, "/login", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many authentication attempts")
}

func TestMemoryStoreWindowResetAndSweep(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	n, reset, err := store.Incr(ctx, "k", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, time.Hour, reset)

	now = now.Add(30 * time.Minute)
	n, reset, _ = store.Incr(ctx, "k", time.Hour)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, 30*time.Minute, reset)

	now = now.Add(31 * time.Minute)
	store.Sweep()
	assert.Equal(t, 0, store.size())

	n, _, _ = store.Incr(ctx, "k", time.Hour)
	assert.Equal(t, int64(1), n)
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/", nil)
	csp := w.Header().Get("Content-Security-Policy")
	assert.Contains(t, csp, "default-src 'self'")
	assert.Contains(t, csp, "https://my.spline.design")
	assert.NotContains(t, csp, "upgrade-insecure-requests")
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
	assert.Empty(t, w.Header().Get("Cross-Origin-Opener-Policy"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = serve(r, http.MethodGet, "/", http.Header{"X-Forwarded-Proto": {"https"}})
	assert.True(t, strings.HasSuffix(w.Header().Get("Content-Security-Policy"), "upgrade-insecure-requests"))
	assert.Equal(t, "max-age=15552000; includeSubDomains", w.Header().Get("Strict-Transport-Security"))
	assert.Equal(t, "same-origin", w.Header().Get("Cross-Origin-Opener-Policy"))
	assert.Equal(t, "same-origin", w.Header().Get("Cross-Origin-Resource-Policy"))
}

func TestPublicCache(t *testing.T) {
	r := gin.New()
	r.GET("/ok", PublicCache(5*time.Minute), func(c *gin.Context) { c.String(http.StatusOK, "x") })
	r.GET("/missing", PublicCache(5*time.Minute), func(c *gin.Context) { c.String(http.StatusNotFound, "x") })

	w := serve(r, http.MethodGet, "/ok", nil)
	assert.Equal(t, "public, max-age=300, stale-while-revalidate=60", w.Header().Get("Cache-Control"))

	w = serve(r, http.MethodGet, "/ok", bearer("t"))
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")

	w = serve(r, http.MethodGet, "/missing", nil)
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")
}
