package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(3))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit("203.0.113.7"))
	}
	assert.Equal(t, http.StatusTooManyRequests, hit("203.0.113.7"))
	assert.Equal(t, http.StatusOK, hit("198.51.100.2"), "limits are per client")
}

func TestRateLimiterStoreDropsIdleVisitors(t *testing.T) {
	s := newRateLimiterStore(10)
	now := time.Now()
	s.getLimiter("a", now)
	s.getLimiter("b", now.Add(11*time.Minute))

	_, kept := s.visitors["a"]
	assert.False(t, kept)
	assert.Len(t, s.visitors, 1)
}

func TestRateLimiterStoreSweepsAtMostOncePerIdlePeriod(t *testing.T) {
	s := newRateLimiterStore(10)
	t0 := time.Now()
	s.getLimiter("a", t0)
	s.getLimiter("b", t0.Add(time.Minute))
	s.getLimiter("c", t0.Add(10*time.Minute))
	assert.Equal(t, t0.Add(10*time.Minute), s.lastSweep)

	// "b" has been idle 14m but the next sweep is not due until t0+20m.
	s.getLimiter("c", t0.Add(15*time.Minute))
	_, kept := s.visitors["b"]
	assert.True(t, kept)

	s.getLimiter("c", t0.Add(20*time.Minute))
	_, kept = s.visitors["b"]
	assert.False(t, kept)
	assert.Len(t, s.visitors, 1)
}

func TestClientIPHonoursTrustedProxiesOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	require.NoError(t, r.SetTrustedProxies([]string{"10.0.0.0/8"}))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, getClientIP(c)) })

	ip := func(remote string) string {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remote
		req.Header.Set("X-Forwarded-For", "203.0.113.7")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Body.String()
	}

	assert.Equal(t, "203.0.113.7", ip("10.1.2.3:4567"))
	assert.Equal(t, "198.51.100.9", ip("198.51.100.9:4567"), "forwarding headers from untrusted peers are ignored")
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()))
	r.GET("/", func(c *gin.Context) {
		_, ok := c.Get("logger")
		assert.True(t, ok)
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}
