package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sdsposter/internal/config"
	"sdsposter/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"session": middleware.GetSessionID(c)})
	})
	return r
}

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	r := newEngine(middleware.RequestID())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	_, err := uuid.Parse(w.Header().Get(middleware.HeaderRequestID))
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(middleware.HeaderRequestID, "req-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get(middleware.HeaderRequestID))
}

func TestSession_IssuesWhenMissing(t *testing.T) {
	r := newEngine(middleware.Session())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	issued := w.Header().Get(middleware.HeaderSessionID)
	_, err := uuid.Parse(issued)
	require.NoError(t, err)
	assert.Contains(t, w.Body.String(), issued)
}

func TestSession_EchoesValidID(t *testing.T) {
	r := newEngine(middleware.Session())
	id := uuid.New().String()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(middleware.HeaderSessionID, id)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, id, w.Header().Get(middleware.HeaderSessionID))
}

func TestSession_ReplacesInvalidID(t *testing.T) {
	r := newEngine(middleware.Session())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(middleware.HeaderSessionID, "../../etc/passwd")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	got := w.Header().Get(middleware.HeaderSessionID)
	assert.NotEqual(t, "../../etc/passwd", got)
	_, err := uuid.Parse(got)
	assert.NoError(t, err)
}

func TestCORS_AllowedOrigin(t *testing.T) {
	r := newEngine(middleware.CORS([]string{"http://localhost:5173"}))

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), middleware.HeaderExtractionKey)
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), middleware.HeaderSessionID)
}

func TestCORS_UnknownOrigin(t *testing.T) {
	r := newEngine(middleware.CORS([]string{"http://localhost:5173"}))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit_RejectsBeyondBurst(t *testing.T) {
	r := newEngine(middleware.RateLimit(config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 60,
		Burst:             2,
		IdleTTL:           time.Minute,
	}))

	do := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, do("10.0.0.1").Code)

	w := do("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")

	assert.Equal(t, http.StatusOK, do("10.0.0.2").Code)
}

func TestRateLimit_Disabled(t *testing.T) {
	r := newEngine(middleware.RateLimit(config.RateLimitConfig{Enabled: false, RequestsPerMinute: 1, Burst: 1}))

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestIPLimiter_RejectedReservationDoesNotConsume(t *testing.T) {
	l := middleware.NewIPLimiter(60, 1, time.Minute)

	ok, _ := l.Reserve("a")
	require.True(t, ok)

	for i := 0; i < 3; i++ {
		ok, wait := l.Reserve("a")
		assert.False(t, ok)
		assert.LessOrEqual(t, wait, time.Second)
	}
}
