package middleware_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourvisto/internal/http/middleware"
	"tourvisto/internal/infra"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, middleware.GetRequestID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(middleware.HeaderRequestID)
	_, err := uuid.Parse(generated)
	require.NoError(t, err)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.HeaderRequestID, "req-42")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get(middleware.HeaderRequestID))
}

func TestLoggingWritesStatus(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logging(logger))
	r.GET("/trips/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/trips/abc", nil))
	out := buf.String()
	assert.Contains(t, out, `"status":404`)
	assert.Contains(t, out, `"path":"/trips/:id"`)
	assert.Contains(t, out, `"level":"WARN"`)
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Recovery(quietLogger()))
	r.GET("/", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())
}

func TestIdempotency_NoClientPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var calls int32
	r := gin.New()
	r.POST("/", middleware.Idempotency(nil, time.Minute, quietLogger()), func(c *gin.Context) {
		atomic.AddInt32(&calls, 1)
		c.JSON(http.StatusCreated, gin.H{"id": "x"})
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set(middleware.HeaderIdempotencyKey, "k")
		r.ServeHTTP(httptest.NewRecorder(), req)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

// TestIdempotency_Replay requires a live Redis.
func TestIdempotency_Replay(t *testing.T) {
	addr := os.Getenv("TOURVISTO_REDIS_ADDR")
	if addr == "" {
		t.Skip("TOURVISTO_REDIS_ADDR not set; skipping integration test")
	}
	ctx := context.Background()
	rdb, err := infra.NewRedis(ctx, addr)
	require.NoError(t, err)
	defer rdb.Close()

	var calls int32
	status := http.StatusCreated
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Auth(&stubVerifier{token: &infra.FirebaseToken{UID: "u-idem"}}))
	r.POST("/", middleware.Idempotency(rdb, time.Minute, quietLogger()), func(c *gin.Context) {
		n := atomic.AddInt32(&calls, 1)
		c.JSON(status, gin.H{"id": n})
	})

	key := uuid.NewString()
	defer rdb.Del(ctx, "idempotency:u-idem:"+key)
	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer t")
		req.Header.Set(middleware.HeaderIdempotencyKey, key)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	first := post()
	require.Equal(t, http.StatusCreated, first.Code)
	second := post()
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get(middleware.HeaderIdempotencyHit))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	// An in-flight key is rejected.
	pending := uuid.NewString()
	defer rdb.Del(ctx, "idempotency:u-idem:"+pending)
	require.NoError(t, rdb.Set(ctx, "idempotency:u-idem:"+pending, "PROCESSING", time.Minute).Err())
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer t")
	req.Header.Set(middleware.HeaderIdempotencyKey, pending)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Failures release the key.
	status = http.StatusBadGateway
	failed := uuid.NewString()
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer t")
		req.Header.Set(middleware.HeaderIdempotencyKey, failed)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
	_, err = rdb.Get(ctx, "idempotency:u-idem:"+failed).Result()
	assert.ErrorIs(t, err, redis.Nil)
}

// TestIdempotency_ReleasesKeyOnPanicAndDisconnect requires a live Redis.
func TestIdempotency_ReleasesKeyOnPanicAndDisconnect(t *testing.T) {
	addr := os.Getenv("TOURVISTO_REDIS_ADDR")
	if addr == "" {
		t.Skip("TOURVISTO_REDIS_ADDR not set; skipping integration test")
	}
	ctx := context.Background()
	rdb, err := infra.NewRedis(ctx, addr)
	require.NoError(t, err)
	defer rdb.Close()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Recovery(quietLogger()))
	r.Use(middleware.Auth(&stubVerifier{token: &infra.FirebaseToken{UID: "u-release"}}))
	idem := middleware.Idempotency(rdb, time.Minute, quietLogger())
	r.POST("/panic", idem, func(c *gin.Context) { panic("boom") })

	var cancel context.CancelFunc
	r.POST("/gone", idem, func(c *gin.Context) {
		cancel()
		c.JSON(http.StatusBadGateway, gin.H{"error": "generation failed"})
	})

	for _, path := range []string{"/panic", "/gone"} {
		t.Run(path, func(t *testing.T) {
			key := uuid.NewString()
			redisKey := "idempotency:u-release:" + key
			defer rdb.Del(ctx, redisKey)

			reqCtx, c := context.WithCancel(ctx)
			cancel = c
			defer c()
			req := httptest.NewRequest(http.MethodPost, path, nil).WithContext(reqCtx)
			req.Header.Set("Authorization", "Bearer t")
			req.Header.Set(middleware.HeaderIdempotencyKey, key)
			r.ServeHTTP(httptest.NewRecorder(), req)

			_, err := rdb.Get(ctx, redisKey).Result()
			assert.ErrorIs(t, err, redis.Nil)
		})
	}
}
