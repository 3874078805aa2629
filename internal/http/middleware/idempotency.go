package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderIdempotencyHit = "X-Idempotency-Hit"

	idempotencyPending = "PROCESSING"
	idempotencyTTL     = 24 * time.Hour
)

type storedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// bodyCapture tees the response body so it can be stored after the handler runs.
type bodyCapture struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyCapture) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the first successful response for a repeated
// Idempotency-Key from the same caller. Keys are scoped per uid, so it must
// run after Auth. lockTTL bounds how long an in-flight request holds the key.
// Non-2xx responses release the key so the client can retry. A nil client
// or a Redis failure lets the request through unprotected.
func Idempotency(rdb *redis.Client, lockTTL time.Duration, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if rdb == nil || key == "" {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		redisKey := fmt.Sprintf("idempotency:%s:%s", CallerUID(c), key)

		val, err := rdb.Get(ctx, redisKey).Result()
		switch {
		case err == nil && val == idempotencyPending:
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "request in progress"})
			return
		case err == nil:
			var stored storedResponse
			if json.Unmarshal([]byte(val), &stored) == nil {
				c.Header(HeaderIdempotencyHit, "true")
				c.Data(stored.Status, "application/json; charset=utf-8", stored.Body)
				c.Abort()
				return
			}
			logger.WarnContext(ctx, "discarding unreadable idempotency record", "key", redisKey)
			rdb.Del(ctx, redisKey)
		case !errors.Is(err, redis.Nil):
			logger.WarnContext(ctx, "idempotency lookup failed", "error", err)
			c.Next()
			return
		}

		acquired, err := rdb.SetNX(ctx, redisKey, idempotencyPending, lockTTL).Result()
		if err != nil {
			logger.WarnContext(ctx, "idempotency lock failed", "error", err)
			c.Next()
			return
		}
		if !acquired {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "request in progress"})
			return
		}

		// The key is settled even if the handler panics or the client goes away.
		settleCtx := context.WithoutCancel(ctx)
		stored := false
		defer func() {
			if !stored {
				rdb.Del(settleCtx, redisKey)
			}
		}()

		capture := &bodyCapture{ResponseWriter: c.Writer}
		c.Writer = capture
		c.Next()

		status := capture.Status()
		if status < 200 || status > 299 || !json.Valid(capture.buf.Bytes()) {
			return
		}
		record, _ := json.Marshal(storedResponse{Status: status, Body: capture.buf.Bytes()})
		if err := rdb.Set(settleCtx, redisKey, record, idempotencyTTL).Err(); err != nil {
			logger.WarnContext(ctx, "idempotency store failed", "error", err)
			return
		}
		stored = true
	}
}
