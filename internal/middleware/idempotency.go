package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyHeader    = "Idempotency-Key"
	idempotencyKeyPrefix = "ridebooking:idemp:"
	idempotencyTTL       = 24 * time.Hour
)

// storedReply is the replayable part of a response. Retried bookings, top-ups
// and settlements must not run twice, so the first outcome is what every retry
// with the same key gets back.
type storedReply struct {
	Status      int             `json:"status"`
	ContentType string          `json:"content_type,omitempty"`
	Body        json.RawMessage `json:"body"`
}

type bufferedWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bufferedWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response for a repeated Idempotency-Key on
// mutating requests. Requests without a key pass through, and a Redis outage
// degrades to normal (non-idempotent) handling rather than failing the call.
func Idempotency(client *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}

		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		redisKey := idempotencyKeyPrefix + key

		if data, err := client.Get(ctx, redisKey).Bytes(); err == nil {
			var reply storedReply
			if json.Unmarshal(data, &reply) == nil {
				contentType := reply.ContentType
				if contentType == "" {
					contentType = "application/json"
				}
				c.Data(reply.Status, contentType, reply.Body)
				c.Abort()
				return
			}
		} else if !errors.Is(err, redis.Nil) {
			c.Next()
			return
		}

		w := &bufferedWriter{ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		// Server errors stay uncached so a retry can still succeed.
		status := c.Writer.Status()
		if status >= http.StatusInternalServerError {
			return
		}

		data, err := json.Marshal(storedReply{
			Status:      status,
			ContentType: c.Writer.Header().Get("Content-Type"),
			Body:        w.buf.Bytes(),
		})
		if err != nil {
			return
		}
		_ = client.Set(ctx, redisKey, data, idempotencyTTL).Err()
	}
}
