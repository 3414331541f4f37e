package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sowmensarker/ambika/internal/repository/idempotency"
)

const (
	// RequestIDKey is the gin context key holding the request id.
	RequestIDKey = "request_id"
	// HeaderRequestID is echoed on every response.
	HeaderRequestID = "X-Request-ID"
	// HeaderIdempotencyKey deduplicates resubmitted writes.
	HeaderIdempotencyKey = "Idempotency-Key"
)

// RequestID tags each request with the incoming X-Request-ID or a fresh uuid.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// Idempotent claims the Idempotency-Key of a write before running it. A replay
// of a claimed key gets 409. Failed writes release the key so they can be retried.
// Requests without the header pass through, as do all requests when the store is down.
func Idempotent(store idempotency.Store, ttl time.Duration, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader(HeaderIdempotencyKey))
		if header == "" || store == nil {
			c.Next()
			return
		}

		key := IdentityFrom(c).UID + ":" + c.Request.Method + ":" + c.Request.URL.Path + ":" + header
		claimed, err := store.MarkProcessed(c.Request.Context(), key, ttl)
		if err != nil {
			logger.Warn("idempotency store unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !claimed {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "request already processed"})
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := store.Release(c.Request.Context(), key); err != nil {
				logger.Warn("failed to release idempotency key", zap.String("key", key), zap.Error(err))
			}
		}
	}
}
