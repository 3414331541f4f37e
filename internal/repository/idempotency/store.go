// Package idempotency remembers Idempotency-Key headers so a resubmitted POST
// is rejected instead of creating a second record.
package idempotency

import (
	"context"
	"time"
)

// Store claims keys for a limited time.
type Store interface {
	// MarkProcessed claims key for ttl. It returns false when the key is already claimed.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release drops a claim so the request can be retried, e.g. after a failed write.
	Release(ctx context.Context, key string) error
	Close() error
}
