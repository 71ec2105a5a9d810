package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/savannaherds/site-api/internal/core/ports"
)

// SubmissionDedup remembers contact submissions for a window so that repeated
// form posts are not mailed twice.
type SubmissionDedup struct {
	client *redis.Client
}

var _ ports.SubmissionDedup = (*SubmissionDedup)(nil)

// NewSubmissionDedup creates a SubmissionDedup wrapping the given Redis client.
func NewSubmissionDedup(client *redis.Client) *SubmissionDedup {
	return &SubmissionDedup{client: client}
}

// Seen marks key and reports whether it was already marked within window.
// Check and mark are a single SET NX, so concurrent duplicates see true.
func (d *SubmissionDedup) Seen(ctx context.Context, key string, window time.Duration) (bool, error) {
	ok, err := d.client.SetNX(ctx, "dedup:"+key, "1", window).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return !ok, nil
}
