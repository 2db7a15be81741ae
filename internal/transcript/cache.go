package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/visualtutor-ai/tutor-platform/internal/model"
	"github.com/visualtutor-ai/tutor-platform/pkg/metrics"
)

// TTL is how long a fetched transcript stays usable.
const TTL = 7 * 24 * time.Hour

const keyPrefix = "transcript:"

// Cache stores transcript entries in redis, keyed by video id. The store is
// externally owned and multi-writer: two concurrent misses for the same
// video may both upsert, last writer wins, which is fine since the content
// is idempotent per video.
type Cache struct {
	client *redis.Client
	now    func() time.Time
}

// NewCache creates a transcript cache on the given redis client.
func NewCache(client *redis.Client) *Cache {
	return &Cache{
		client: client,
		now:    time.Now,
	}
}

// Lookup returns the cached entry for a video id, or absent on a miss or
// when the entry has passed its expiry. There is no partial or soft expiry.
func (c *Cache) Lookup(ctx context.Context, videoID string) (*model.TranscriptEntry, bool, error) {
	data, err := c.client.Get(ctx, keyPrefix+videoID).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordCacheLookup("miss")
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("transcript cache read failed: %w", err)
	}

	var entry model.TranscriptEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false, fmt.Errorf("transcript cache entry corrupt: %w", err)
	}

	if !entry.Valid(c.now()) {
		metrics.RecordCacheLookup("expired")
		return nil, false, nil
	}

	metrics.RecordCacheLookup("hit")
	return &entry, true, nil
}

// Store upserts an entry keyed by video id, overwriting any prior entry, and
// sets its expiry to fetched_at + TTL.
func (c *Cache) Store(ctx context.Context, entry *model.TranscriptEntry) error {
	entry.ExpiresAt = entry.FetchedAt.Add(TTL)

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript entry: %w", err)
	}

	ttl := entry.ExpiresAt.Sub(c.now())
	if ttl <= 0 {
		ttl = time.Second
	}

	if err := c.client.Set(ctx, keyPrefix+entry.VideoID, data, ttl).Err(); err != nil {
		return fmt.Errorf("transcript cache write failed: %w", err)
	}
	return nil
}
