package visitor

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quizdeck/backend/internal/domain/progress"
)

const progressKeyPrefix = "quiz:progress:"

// RedisStore keeps visitor state in Redis; expiry is the key TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func progressKey(token string) string {
	return progressKeyPrefix + token
}

func (r *RedisStore) Get(ctx context.Context, token string) (*progress.Progress, error) {
	data, err := r.client.Get(ctx, progressKey(token)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var p progress.Progress
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Save writes p with a TTL matching its expiry, or the store's default TTL.
func (r *RedisStore) Save(ctx context.Context, p *progress.Progress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	ttl := r.ttl
	if !p.ExpiresAt.IsZero() {
		if left := time.Until(p.ExpiresAt); left > 0 {
			ttl = left
		}
	}
	return r.client.Set(ctx, progressKey(p.Token), data, ttl).Err()
}

func (r *RedisStore) Delete(ctx context.Context, token string) error {
	return r.client.Del(ctx, progressKey(token)).Err()
}
