package capabilities

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/odyssey-erp/backoffice-engine/internal/gate"
)

const redisKeyPrefix = "capabilities:"

// NewRedisClient connects and pings Redis.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("capabilities: ping: %w", err)
	}

	return client, nil
}

// RedisStore shares capability sets between processes. Expiry is left to
// Redis.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) key(userID string) string {
	return redisKeyPrefix + userID
}

// Get loads the set of userID.
func (s *RedisStore) Get(ctx context.Context, userID string) (gate.Capabilities, bool, error) {
	raw, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return gate.Capabilities{}, false, nil
	}
	if err != nil {
		return gate.Capabilities{}, false, fmt.Errorf("capabilities: get %s: %w", userID, err)
	}
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return gate.Capabilities{}, false, fmt.Errorf("capabilities: decode %s: %w", userID, err)
	}
	return gate.NewCapabilities(names...), true, nil
}

// Set stores caps with the store TTL.
func (s *RedisStore) Set(ctx context.Context, userID string, caps gate.Capabilities) error {
	if userID == "" {
		return ErrUserRequired
	}
	raw, err := json.Marshal(caps.List())
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(userID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("capabilities: set %s: %w", userID, err)
	}
	return nil
}

// Invalidate deletes the set of userID.
func (s *RedisStore) Invalidate(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("capabilities: invalidate %s: %w", userID, err)
	}
	return nil
}
