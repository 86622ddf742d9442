package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "auth:revoked:"

// TokenDenylist records revoked token ids until their natural expiry.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type redisTokenDenylist struct {
	client *redis.Client
}

// NewRedisTokenDenylist stores revocations as expiring Redis keys.
func NewRedisTokenDenylist(client *redis.Client) TokenDenylist {
	return &redisTokenDenylist{client: client}
}

func (d *redisTokenDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, revokedKeyPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (d *redisTokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := d.client.Get(ctx, revokedKeyPrefix+tokenID).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, fmt.Errorf("check revoked token: %w", err)
	}
}

type memoryTokenDenylist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryTokenDenylist keeps revocations in process memory.
func NewMemoryTokenDenylist() TokenDenylist {
	return &memoryTokenDenylist{entries: make(map[string]time.Time), now: time.Now}
}

func (d *memoryTokenDenylist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for id, exp := range d.entries {
		if !now.Before(exp) {
			delete(d.entries, id)
		}
	}
	d.entries[tokenID] = now.Add(ttl)
	return nil
}

func (d *memoryTokenDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	exp, ok := d.entries[tokenID]
	if !ok {
		return false, nil
	}
	if !d.now().Before(exp) {
		delete(d.entries, tokenID)
		return false, nil
	}
	return true, nil
}
