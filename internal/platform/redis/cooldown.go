// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package redis

import (
	stdctx "context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cooldown grants at most one action per key and interval across all replicas.
type Cooldown struct {
	client   redis.Cmdable
	prefix   string
	interval time.Duration
}

// NewCooldown creates a cooldown namespace. A zero interval disables it.
func NewCooldown(client redis.Cmdable, prefix string, interval time.Duration) *Cooldown {
	return &Cooldown{client: client, prefix: prefix, interval: interval}
}

/*
Acquire claims key for the configured interval.

Returns:
  - bool: false when the key is still cooling down
  - time.Duration: remaining wait when not acquired
  - error: Redis failures
*/
func (cooldown *Cooldown) Acquire(context stdctx.Context, key string) (bool, time.Duration, error) {
	if cooldown.interval <= 0 {
		return true, 0, nil
	}

	fullKey := cooldown.prefix + key
	acquired, err := cooldown.client.SetNX(context, fullKey, time.Now().Unix(), cooldown.interval).Result()
	if err != nil {
		return false, 0, fmt.Errorf("redis: cooldown acquire: %w", err)
	}
	if acquired {
		return true, 0, nil
	}

	remaining, err := cooldown.client.PTTL(context, fullKey).Result()
	if err != nil || remaining < 0 {
		remaining = cooldown.interval
	}
	return false, remaining, nil
}

// Release ends the cooldown of key early, e.g. when the guarded action failed.
func (cooldown *Cooldown) Release(context stdctx.Context, key string) error {
	if cooldown.interval <= 0 {
		return nil
	}
	if err := cooldown.client.Del(context, cooldown.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis: cooldown release: %w", err)
	}
	return nil
}
