// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis holds the short-lived coordination state of the API.

Only the resend cooldown of confirmation codes lives here. It must be shared
by every replica and expire on its own, which rules out process memory.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// clientName identifies API connections in CLIENT LIST.
const clientName = "yamdb-api"

// Cooldown keys are touched once per code request, so a small pool suffices.
const (
	poolSize     = 4
	minIdleConns = 1
	opTimeout    = 2 * time.Second
)

/*
NewClient connects to the Redis server at redisURL and verifies it answers.

Parameters:
  - context: context.Context (bounds the initial ping)
  - redisURL: string (redis:// or rediss:// URL)
  - logger: *slog.Logger

Returns:
  - *redis.Client: Connected client
  - error: Malformed URL or unreachable server
*/
func NewClient(context stdctx.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}

	options.ClientName = clientName
	options.PoolSize = poolSize
	options.MinIdleConns = minIdleConns
	options.DialTimeout = opTimeout
	options.ReadTimeout = opTimeout
	options.WriteTimeout = opTimeout

	client := redis.NewClient(options)
	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_connected", slog.String("addr", options.Addr), slog.Int("db", options.DB))
	return client, nil
}

// Ping reports whether client answers within the operation timeout.
func Ping(context stdctx.Context, client *redis.Client) error {
	pingCtx, cancel := stdctx.WithTimeout(context, opTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping: %w", err)
	}
	return nil
}
