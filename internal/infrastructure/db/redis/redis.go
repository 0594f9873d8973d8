// Package redis keeps the console session under namespaced Redis keys.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	clientName  = "ims-console"
	dialTimeout = 5 * time.Second
)

// Config addresses a single Redis node.
type Config struct {
	Addr     string
	Password string
	DB       int
	// Timeout applies to dialing, reads, writes and the startup ping.
	Timeout time.Duration
}

// Connect opens a client and checks the node answers PING.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis: address is required")
	}
	wait := cfg.Timeout
	if wait <= 0 {
		wait = dialTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ClientName:   clientName,
		DialTimeout:  wait,
		ReadTimeout:  wait,
		WriteTimeout: wait,
	})

	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}
