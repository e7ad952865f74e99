package cache

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis wraps a go-redis client with the helpers the bot needs: inbound
// message dedupe and per-sender turn locks.
type Redis struct {
	client *redis.Client
	logger *slog.Logger
}

// Config defines connection parameters for Redis.
type Config struct {
	Addr     string
	Password string
	DB       int
	UseTLS   bool
}

// New returns a Redis client based on provided configuration.
func New(cfg Config, logger *slog.Logger) *Redis {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.UseTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	return &Redis{
		client: redis.NewClient(opts),
		logger: logger.With("component", "redis"),
	}
}

// Client exposes the underlying go-redis client.
func (r *Redis) Client() *redis.Client {
	return r.client
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// MarkSeen records an inbound gateway message id and reports whether it was
// seen before within the TTL. Gateways retry webhooks on slow responses, so
// a repeated id means the turn was already processed.
func (r *Redis) MarkSeen(ctx context.Context, messageID string, ttl time.Duration) (bool, error) {
	if messageID == "" {
		return false, nil
	}
	set, err := r.client.SetNX(ctx, "inbound:seen:"+messageID, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx %s: %w", messageID, err)
	}
	return !set, nil
}

// AcquireTurnLock takes a cross-instance lock for a sender's turn. Returns
// false when another instance holds the lock.
func (r *Redis) AcquireTurnLock(ctx context.Context, senderID string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, turnLockKey(senderID), 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis acquire turn lock: %w", err)
	}
	return ok, nil
}

// ReleaseTurnLock releases a previously acquired turn lock.
func (r *Redis) ReleaseTurnLock(ctx context.Context, senderID string) {
	if err := r.client.Del(ctx, turnLockKey(senderID)).Err(); err != nil {
		r.logger.Warn("failed releasing turn lock", "sender", senderID, "error", err)
	}
}

// Close releases Redis resources.
func (r *Redis) Close() error {
	return r.client.Close()
}

func turnLockKey(senderID string) string {
	return "turn:lock:" + senderID
}
