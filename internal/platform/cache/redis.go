package cache

import (
	"context"
	"errors"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"

	"github.com/riskibarqy/football-predictions/internal/platform/logging"
)

const redisKeyPrefix = "football-predictions:upstream:"

// Redis shares cached payloads across processes. Every backend error is
// logged and treated as a miss.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
	now    func() time.Time
}

func NewRedisFromURL(rawURL string, ttl time.Duration, logger *logging.Logger) (*Redis, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, crerr.Wrap(err, "parse redis url")
	}
	return NewRedis(redis.NewClient(opts), ttl, logger), nil
}

func NewRedis(client *redis.Client, ttl time.Duration, logger *logging.Logger) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Redis{client: client, ttl: ttl, logger: logger, now: time.Now}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	value, _, ok := r.GetWithExpiry(ctx, key)
	return value, ok
}

// GetWithExpiry reads the value and its PTTL in one round trip.
func (r *Redis) GetWithExpiry(ctx context.Context, key string) ([]byte, time.Time, bool) {
	if key == "" {
		return nil, time.Time{}, false
	}

	var (
		getCmd  *redis.StringCmd
		pttlCmd *redis.DurationCmd
	)
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		getCmd = pipe.Get(ctx, redisKeyPrefix+key)
		pttlCmd = pipe.PTTL(ctx, redisKeyPrefix+key)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		r.logger.WarnContext(ctx, "redis cache get failed", "key", key, "error", err)
		return nil, time.Time{}, false
	}

	value, err := getCmd.Bytes()
	if err != nil {
		return nil, time.Time{}, false
	}
	// PTTL is -1 for a key without expiry and -2 once it is gone.
	remaining := pttlCmd.Val()
	switch {
	case remaining == -2:
		return nil, time.Time{}, false
	case remaining < 0:
		remaining = r.ttl
	}
	return value, r.now().Add(remaining), true
}

// SetUntil writes with the time left until expiresAt, capped at the store TTL.
func (r *Redis) SetUntil(ctx context.Context, key string, value []byte, expiresAt time.Time) {
	if key == "" {
		return
	}
	ttl := r.ttl
	if !expiresAt.IsZero() {
		if remaining := expiresAt.Sub(r.now()); remaining < ttl {
			ttl = remaining
		}
	}
	if ttl <= 0 {
		return
	}
	if err := r.client.Set(ctx, redisKeyPrefix+key, value, ttl).Err(); err != nil {
		r.logger.WarnContext(ctx, "redis cache set failed", "key", key, "error", err)
	}
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) {
	r.SetUntil(ctx, key, value, time.Time{})
}

func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return crerr.Wrap(err, "ping redis")
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
