package registry

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// redisKeyPrefix namespaces session entries in a shared Redis instance.
const redisKeyPrefix = "session:"

// Redis is a Registry backed by a Redis instance, for multi-instance
// deployments where every replica must observe the same revocations. Expiry is
// delegated to Redis key TTLs, so no sweep is needed.
type Redis struct {
	client *redis.Client
}

// NewRedis returns a Redis-backed registry using the given client. The caller
// owns the client lifecycle.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// NewRedisFromURL connects to the Redis instance described by url
// (e.g. redis://localhost:6379/0) and verifies the connection.
func NewRedisFromURL(ctx context.Context, url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &Redis{client: client}, nil
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Register stores or overwrites the entry with a Redis key TTL of ttl.
func (r *Redis) Register(ctx context.Context, sessionID string, subjectID int64, ttl time.Duration) error {
	if ttl <= 0 {
		// Redis rejects non-positive expirations; an already-expired entry is
		// equivalent to no entry.
		return nil
	}
	return r.client.Set(ctx, redisKeyPrefix+sessionID, strconv.FormatInt(subjectID, 10), ttl).Err()
}

// Lookup returns the owning subject id, or absent once the key TTL has fired.
func (r *Redis) Lookup(ctx context.Context, sessionID string) (int64, bool, error) {
	val, err := r.client.Get(ctx, redisKeyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	subjectID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return subjectID, true, nil
}

// Revoke deletes the entry. Deleting a missing key is a no-op in Redis, which
// gives the required idempotence for free.
func (r *Redis) Revoke(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, redisKeyPrefix+sessionID).Err()
}

// Size counts session keys with SCAN. Approximate by design; fine for the
// monitoring gauge, too slow for anything on the request path.
func (r *Redis) Size(ctx context.Context) (int, error) {
	var cursor uint64
	n := 0
	for {
		keys, next, err := r.client.Scan(ctx, cursor, redisKeyPrefix+"*", 512).Result()
		if err != nil {
			return 0, err
		}
		n += len(keys)
		cursor = next
		if cursor == 0 {
			return n, nil
		}
	}
}
