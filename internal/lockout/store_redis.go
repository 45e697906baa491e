package lockout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	rdb "github.com/redis/go-redis/v9"
)

// RedisStore comparte los contadores entre instancias. Cada identidad es un
// hash {count, locked_until(unix ms)} con TTL en la clave.
type RedisStore struct {
	Client *rdb.Client
	Prefix string
}

func NewRedisStore(client *rdb.Client, prefix string) *RedisStore {
	return &RedisStore{Client: client, Prefix: prefix + "lockout:"}
}

func (r *RedisStore) key(k string) string { return r.Prefix + k }

func (r *RedisStore) Increment(ctx context.Context, key string, ttl time.Duration) (int, error) {
	k := r.key(key)
	pipe := r.Client.TxPipeline()
	incr := pipe.HIncrBy(ctx, k, "count", 1)
	if ttl > 0 {
		pipe.Expire(ctx, k, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("lockout: redis incr: %w", err)
	}
	return int(incr.Val()), nil
}

func (r *RedisStore) Get(ctx context.Context, key string) (Record, bool, error) {
	vals, err := r.Client.HGetAll(ctx, r.key(key)).Result()
	if errors.Is(err, rdb.Nil) || (err == nil && len(vals) == 0) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("lockout: redis get: %w", err)
	}
	var rec Record
	if v, ok := vals["count"]; ok {
		rec.Count, _ = strconv.Atoi(v)
	}
	if v, ok := vals["locked_until"]; ok {
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil && ms > 0 {
			rec.LockedUntil = time.UnixMilli(ms)
		}
	}
	return rec, true, nil
}

func (r *RedisStore) Lock(ctx context.Context, key string, until time.Time, ttl time.Duration) error {
	k := r.key(key)
	pipe := r.Client.TxPipeline()
	pipe.HSet(ctx, k, "locked_until", until.UnixMilli())
	if ttl > 0 {
		// TTL relativo: no depende de que el reloj de Redis coincida con el nuestro
		pipe.PExpire(ctx, k, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("lockout: redis lock: %w", err)
	}
	return nil
}

func (r *RedisStore) Reset(ctx context.Context, key string) error {
	if err := r.Client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("lockout: redis reset: %w", err)
	}
	return nil
}
