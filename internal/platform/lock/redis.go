package lock

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// ConnectRedis opens a client and pings it.
func ConnectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("could not connect to Redis at %s: %w", addr, err)
	}
	log.Println("Successfully connected to Redis!")
	return rdb, nil
}

// RedisLocker holds locks as SET NX PX keys so several API instances share them.
type RedisLocker struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisLocker(rdb *redis.Client, prefix string, ttl time.Duration) *RedisLocker {
	return &RedisLocker{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (l *RedisLocker) Acquire(ctx context.Context, keys ...string) (func(), error) {
	keys = normalizeKeys(keys)
	value := uuid.NewString()

	var acquired []string
	err := retryUntilAcquired(ctx, func() (bool, error) {
		var ok bool
		var err error
		acquired, ok, err = l.tryAcquire(ctx, keys, value)
		return ok, err
	})
	if err != nil {
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.release(acquired, value) })
	}, nil
}

// tryAcquire sets every key or rolls back the ones it managed to set.
func (l *RedisLocker) tryAcquire(ctx context.Context, keys []string, value string) ([]string, bool, error) {
	acquired := make([]string, 0, len(keys))
	for _, k := range keys {
		key := l.prefix + k
		ok, err := l.rdb.SetNX(ctx, key, value, l.ttl).Result()
		if err != nil {
			l.release(acquired, value)
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, false, fmt.Errorf("%w: %v", ErrLocked, ctxErr)
			}
			return nil, false, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if !ok {
			l.release(acquired, value)
			return nil, false, nil
		}
		acquired = append(acquired, key)
	}
	return acquired, true, nil
}

// release runs on a fresh context so a cancelled request still frees its keys.
func (l *RedisLocker) release(keys []string, value string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for _, key := range keys {
		if _, err := releaseScript.Run(ctx, l.rdb, []string{key}, value).Result(); err != nil {
			log.Printf("ERROR: Failed to release lock %s: %v", key, err)
		}
	}
}
