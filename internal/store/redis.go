// internal/store/redis.go
//
// Redis-backed Store shared by every server instance.
// Keys:
//   - session:<id>             JSON Session, DefaultTTL
//   - owner:<date>:<player>    session id, DefaultTTL
//   - lock:session:<id>        random token, LockTTL (SET NX PX)
//
// A lock is released only by the holder whose token is still stored, so a
// holder that outlived LockTTL cannot drop somebody else's lock.

package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func sessionKey(id string) string { return "session:" + id }
func lockKey(id string) string    { return "lock:session:" + id }

var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisStore keeps sessions as JSON strings.
type RedisStore struct {
	rdb     *redis.Client
	ttl     time.Duration
	lockTTL time.Duration
}

// NewRedisStore connects to redisURL and verifies the connection.
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisStoreFromClient(rdb, DefaultTTL), nil
}

// NewRedisStoreFromClient wraps an existing client, for tests.
func NewRedisStoreFromClient(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl, lockTTL: LockTTL}
}

// Close closes the Redis connection.
func (r *RedisStore) Close() error {
	return r.rdb.Close()
}

func (r *RedisStore) Save(ctx context.Context, s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return r.rdb.Set(ctx, sessionKey(s.ID), data, r.ttl).Err()
}

func (r *RedisStore) Get(ctx context.Context, id string) (Session, error) {
	data, err := r.rdb.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("get session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return s, nil
}

func (r *RedisStore) Owner(ctx context.Context, player, date string) (string, error) {
	id, err := r.rdb.Get(ctx, ownerKey(player, date)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get owner: %w", err)
	}
	return id, nil
}

func (r *RedisStore) SetOwner(ctx context.Context, player, date, id string) error {
	if err := r.rdb.Set(ctx, ownerKey(player, date), id, r.ttl).Err(); err != nil {
		return fmt.Errorf("set owner: %w", err)
	}
	return nil
}

func (r *RedisStore) ClearOwner(ctx context.Context, player, date string) error {
	if err := r.rdb.Del(ctx, ownerKey(player, date)).Err(); err != nil {
		return fmt.Errorf("clear owner: %w", err)
	}
	return nil
}

func (r *RedisStore) TryLock(ctx context.Context, id string) (func(), error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return nil, fmt.Errorf("lock token: %w", err)
	}
	token := hex.EncodeToString(b[:])

	ok, err := r.rdb.SetNX(ctx, lockKey(id), token, r.lockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("take lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return func() {
		// the request context may already be cancelled
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := unlockScript.Run(ctx, r.rdb, []string{lockKey(id)}, token).Err(); err != nil {
			log.Warn().Err(err).Str("session", id).Msg("release session lock")
		}
	}, nil
}
