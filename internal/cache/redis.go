package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/dirabasi/config"
	"github.com/Domenick1991/dirabasi/internal/domain"
	"github.com/Domenick1991/dirabasi/internal/session"
	"github.com/redis/go-redis/v9"
)

const maxUpdateAttempts = 5

// RedisSessionStore keeps selections as JSON under session:<sid>, refreshing the TTL on every write.
type RedisSessionStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisSessionStore(cfg config.RedisConfig, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		ttl:    ttl,
	}
}

// NewRedisSessionStoreWithClient wraps an existing client.
func NewRedisSessionStoreWithClient(client redis.UniversalClient, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (c *RedisSessionStore) Load(ctx context.Context, sid string) (domain.Selection, error) {
	return get(ctx, c.client, sessionKey(sid))
}

// Update runs fn inside WATCH/MULTI and retries when another writer touched the key first.
func (c *RedisSessionStore) Update(ctx context.Context, sid string, fn func(*domain.Selection) error) (domain.Selection, error) {
	key := sessionKey(sid)
	var out domain.Selection

	txf := func(tx *redis.Tx) error {
		sel, err := get(ctx, tx, key)
		if err != nil {
			return err
		}
		if err := fn(&sel); err != nil {
			return err
		}
		payload, err := json.Marshal(sel)
		if err != nil {
			return fmt.Errorf("encode selection: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, c.ttl)
			return nil
		})
		if err == nil {
			out = sel
		}
		return err
	}

	for i := 0; i < maxUpdateAttempts; i++ {
		err := c.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return domain.Selection{}, err
		}
		return out, nil
	}
	return domain.Selection{}, fmt.Errorf("update session %s: too much contention", sid)
}

func (c *RedisSessionStore) Delete(ctx context.Context, sid string) error {
	return c.client.Del(ctx, sessionKey(sid)).Err()
}

func (c *RedisSessionStore) Close() error {
	return c.client.Close()
}

func get(ctx context.Context, cmd redis.Cmdable, key string) (domain.Selection, error) {
	data, err := cmd.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return domain.Selection{}, nil
		}
		return domain.Selection{}, err
	}

	var sel domain.Selection
	if err := json.Unmarshal(data, &sel); err != nil {
		return domain.Selection{}, fmt.Errorf("decode selection: %w", err)
	}
	return sel, nil
}

func sessionKey(sid string) string {
	return fmt.Sprintf("session:%s", sid)
}

var _ session.Store = (*RedisSessionStore)(nil)
