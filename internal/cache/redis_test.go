package cache

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/dirabasi/config"
	"github.com/Domenick1991/dirabasi/internal/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisSessionStore(t *testing.T) {
	store := NewRedisSessionStore(config.RedisConfig{Addr: "localhost:6379"}, time.Hour)
	assert.NotNil(t, store)
	assert.Equal(t, time.Hour, store.ttl)
	assert.NoError(t, store.Close())
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "session:abc", sessionKey("abc"))
}

func TestRedisSessionStore_UnreachableServer(t *testing.T) {
	store := NewRedisSessionStore(config.RedisConfig{Addr: "127.0.0.1:1"}, time.Hour)
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := store.Load(ctx, "sid")
	assert.Error(t, err)
}

func newMiniredisStore(t *testing.T) (*RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisSessionStoreWithClient(client, 30*time.Minute)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisSessionStore_UpdateAndLoad(t *testing.T) {
	ctx := context.Background()
	store, mr := newMiniredisStore(t)

	sel, err := store.Update(ctx, "sid", func(s *domain.Selection) error {
		s.Route = &domain.Route{ID: 1, Name: "Kimara - Kivukoni"}
		s.Step = domain.StepStationChoice
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), sel.Route.ID)

	loaded, err := store.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, sel, loaded)
	assert.Equal(t, 30*time.Minute, mr.TTL("session:sid"))
}

func TestRedisSessionStore_FailedUpdateWritesNothing(t *testing.T) {
	ctx := context.Background()
	store, mr := newMiniredisStore(t)

	_, err := store.Update(ctx, "sid", func(s *domain.Selection) error {
		s.Step = domain.StepReceipt
		return domain.ConflictError{Resource: "booking"}
	})
	assert.True(t, domain.IsConflict(err))
	assert.False(t, mr.Exists("session:sid"))
}

func TestRedisSessionStore_RetriesOnConcurrentWrite(t *testing.T) {
	ctx := context.Background()
	store, mr := newMiniredisStore(t)

	other := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer other.Close()

	attempts := 0
	sel, err := store.Update(ctx, "sid", func(s *domain.Selection) error {
		attempts++
		if attempts == 1 {
			require.NoError(t, other.Set(ctx, "session:sid", `{"step":"STATION_CHOICE","pending_payment":"other"}`, 0).Err())
		}
		if s.PendingPayment != "" {
			return domain.ConflictError{Resource: "booking", Msg: "payment in progress"}
		}
		s.PendingPayment = "mine"
		return nil
	})

	assert.Equal(t, 2, attempts)
	assert.True(t, domain.IsConflict(err))
	assert.Empty(t, sel.PendingPayment)

	loaded, err := store.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, "other", loaded.PendingPayment)
}

func TestRedisSessionStore_Delete(t *testing.T) {
	ctx := context.Background()
	store, _ := newMiniredisStore(t)

	_, err := store.Update(ctx, "sid", func(s *domain.Selection) error {
		s.Step = domain.StepRouteChoice
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "sid"))

	loaded, err := store.Load(ctx, "sid")
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())
}
