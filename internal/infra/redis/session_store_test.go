package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/finsight/internal/infra/redis"
	"github.com/kislikjeka/finsight/internal/platform/session"
	"github.com/kislikjeka/finsight/pkg/logger"
)

// setupTestStore uses DB 15 on a local Redis and skips when none is running
func setupTestStore(t *testing.T) (*redis.SessionStore, *goredis.Client) {
	client := goredis.NewClient(&goredis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skip("Skipping test: Redis not available")
	}
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test database: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	return redis.NewSessionStore(client, logger.Discard()), client
}

func TestSessionStore_Lifecycle(t *testing.T) {
	store, client := setupTestStore(t)
	ctx := context.Background()

	sess := session.Session{
		UserID:    uuid.New(),
		OwnerKey:  "alice",
		TokenID:   uuid.New(),
		ExpiresAt: time.Now().Add(time.Hour),
	}

	require.NoError(t, store.Save(ctx, sess, time.Hour))

	got, live, err := store.Lookup(ctx, sess.TokenID)
	require.NoError(t, err)
	assert.True(t, live)
	assert.Equal(t, sess.UserID, got.UserID)
	assert.Equal(t, "alice", got.OwnerKey)
	assert.True(t, sess.ExpiresAt.Truncate(time.Second).Equal(got.ExpiresAt.Truncate(time.Second)))

	ttl, err := client.TTL(ctx, redis.SessionKeyPrefix+sess.TokenID.String()).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)

	require.NoError(t, store.Delete(ctx, sess.TokenID))
	_, live, err = store.Lookup(ctx, sess.TokenID)
	require.NoError(t, err)
	assert.False(t, live)

	// deleting an unknown session is not an error
	assert.NoError(t, store.Delete(ctx, uuid.New()))
}

func TestSessionStore_WithManager(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	m := session.NewManager("test-secret-key-minimum-32-characters-long-for-security", time.Hour, store)
	token, _, err := m.Issue(ctx, session.Subject{UserID: uuid.New(), OwnerKey: "alice"})
	require.NoError(t, err)

	_, err = m.Resolve(ctx, token)
	require.NoError(t, err)

	require.NoError(t, m.Revoke(ctx, token))
	_, err = m.Resolve(ctx, token)
	assert.ErrorIs(t, err, session.ErrSessionRevoked)
}

func TestSessionStore_CorruptRecord(t *testing.T) {
	store, client := setupTestStore(t)
	ctx := context.Background()

	tokenID := uuid.New()
	require.NoError(t, client.Set(ctx, redis.SessionKeyPrefix+tokenID.String(), "not json", time.Minute).Err())

	_, _, err := store.Lookup(ctx, tokenID)
	assert.Error(t, err)
}
