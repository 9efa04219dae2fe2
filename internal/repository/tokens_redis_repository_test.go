package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	errorvalues "github.com/limbo/coindo/internal/error_values"
	"github.com/limbo/coindo/internal/repository"
	"github.com/limbo/coindo/pkg/entity"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisTokensRepo(t *testing.T) (*repository.RedisTokensRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return repository.NewRedisTokensRepoWithClient(client), mr
}

func TestRedisTokens(t *testing.T) {
	ctx := context.Background()
	uid := uuid.New()
	expiresAt := time.Now().Add(time.Hour).Truncate(time.Second)

	t.Run("create and get", func(t *testing.T) {
		repo, mr := newRedisTokensRepo(t)
		err := repo.Create(ctx, &entity.AccessToken{Token: "token", UserID: uid, ExpiresAt: expiresAt})
		require.NoError(t, err)
		assert.True(t, mr.Exists("token:token"))
		members, err := mr.ZMembers("user_tokens:" + uid.String())
		require.NoError(t, err)
		assert.Equal(t, []string{"token"}, members)

		token, err := repo.Get(ctx, "token")
		require.NoError(t, err)
		assert.Equal(t, uid, token.UserID)
		assert.True(t, expiresAt.Equal(token.ExpiresAt))
	})
	t.Run("expired token can't be saved", func(t *testing.T) {
		repo, _ := newRedisTokensRepo(t)
		err := repo.Create(ctx, &entity.AccessToken{Token: "token", UserID: uid, ExpiresAt: time.Now().Add(-time.Minute)})
		assert.Error(t, err)
	})
	t.Run("token expires with ttl", func(t *testing.T) {
		repo, mr := newRedisTokensRepo(t)
		require.NoError(t, repo.Create(ctx, &entity.AccessToken{Token: "token", UserID: uid, ExpiresAt: expiresAt}))
		mr.FastForward(2 * time.Hour)
		_, err := repo.Get(ctx, "token")
		assert.ErrorIs(t, err, errorvalues.ErrTokenRevoked)
	})
	t.Run("user set expires with latest token", func(t *testing.T) {
		repo, mr := newRedisTokensRepo(t)
		setKey := "user_tokens:" + uid.String()
		require.NoError(t, repo.Create(ctx, &entity.AccessToken{Token: "long", UserID: uid, ExpiresAt: expiresAt.Add(time.Hour)}))
		require.NoError(t, repo.Create(ctx, &entity.AccessToken{Token: "short", UserID: uid, ExpiresAt: expiresAt}))
		ttl := mr.TTL(setKey)
		assert.Greater(t, ttl, time.Hour)
		assert.LessOrEqual(t, ttl, 2*time.Hour)

		mr.FastForward(3 * time.Hour)
		assert.False(t, mr.Exists(setKey))
	})
	t.Run("stale members are trimmed on create", func(t *testing.T) {
		repo, mr := newRedisTokensRepo(t)
		setKey := "user_tokens:" + uid.String()
		_, err := mr.ZAdd(setKey, float64(time.Now().Add(-time.Minute).Unix()), "stale")
		require.NoError(t, err)

		require.NoError(t, repo.Create(ctx, &entity.AccessToken{Token: "fresh", UserID: uid, ExpiresAt: expiresAt}))
		members, err := mr.ZMembers(setKey)
		require.NoError(t, err)
		assert.Equal(t, []string{"fresh"}, members)
	})
	t.Run("unknown token", func(t *testing.T) {
		repo, _ := newRedisTokensRepo(t)
		_, err := repo.Get(ctx, "missing")
		assert.ErrorIs(t, err, errorvalues.ErrTokenRevoked)
	})
	t.Run("delete", func(t *testing.T) {
		repo, mr := newRedisTokensRepo(t)
		require.NoError(t, repo.Create(ctx, &entity.AccessToken{Token: "token", UserID: uid, ExpiresAt: expiresAt}))
		require.NoError(t, repo.Delete(ctx, "token"))
		_, err := repo.Get(ctx, "token")
		assert.ErrorIs(t, err, errorvalues.ErrTokenRevoked)
		assert.False(t, mr.Exists("token:token"))
		assert.False(t, mr.Exists("user_tokens:"+uid.String()))
		assert.NoError(t, repo.Delete(ctx, "token"))
	})
	t.Run("delete by user", func(t *testing.T) {
		repo, mr := newRedisTokensRepo(t)
		other := uuid.New()
		require.NoError(t, repo.Create(ctx, &entity.AccessToken{Token: "first", UserID: uid, ExpiresAt: expiresAt}))
		require.NoError(t, repo.Create(ctx, &entity.AccessToken{Token: "second", UserID: uid, ExpiresAt: expiresAt}))
		require.NoError(t, repo.Create(ctx, &entity.AccessToken{Token: "foreign", UserID: other, ExpiresAt: expiresAt}))

		require.NoError(t, repo.DeleteByUserID(ctx, uid))
		assert.False(t, mr.Exists("user_tokens:"+uid.String()))
		for _, tk := range []string{"first", "second"} {
			_, err := repo.Get(ctx, tk)
			assert.ErrorIs(t, err, errorvalues.ErrTokenRevoked)
		}
		token, err := repo.Get(ctx, "foreign")
		require.NoError(t, err)
		assert.Equal(t, other, token.UserID)
	})
}
