package repository

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/coindo/internal/error_values"
	"github.com/limbo/coindo/pkg/cleanup"
	"github.com/limbo/coindo/pkg/entity"
	"github.com/redis/go-redis/v9"
)

// RedisTokensRepository keeps access tokens in redis with TTL equal to token's expiry.
// Every user has a sorted set of own tokens scored by expiry so they can be revoked at once.
// The set lives until the latest of its tokens expires
type RedisTokensRepository struct {
	client *redis.Client
}

type RedisCfg struct {
	Address  string
	Password string
	DB       int
}

func NewRedisTokensRepo(cfg *RedisCfg) *RedisTokensRepository {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal("error while pinging redis for tokensRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing redis client",
		F:    client.Close,
	})
	return &RedisTokensRepository{
		client: client,
	}
}

func NewRedisTokensRepoWithClient(client *redis.Client) *RedisTokensRepository {
	return &RedisTokensRepository{
		client: client,
	}
}

func tokenKey(token string) string {
	return "token:" + token
}

func userTokensKey(uid uuid.UUID) string {
	return "user_tokens:" + uid.String()
}

func (rr *RedisTokensRepository) Create(ctx context.Context, token *entity.AccessToken) error {
	now := time.Now()
	if !token.ExpiresAt.After(now) {
		return errors.New("saving token error: token already expired")
	}
	key := tokenKey(token.Token)
	setKey := userTokensKey(token.UserID)
	var latest *redis.ZSliceCmd
	_, err := rr.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, "user_id", token.UserID.String(), "expires_at", token.ExpiresAt.Unix())
		pipe.ExpireAt(ctx, key, token.ExpiresAt)
		pipe.ZAdd(ctx, setKey, redis.Z{Score: float64(token.ExpiresAt.Unix()), Member: token.Token})
		pipe.ZRemRangeByScore(ctx, setKey, "-inf", strconv.FormatInt(now.Unix(), 10))
		latest = pipe.ZRangeWithScores(ctx, setKey, -1, -1)
		return nil
	})
	if err != nil {
		return errors.New("saving token error: " + err.Error())
	}
	expiresAt := token.ExpiresAt
	if z := latest.Val(); len(z) == 1 && int64(z[0].Score) > expiresAt.Unix() {
		expiresAt = time.Unix(int64(z[0].Score), 0)
	}
	if err = rr.client.ExpireAt(ctx, setKey, expiresAt).Err(); err != nil {
		return errors.New("saving token error: " + err.Error())
	}
	return nil
}

func (rr *RedisTokensRepository) Get(ctx context.Context, token string) (*entity.AccessToken, error) {
	values, err := rr.client.HGetAll(ctx, tokenKey(token)).Result()
	if err != nil {
		return nil, errors.New("getting token error: " + err.Error())
	}
	if len(values) == 0 {
		return nil, errorvalues.ErrTokenRevoked
	}
	uid, err := uuid.Parse(values["user_id"])
	if err != nil {
		return nil, errors.New("corrupted token record: " + err.Error())
	}
	exp, err := strconv.ParseInt(values["expires_at"], 10, 64)
	if err != nil {
		return nil, errors.New("corrupted token record: " + err.Error())
	}
	return &entity.AccessToken{
		Token:     token,
		UserID:    uid,
		ExpiresAt: time.Unix(exp, 0),
	}, nil
}

func (rr *RedisTokensRepository) Delete(ctx context.Context, token string) error {
	key := tokenKey(token)
	uidStr, err := rr.client.HGet(ctx, key, "user_id").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return errors.New("deleting token error: " + err.Error())
	}
	_, err = rr.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.ZRem(ctx, "user_tokens:"+uidStr, token)
		return nil
	})
	if err != nil {
		return errors.New("deleting token error: " + err.Error())
	}
	return nil
}

func (rr *RedisTokensRepository) DeleteByUserID(ctx context.Context, uid uuid.UUID) error {
	setKey := userTokensKey(uid)
	tokens, err := rr.client.ZRange(ctx, setKey, 0, -1).Result()
	if err != nil {
		return errors.New("deleting user's tokens error: " + err.Error())
	}
	_, err = rr.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, t := range tokens {
			pipe.Del(ctx, tokenKey(t))
		}
		pipe.Del(ctx, setKey)
		return nil
	})
	if err != nil {
		return errors.New("deleting user's tokens error: " + err.Error())
	}
	return nil
}
