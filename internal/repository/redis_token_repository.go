package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/domain"
)

const redisTokenKeyPrefix = "auth:token:"

// insertTokenScript writes the token hash only when the key is absent and arms
// the key's own expiry at expires_at (milliseconds).
var insertTokenScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
  return 0
end
redis.call('HSET', KEYS[1], 'client_id', ARGV[1], 'expires_at', ARGV[2], 'created_at', ARGV[3])
redis.call('PEXPIREAT', KEYS[1], ARGV[2])
return 1
`)

// extendTokenScript pushes expires_at forward on an existing key only.
var extendTokenScript = redis.NewScript(`
local current = redis.call('HGET', KEYS[1], 'expires_at')
if not current then
  return 0
end
if tonumber(ARGV[1]) <= tonumber(current) then
  return 0
end
redis.call('HSET', KEYS[1], 'expires_at', ARGV[1])
redis.call('PEXPIREAT', KEYS[1], ARGV[1])
return 1
`)

type redisTokenRepository struct {
	client redis.UniversalClient
}

// NewRedisTokenRepository stores tokens as hashes whose key expiry doubles as the
// passive cleanup, so DeleteExpired has nothing to do.
func NewRedisTokenRepository(client redis.UniversalClient) TokenRepository {
	return &redisTokenRepository{client: client}
}

func redisTokenKey(token string) string {
	return redisTokenKeyPrefix + token
}

func (r *redisTokenRepository) Insert(ctx context.Context, token *domain.IssuedToken) error {
	now := time.Now()
	inserted, err := insertTokenScript.Run(ctx, r.client,
		[]string{redisTokenKey(token.Token)},
		token.ClientID,
		token.ExpiresAt.UnixMilli(),
		now.UnixMilli(),
	).Int()
	if err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	if inserted == 0 {
		return ErrDuplicateToken
	}
	token.CreatedAt = time.UnixMilli(now.UnixMilli())
	return nil
}

func (r *redisTokenRepository) FindValid(ctx context.Context, tokenStr string, now time.Time) (*domain.IssuedToken, error) {
	values, err := r.client.HMGet(ctx, redisTokenKey(tokenStr), "client_id", "expires_at", "created_at").Result()
	if err != nil {
		return nil, fmt.Errorf("select token: %w", err)
	}
	if len(values) != 3 || values[0] == nil || values[1] == nil {
		return nil, ErrNotFound
	}

	clientID, _ := values[0].(string)
	expiresAt, err := parseMillis(values[1])
	if err != nil {
		return nil, fmt.Errorf("decode token expiry: %w", err)
	}
	token := &domain.IssuedToken{
		Token:     tokenStr,
		ClientID:  clientID,
		ExpiresAt: expiresAt,
	}
	if values[2] != nil {
		if token.CreatedAt, err = parseMillis(values[2]); err != nil {
			return nil, fmt.Errorf("decode token creation time: %w", err)
		}
	}
	if token.ExpiredAt(now) {
		return nil, ErrNotFound
	}
	return token, nil
}

func (r *redisTokenRepository) ExtendExpiry(ctx context.Context, tokenStr string, expiresAt time.Time) error {
	if err := extendTokenScript.Run(ctx, r.client,
		[]string{redisTokenKey(tokenStr)},
		expiresAt.UnixMilli(),
	).Err(); err != nil {
		return fmt.Errorf("extend token: %w", err)
	}
	return nil
}

func (r *redisTokenRepository) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func parseMillis(v any) (time.Time, error) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("unexpected value type %T", v)
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms), nil
}
