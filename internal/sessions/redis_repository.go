package sessions

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRepository stores sessions as JSON under "session:<refreshToken>" with
// TTL = expiresAt - now, and tracks the refresh tokens of each sub in a set so
// DeleteBySub can revoke them all.
type RedisRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisRepository creates a Redis-backed session repository. Prefix may be
// empty.
func NewRedisRepository(client *redis.Client, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = "session:"
	}
	return &RedisRepository{client: client, prefix: prefix}
}

func (r *RedisRepository) key(refresh string) string {
	return r.prefix + refresh
}

func (r *RedisRepository) subKey(sub string) string {
	return r.prefix + "sub:" + sub
}

func (r *RedisRepository) Create(ctx context.Context, s *Session) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	exp := time.Until(s.ExpiresAt)
	if exp <= 0 {
		exp = time.Second
	}
	if err := r.client.Set(ctx, r.key(s.RefreshToken), b, exp).Err(); err != nil {
		return err
	}
	if err := r.client.SAdd(ctx, r.subKey(s.Sub), s.RefreshToken).Err(); err != nil {
		return err
	}
	return r.client.Expire(ctx, r.subKey(s.Sub), exp).Err()
}

func (r *RedisRepository) GetByRefresh(ctx context.Context, refresh string) (*Session, error) {
	b, err := r.client.Get(ctx, r.key(refresh)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	if time.Now().UTC().After(s.ExpiresAt) {
		_ = r.client.Del(ctx, r.key(refresh)).Err()
		return nil, nil
	}
	return &s, nil
}

func (r *RedisRepository) DeleteByRefresh(ctx context.Context, refresh string) error {
	s, err := r.GetByRefresh(ctx, refresh)
	if err == nil && s != nil {
		_ = r.client.SRem(ctx, r.subKey(s.Sub), refresh).Err()
	}
	return r.client.Del(ctx, r.key(refresh)).Err()
}

func (r *RedisRepository) DeleteBySub(ctx context.Context, sub string) error {
	tokens, err := r.client.SMembers(ctx, r.subKey(sub)).Result()
	if err != nil && err != redis.Nil {
		return err
	}
	for _, tok := range tokens {
		if err := r.client.Del(ctx, r.key(tok)).Err(); err != nil {
			return err
		}
	}
	return r.client.Del(ctx, r.subKey(sub)).Err()
}
