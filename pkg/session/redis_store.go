package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	sessionPrefix = "result_session:"
	indexKey      = "active_sessions"
)

// The duplicate check and the index write must be one step, a separate
// read-then-write lets two concurrent logins for the same roll number
// both succeed.
var reserveScript = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], ARGV[1])
if cur and redis.call('EXISTS', ARGV[3] .. cur) == 1 then
	return 0
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
return 1
`)

type RedisStore struct {
	redisClient *redis.Client
}

func ProvideRedisStore(redisClient *redis.Client) *RedisStore {
	return &RedisStore{
		redisClient: redisClient,
	}
}

func (s *RedisStore) ReserveIdentity(ctx context.Context, identity, credential string) (bool, error) {
	res, err := reserveScript.Run(ctx, s.redisClient,
		[]string{indexKey}, identity, credential, sessionPrefix).Int()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}

func (s *RedisStore) ReleaseIdentity(ctx context.Context, identity string) error {
	return s.redisClient.HDel(ctx, indexKey, identity).Err()
}

func (s *RedisStore) IndexEntries(ctx context.Context) (map[string]string, error) {
	return s.redisClient.HGetAll(ctx, indexKey).Result()
}

func (s *RedisStore) IndexSize(ctx context.Context) (int64, error) {
	return s.redisClient.HLen(ctx, indexKey).Result()
}

func (s *RedisStore) PutSession(ctx context.Context, sess *Session, ttl time.Duration) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.redisClient.Set(ctx, sessionPrefix+sess.Credential, raw, ttl).Err()
}

func (s *RedisStore) GetSession(ctx context.Context, credential string) (*Session, error) {
	raw, err := s.redisClient.Get(ctx, sessionPrefix+credential).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	sess := &Session{}
	if err := json.Unmarshal([]byte(raw), sess); err != nil {
		return nil, fmt.Errorf("unmarshal session record: %w", err)
	}
	return sess, nil
}

func (s *RedisStore) DeleteSession(ctx context.Context, credential string) error {
	return s.redisClient.Del(ctx, sessionPrefix+credential).Err()
}

func (s *RedisStore) SessionExists(ctx context.Context, credential string) (bool, error) {
	n, err := s.redisClient.Exists(ctx, sessionPrefix+credential).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
