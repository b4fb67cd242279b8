package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	lineKey      = "result_queue"
	activeSetKey = "active_queue_tokens"
	ticketPrefix = "queue_token:"
)

// Single round trip so two concurrent consumes of the same id cannot
// both read ACTIVE before either deletes.
var consumeScript = redis.NewScript(`
local raw = redis.call('GET', KEYS[1])
if not raw then
	return false
end
local t = cjson.decode(raw)
if t.status ~= 'ACTIVE' then
	return false
end
redis.call('DEL', KEYS[1])
redis.call('SREM', KEYS[2], ARGV[1])
return raw
`)

type RedisStore struct {
	redisClient *redis.Client
}

func ProvideRedisStore(redisClient *redis.Client) *RedisStore {
	return &RedisStore{
		redisClient: redisClient,
	}
}

func (s *RedisStore) AppendLine(ctx context.Context, t *Ticket) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal ticket: %w", err)
	}
	return s.redisClient.RPush(ctx, lineKey, raw).Err()
}

func (s *RedisStore) PopLine(ctx context.Context) (*Ticket, error) {
	raw, err := s.redisClient.LPop(ctx, lineKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	ticket := &Ticket{}
	if err := json.Unmarshal([]byte(raw), ticket); err != nil {
		return nil, fmt.Errorf("unmarshal line entry: %w", err)
	}
	return ticket, nil
}

func (s *RedisStore) ScanLine(ctx context.Context) ([]*Ticket, error) {
	items, err := s.redisClient.LRange(ctx, lineKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	tickets := make([]*Ticket, 0, len(items))
	for _, item := range items {
		ticket := &Ticket{}
		if err := json.Unmarshal([]byte(item), ticket); err != nil {
			return nil, fmt.Errorf("unmarshal line entry: %w", err)
		}
		tickets = append(tickets, ticket)
	}
	return tickets, nil
}

func (s *RedisStore) RemoveLine(ctx context.Context, id TicketId) error {
	// Line entries are WAITING records, so rebuilding the value from
	// the per-ticket record matches the pushed bytes only while the
	// ticket has not been promoted. Scan for the id instead.
	items, err := s.redisClient.LRange(ctx, lineKey, 0, -1).Result()
	if err != nil {
		return err
	}

	for _, item := range items {
		ticket := &Ticket{}
		if err := json.Unmarshal([]byte(item), ticket); err != nil {
			continue
		}
		if ticket.TicketId == id {
			return s.redisClient.LRem(ctx, lineKey, 1, item).Err()
		}
	}
	return nil
}

func (s *RedisStore) LineLength(ctx context.Context) (int64, error) {
	return s.redisClient.LLen(ctx, lineKey).Result()
}

func (s *RedisStore) AddActive(ctx context.Context, id TicketId) error {
	return s.redisClient.SAdd(ctx, activeSetKey, string(id)).Err()
}

func (s *RedisStore) RemoveActive(ctx context.Context, id TicketId) error {
	return s.redisClient.SRem(ctx, activeSetKey, string(id)).Err()
}

func (s *RedisStore) ActiveCount(ctx context.Context) (int64, error) {
	return s.redisClient.SCard(ctx, activeSetKey).Result()
}

func (s *RedisStore) PutTicket(ctx context.Context, t *Ticket, ttl time.Duration) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal ticket: %w", err)
	}
	return s.redisClient.Set(ctx, ticketPrefix+string(t.TicketId), raw, ttl).Err()
}

func (s *RedisStore) GetTicket(ctx context.Context, id TicketId) (*Ticket, error) {
	raw, err := s.redisClient.Get(ctx, ticketPrefix+string(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	ticket := &Ticket{}
	if err := json.Unmarshal([]byte(raw), ticket); err != nil {
		return nil, fmt.Errorf("unmarshal ticket record: %w", err)
	}
	return ticket, nil
}

func (s *RedisStore) DeleteTicket(ctx context.Context, id TicketId) error {
	return s.redisClient.Del(ctx, ticketPrefix+string(id)).Err()
}

func (s *RedisStore) ConsumeActive(ctx context.Context, id TicketId) (*Ticket, error) {
	raw, err := consumeScript.Run(ctx, s.redisClient,
		[]string{ticketPrefix + string(id), activeSetKey}, string(id)).Text()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	ticket := &Ticket{}
	if err := json.Unmarshal([]byte(raw), ticket); err != nil {
		return nil, fmt.Errorf("unmarshal consumed ticket: %w", err)
	}
	return ticket, nil
}
