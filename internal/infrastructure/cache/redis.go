package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"trainingevents/internal/domain/entities"
	"trainingevents/internal/ports/output"
)

// DefaultTTL bounds how long a read view may outlive a missed invalidation.
const DefaultTTL = 300 * time.Second

const upcomingPattern = "upcoming:*"

var _ output.EventCache = (*RedisCache)(nil)

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisCache stores JSON encoded read views in Redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(opts Options) *RedisCache {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
		}),
		ttl: ttl,
	}
}

// Ping checks the connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func eventKey(id int64) string {
	return fmt.Sprintf("event:%d", id)
}

func upcomingKey(eventType entities.EventType, count int) string {
	return fmt.Sprintf("upcoming:%s:%d", eventType, count)
}

func (c *RedisCache) GetEvent(ctx context.Context, id int64) (*entities.EventDetails, bool, error) {
	var details entities.EventDetails
	ok, err := c.get(ctx, eventKey(id), &details)
	if !ok || err != nil {
		return nil, false, err
	}
	return &details, true, nil
}

func (c *RedisCache) PutEvent(ctx context.Context, details *entities.EventDetails) error {
	return c.put(ctx, eventKey(details.Event.ID), details)
}

func (c *RedisCache) GetUpcoming(ctx context.Context, eventType entities.EventType, count int) ([]entities.Event, bool, error) {
	var events []entities.Event
	ok, err := c.get(ctx, upcomingKey(eventType, count), &events)
	if !ok || err != nil {
		return nil, false, err
	}
	return events, true, nil
}

func (c *RedisCache) PutUpcoming(ctx context.Context, eventType entities.EventType, count int, events []entities.Event) error {
	return c.put(ctx, upcomingKey(eventType, count), events)
}

// Invalidate deletes the event entry and every upcoming list, since any
// change may move an event in or out of them.
func (c *RedisCache) Invalidate(ctx context.Context, eventID int64) error {
	keys := []string{eventKey(eventID)}
	var cursor uint64
	for {
		res, next, err := c.client.Scan(ctx, cursor, upcomingPattern, 100).Result()
		if err != nil {
			return fmt.Errorf("scan %s: %w", upcomingPattern, err)
		}
		keys = append(keys, res...)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete cache keys: %w", err)
	}
	return nil
}

func (c *RedisCache) get(ctx context.Context, key string, out any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisCache) put(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
