package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"storefront/internal/models"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var ErrCacheMiss = errors.New("cache miss")

type Client struct {
	rdb *redis.Client
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Order snapshot cache, read by dashboards only.
func (c *Client) SetOrderSnapshot(ctx context.Context, order *models.Order, ttl time.Duration) error {
	jsonData, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order snapshot: %w", err)
	}

	return c.rdb.Set(ctx, orderKey(order.ID), jsonData, ttl).Err()
}

func (c *Client) GetOrderSnapshot(ctx context.Context, orderID string) (*models.Order, error) {
	val, err := c.rdb.Get(ctx, orderKey(orderID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get order snapshot: %w", err)
	}

	var order models.Order
	if err := json.Unmarshal(val, &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order snapshot: %w", err)
	}
	return &order, nil
}

func (c *Client) DeleteOrderSnapshot(ctx context.Context, orderID string) error {
	return c.rdb.Del(ctx, orderKey(orderID)).Err()
}

// releaseScript deletes the lock only if the caller still owns it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker is a distributed lock.Locker backed by SET NX with a TTL.
type Locker struct {
	client *Client
	ttl    time.Duration
	retry  time.Duration
}

func (c *Client) NewLocker(ttl time.Duration) *Locker {
	return &Locker{client: c, ttl: ttl, retry: 25 * time.Millisecond}
}

// Lock polls until the key is free or ctx is done. The TTL bounds how long a
// crashed holder can block other processes.
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	lockKey := "lock:" + key

	for {
		ok, err := l.client.rdb.SetNX(ctx, lockKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retry):
		}
	}

	return func() {
		// Expiry releases the key if this delete fails.
		_ = releaseScript.Run(context.Background(), l.client.rdb, []string{lockKey}, token).Err()
	}, nil
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func orderKey(orderID string) string {
	return "order:" + orderID
}
