package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/GlebRadaev/ordermart/internal/domain"
	"github.com/redis/go-redis/v9"
)

const orderKey = "order:%s"

// OrderCache keeps JSON copies of orders in Redis under order:{id}.
type OrderCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func New(client redis.Cmdable, ttl time.Duration) *OrderCache {
	return &OrderCache{
		client: client,
		ttl:    ttl,
	}
}

func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}

// Get returns nil, nil when the order is not cached.
func (c *OrderCache) Get(ctx context.Context, id string) (*domain.Order, error) {
	data, err := c.client.Get(ctx, fmt.Sprintf(orderKey, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("can't read order %s from cache: %w", id, err)
	}

	var order domain.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("can't decode cached order %s: %w", id, err)
	}
	return &order, nil
}

// setIfNotBehind writes ARGV[1] unless the cached copy already carries one of
// the statuses in ARGV[3..]. ARGV[2] is the TTL in milliseconds, 0 for none.
var setIfNotBehind = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if current then
	local ok, cached = pcall(cjson.decode, current)
	if ok and type(cached) == 'table' then
		for i = 3, #ARGV do
			if cached.status == ARGV[i] then
				return 0
			end
		end
	end
end
local ttl = tonumber(ARGV[2])
if ttl > 0 then
	redis.call('SET', KEYS[1], ARGV[1], 'PX', ttl)
else
	redis.call('SET', KEYS[1], ARGV[1])
end
return 1
`)

// Set stores the order unless the cache already holds it in a later status,
// so a slow read-through fill cannot overwrite the copy a status change wrote.
func (c *OrderCache) Set(ctx context.Context, order *domain.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("can't encode order %s: %w", order.ID, err)
	}
	if err := setIfNotBehind.Run(ctx, c.client, []string{fmt.Sprintf(orderKey, order.ID)}, setArgs(data, c.ttl, order.Status)...).Err(); err != nil {
		return fmt.Errorf("can't write order %s to cache: %w", order.ID, err)
	}
	return nil
}

func setArgs(data []byte, ttl time.Duration, status domain.OrderStatus) []any {
	later := status.Later()
	args := make([]any, 0, 2+len(later))
	args = append(args, string(data), ttl.Milliseconds())
	for _, s := range later {
		args = append(args, string(s))
	}
	return args
}

// Nop is used when no Redis address is configured. Every Get is a miss.
type Nop struct{}

func (Nop) Get(context.Context, string) (*domain.Order, error) { return nil, nil }

func (Nop) Set(context.Context, *domain.Order) error { return nil }
