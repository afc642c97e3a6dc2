package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/GlebRadaev/ordermart/internal/domain"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// Dispatcher turns order notifications into envelopes and publishes them
// from the worker pool. Failures are logged and never reach the caller.
type Dispatcher struct {
	pool      WorkerPoolI
	publisher Publisher
	now       func() time.Time
}

func NewDispatcher(pool WorkerPoolI, publisher Publisher) *Dispatcher {
	return &Dispatcher{
		pool:      pool,
		publisher: publisher,
		now:       time.Now,
	}
}

func (d *Dispatcher) Notify(ctx context.Context, order *domain.Order) {
	env := NewEnvelope(order, d.now())
	payload, err := json.Marshal(env)
	if err != nil {
		zap.L().Error("can't encode order event", zap.String("order_id", order.ID), zap.Error(err))
		return
	}

	err = d.pool.AddTask(ctx, func() error {
		pubCtx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := d.publisher.Publish(pubCtx, env.OrderID, env.EventType, payload); err != nil {
			return fmt.Errorf("publish %s for order %s: %w", env.EventType, env.OrderID, err)
		}
		return nil
	})
	if err != nil {
		zap.L().Warn("order event dropped",
			zap.String("order_id", order.ID),
			zap.String("event_type", env.EventType),
			zap.Error(err))
	}
}

// Close drains queued events and closes the publisher.
func (d *Dispatcher) Close() error {
	d.pool.Close()
	return d.publisher.Close()
}
