package events

import (
	"time"

	"github.com/GlebRadaev/ordermart/internal/domain"
	"github.com/google/uuid"
)

const (
	TypeOrderCreated = "order.created"
	TypeOrderPaid    = "order.paid"
	TypeOrderShipped = "order.shipped"
)

// Envelope is the message published for every order lifecycle change.
type Envelope struct {
	EventID    string             `json:"eventId"`
	EventType  string             `json:"eventType"`
	OccurredAt time.Time          `json:"occurredAt"`
	OrderID    string             `json:"orderId"`
	UserID     string             `json:"userId"`
	Total      int64              `json:"total"`
	Status     domain.OrderStatus `json:"status"`
}

func NewEnvelope(order *domain.Order, now time.Time) Envelope {
	return Envelope{
		EventID:    uuid.NewString(),
		EventType:  eventType(order.Status),
		OccurredAt: now.UTC(),
		OrderID:    order.ID,
		UserID:     order.UserID,
		Total:      order.Total,
		Status:     order.Status,
	}
}

func eventType(status domain.OrderStatus) string {
	switch status {
	case domain.StatusPaid:
		return TypeOrderPaid
	case domain.StatusShipped:
		return TypeOrderShipped
	default:
		return TypeOrderCreated
	}
}
