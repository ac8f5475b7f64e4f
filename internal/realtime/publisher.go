package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event names pushed over the realtime channels.
const (
	EventOrderCreated  = "order_created"
	EventOrderUpdated  = "order_updated"
	EventOrderCanceled = "order_canceled"
)

type publishClient interface {
	Publish(ctx context.Context, channel string, payload any) error
	ChannelKey(parts ...string) string
}

// Publisher fans order events out over Redis pub/sub. Each order has its own
// channel and every location has a kitchen-wide channel.
type Publisher struct {
	client publishClient
}

// Message is the JSON envelope written to realtime channels.
type Message struct {
	Event      string    `json:"event"`
	OrderID    uuid.UUID `json:"order_id"`
	LocationID uuid.UUID `json:"location_id"`
	Status     string    `json:"status"`
	At         time.Time `json:"at"`
}

// NewPublisher builds a publisher over the shared Redis client.
func NewPublisher(client publishClient) (*Publisher, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &Publisher{client: client}, nil
}

// OrderChanged pushes the event to the order channel and the location's
// kitchen channel.
func (p *Publisher) OrderChanged(ctx context.Context, msg Message) error {
	if msg.At.IsZero() {
		msg.At = time.Now().UTC()
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal realtime message: %w", err)
	}

	orderChannel := p.client.ChannelKey("order", msg.OrderID.String())
	if err := p.client.Publish(ctx, orderChannel, payload); err != nil {
		return fmt.Errorf("publish order channel: %w", err)
	}

	kitchenChannel := p.client.ChannelKey("kitchen", msg.LocationID.String())
	if err := p.client.Publish(ctx, kitchenChannel, payload); err != nil {
		return fmt.Errorf("publish kitchen channel: %w", err)
	}
	return nil
}
