package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/finhub-saas/identity-service/internal/domain/event"
	"github.com/finhub-saas/identity-service/pkg/helpers"
)

// eventEnvelope is the wire shape on the events queue.
type eventEnvelope struct {
	EventType  string      `json:"event_type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       event.Event `json:"data"`
}

// RabbitEventPublisher pushes domain events onto a durable RabbitMQ queue.
type RabbitEventPublisher struct {
	pub *helpers.RabbitPublisher
}

func NewRabbitEventPublisher(pub *helpers.RabbitPublisher) *RabbitEventPublisher {
	return &RabbitEventPublisher{pub: pub}
}

func (p *RabbitEventPublisher) Publish(ctx context.Context, ev event.Event) error {
	env := eventEnvelope{
		EventType:  ev.EventType(),
		OccurredAt: time.Now().UTC(),
		Data:       ev,
	}
	if err := p.pub.PublishJSON(ctx, env); err != nil {
		return fmt.Errorf("publish %s: %w", ev.EventType(), err)
	}
	return nil
}
