package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/mazraati/assistant-platform/internal/model"
)

const (
	// SubjectEscalation carries operator notifications for sensitive turns.
	SubjectEscalation = "assistant.escalation"

	// SubjectRollupTrigger requests an on-demand metrics recomputation.
	SubjectRollupTrigger = "assistant.rollup.trigger"
)

// Publisher publishes assistant events. It satisfies engine.Notifier.
type Publisher struct {
	client *Client
}

// NewPublisher creates a new event publisher.
func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// PublishEscalation notifies operators of a sensitive-scenario hit.
func (p *Publisher) PublishEscalation(ctx context.Context, ev *model.EscalationEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.Must(uuid.NewV7()).String()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal escalation event: %w", err)
	}
	if err := p.client.Conn().Publish(SubjectEscalation, data); err != nil {
		return fmt.Errorf("failed to publish escalation event: %w", err)
	}
	return nil
}

// PublishRollupTrigger requests recomputation of a day's metrics.
func (p *Publisher) PublishRollupTrigger(ctx context.Context, date string) error {
	data, err := json.Marshal(model.RollupTriggerEvent{Date: date})
	if err != nil {
		return fmt.Errorf("failed to marshal rollup trigger: %w", err)
	}
	if err := p.client.Conn().Publish(SubjectRollupTrigger, data); err != nil {
		return fmt.Errorf("failed to publish rollup trigger: %w", err)
	}
	return nil
}

// SubscribeRollupTrigger invokes fn with the requested date for every rollup
// trigger received. Malformed payloads are ignored.
func (p *Publisher) SubscribeRollupTrigger(fn func(date string)) (*nats.Subscription, error) {
	return p.client.Conn().Subscribe(SubjectRollupTrigger, func(msg *nats.Msg) {
		var ev model.RollupTriggerEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			return
		}
		fn(ev.Date)
	})
}
