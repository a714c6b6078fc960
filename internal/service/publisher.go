package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/mgrozdek22/TBP-nail-app/internal/logger"
	"github.com/mgrozdek22/TBP-nail-app/internal/model"
	"github.com/mgrozdek22/TBP-nail-app/internal/queue"
)

// EventPublisher announces committed moderation decisions.
type EventPublisher interface {
	PublishDecision(ctx context.Context, d model.Decision) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) PublishDecision(context.Context, model.Decision) error { return nil }

// DefaultDialTimeout bounds connecting and the AMQP handshake.
const DefaultDialTimeout = 2 * time.Second

// AMQPPublisher publishes to the moderation.decided queue. Each publish
// opens its own connection; moderation traffic is low.
type AMQPPublisher struct {
	URL         string
	DialTimeout time.Duration // zero means DefaultDialTimeout
	Log         *logger.Logger
}

// NewDecisionEvent converts a decision into its wire form.
func NewDecisionEvent(d model.Decision) queue.ModerationDecidedEvent {
	return queue.ModerationDecidedEvent{
		EventID:     uuid.NewString(),
		Kind:        string(d.Kind),
		EntityID:    d.ID,
		Status:      string(d.Status),
		ModeratorID: d.ModeratorID,
		DecidedAt:   d.DecidedAt.UTC().Format(time.RFC3339Nano),
	}
}

// PublishDecision never panics; errors are logged and returned so the
// caller can choose to ignore them. Messages are marked as persistent.
func (p *AMQPPublisher) PublishDecision(ctx context.Context, d model.Decision) error {
	timeout := p.DialTimeout
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}
	conn, err := amqp.DialConfig(p.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		p.Log.Warn("rabbitmq: dial failed", "error", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.Log.Warn("rabbitmq: channel open failed", "error", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queue.ModerationQueueName, true, false, false, false, nil); err != nil {
		p.Log.Warn("rabbitmq: queue declare failed", "error", err)
		return err
	}

	ev := NewDecisionEvent(d)
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.EventID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.ModerationQueueName, false, false, pub); err != nil {
		p.Log.Warn("rabbitmq: publish failed", "error", err)
		return err
	}
	return nil
}
