// Package queue defines message payloads exchanged over the message broker
// and the consumer that turns them into an audit log.
package queue

// ModerationQueueName is the durable queue carrying moderation decisions.
const ModerationQueueName = "moderation.decided"

// ModerationDecidedEvent is published after a moderator approves or
// rejects a submission and the transaction has committed. It carries
// enough for downstream consumers to log or notify without querying the
// primary database.
type ModerationDecidedEvent struct {
	EventID     string `json:"event_id"`
	Kind        string `json:"kind"`
	EntityID    uint64 `json:"entity_id"`
	Status      string `json:"status"`
	ModeratorID uint64 `json:"moderator_id"`
	DecidedAt   string `json:"decided_at"`
}
