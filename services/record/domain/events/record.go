package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicRecordCreated is the Watermill topic published when a Record is created.
const TopicRecordCreated = "record.created"

// RecordCreatedEventVersion is the current schema version of RecordCreatedEvent.
const RecordCreatedEventVersion = 1

// RecordCreatedEvent is published in the same transaction that inserts a Record.
// Consumers subscribe via EventBus.Subscribe(ctx, events.TopicRecordCreated).
type RecordCreatedEvent struct {
	EventID    uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int       `json:"version"`  // Schema version; increment on breaking changes
	RecordID   string    `json:"record_id"`
	Name       string    `json:"name"`
	ParentID   string    `json:"parent_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
