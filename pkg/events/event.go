package events

import (
	"time"

	"github.com/google/uuid"
)

// Event defines the contract for all domain events published to the bus.
type Event interface {
	// EventType returns the unique code for this event (e.g., "DISCUSSION_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func NewDiscussionCreated(discussionID uuid.UUID, name, ownerEmail string) Event {
	return BaseEvent{
		Type: "DISCUSSION_CREATED",
		Data: map[string]interface{}{
			"discussion_id": discussionID.String(),
			"name":          name,
			"owner_email":   ownerEmail,
		},
		OccurredAt: time.Now(),
	}
}

func NewDiscussionClosed(discussionID uuid.UUID) Event {
	return BaseEvent{
		Type: "DISCUSSION_CLOSED",
		Data: map[string]interface{}{
			"discussion_id": discussionID.String(),
		},
		OccurredAt: time.Now(),
	}
}

func NewDiscussionPurged(discussionID uuid.UUID) Event {
	return BaseEvent{
		Type: "DISCUSSION_PURGED",
		Data: map[string]interface{}{
			"discussion_id": discussionID.String(),
		},
		OccurredAt: time.Now(),
	}
}
