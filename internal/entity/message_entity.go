package entity

import (
	"time"

	"github.com/google/uuid"
)

// Message is immutable once created. The server-assigned CreatedAt is the
// canonical timestamp broadcast to room members.
type Message struct {
	Id           uuid.UUID
	DiscussionId uuid.UUID
	UserId       uuid.UUID
	Body         string
	CreatedAt    time.Time
}
