package entity

import (
	"time"

	"github.com/google/uuid"
)

type Discussion struct {
	Id          uuid.UUID
	Name        string
	Description string
	TypeId      uuid.UUID
	TypeName    string
	OwnerId     uuid.UUID
	OwnerEmail  string
	IsPrivate   bool
	// PasswordHash is set only when IsPrivate is true.
	PasswordHash *string
	IsLimited    bool
	// LimitedTime is the absolute deadline, present only when IsLimited is true.
	LimitedTime *time.Time
	// Closed is monotonic. Once a discussion is closed it never reopens.
	Closed    bool
	Tags      []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type DiscussionType struct {
	Id   uuid.UUID
	Name string
}
