package websocket

import (
	"time"

	"github.com/google/uuid"
)

type EventKind string

const (
	EventMemberJoined     EventKind = "member-joined"
	EventMemberLeft       EventKind = "member-left"
	EventPresenceSnapshot EventKind = "presence-snapshot"
	EventChatMessage      EventKind = "chat-message"
	EventDiscussionClosed EventKind = "discussion-closed"
)

// Event is the typed envelope delivered to room subscribers.
type Event struct {
	Kind EventKind   `json:"event"`
	Data interface{} `json:"data"`
}

type MemberPayload struct {
	Username string `json:"username"`
}

type PresenceUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type PresenceSnapshot struct {
	Users []PresenceUser `json:"users"`
	Count int            `json:"count"`
}

type ChatMessagePayload struct {
	Timestamp time.Time `json:"timestamp"`
	Username  string    `json:"username"`
	Body      string    `json:"body"`
}

type DiscussionClosedPayload struct {
	DiscussionId uuid.UUID `json:"discussion_id"`
}

func NewMemberJoined(username string) Event {
	return Event{Kind: EventMemberJoined, Data: MemberPayload{Username: username}}
}

func NewMemberLeft(username string) Event {
	return Event{Kind: EventMemberLeft, Data: MemberPayload{Username: username}}
}

func NewPresenceSnapshot(snapshot PresenceSnapshot) Event {
	return Event{Kind: EventPresenceSnapshot, Data: snapshot}
}

func NewChatMessage(timestamp time.Time, username, body string) Event {
	return Event{Kind: EventChatMessage, Data: ChatMessagePayload{
		Timestamp: timestamp,
		Username:  username,
		Body:      body,
	}}
}

func NewDiscussionClosed(discussionID uuid.UUID) Event {
	return Event{Kind: EventDiscussionClosed, Data: DiscussionClosedPayload{DiscussionId: discussionID}}
}
