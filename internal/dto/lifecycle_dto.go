package dto

import "github.com/google/uuid"

// LifecycleTransitionMessage is the bus payload emitted whenever a lazy
// check or the sweeper closes or purges a discussion.
type LifecycleTransitionMessage struct {
	DiscussionId uuid.UUID `json:"discussion_id"`
	Transition   string    `json:"transition"`
}
