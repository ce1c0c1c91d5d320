package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateDiscussionRequest struct {
	Name        string     `json:"name" validate:"required,min=3,max=255"`
	Description string     `json:"description" validate:"max=2000"`
	TypeId      uuid.UUID  `json:"type_id" validate:"required"`
	IsPrivate   bool       `json:"is_private"`
	Password    string     `json:"password" validate:"required_if=IsPrivate true,omitempty,min=4"`
	IsLimited   bool       `json:"is_limited"`
	LimitedTime *time.Time `json:"limited_time" validate:"required_if=IsLimited true"`
	Tags        []string   `json:"tags" validate:"max=10,dive,min=1,max=100"`
}

type CreateDiscussionResponse struct {
	Id      uuid.UUID `json:"id"`
	Message string    `json:"message"`
}

type DiscussionInfoRequest struct {
	Password string `json:"password"`
}

type DiscussionResponse struct {
	Id          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	TypeName    string     `json:"type_name"`
	OwnerEmail  string     `json:"owner_email"`
	IsPrivate   bool       `json:"is_private"`
	IsLimited   bool       `json:"is_limited"`
	LimitedTime *time.Time `json:"limited_time,omitempty"`
	Closed      bool       `json:"closed"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"created_at"`
}

type DiscussionTypeResponse struct {
	Id   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type TagResponse struct {
	Id   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type LimitOptionResponse struct {
	Name string `json:"name"`
}
