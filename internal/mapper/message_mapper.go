package mapper

import (
	"discussly-be/internal/entity"
	"discussly-be/internal/model"
)

type MessageMapper struct{}

func NewMessageMapper() *MessageMapper {
	return &MessageMapper{}
}

func (m *MessageMapper) ToEntity(msg *model.Message) *entity.Message {
	if msg == nil {
		return nil
	}
	return &entity.Message{
		Id:           msg.Id,
		DiscussionId: msg.DiscussionId,
		UserId:       msg.UserId,
		Body:         msg.Body,
		CreatedAt:    msg.CreatedAt,
	}
}

func (m *MessageMapper) ToModel(msg *entity.Message) *model.Message {
	if msg == nil {
		return nil
	}
	return &model.Message{
		Id:           msg.Id,
		DiscussionId: msg.DiscussionId,
		UserId:       msg.UserId,
		Body:         msg.Body,
		CreatedAt:    msg.CreatedAt,
	}
}
