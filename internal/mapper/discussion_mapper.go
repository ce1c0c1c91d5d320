package mapper

import (
	"discussly-be/internal/entity"
	"discussly-be/internal/model"
)

type DiscussionMapper struct{}

func NewDiscussionMapper() *DiscussionMapper {
	return &DiscussionMapper{}
}

func (m *DiscussionMapper) ToEntity(d *model.Discussion) *entity.Discussion {
	if d == nil {
		return nil
	}

	tags := make([]string, len(d.Tags))
	for i, t := range d.Tags {
		tags[i] = t.Name
	}

	return &entity.Discussion{
		Id:           d.Id,
		Name:         d.Name,
		Description:  d.Description,
		TypeId:       d.TypeId,
		TypeName:     d.Type.Name,
		OwnerId:      d.UserId,
		OwnerEmail:   d.User.Email,
		IsPrivate:    d.IsPrivate,
		PasswordHash: d.PasswordHash,
		IsLimited:    d.IsLimited,
		LimitedTime:  d.LimitedTime,
		Closed:       d.Closed,
		Tags:         tags,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// ToModel maps the persisted columns only. Tag links are attached by the
// repository so lazily created tags keep their ids.
func (m *DiscussionMapper) ToModel(d *entity.Discussion) *model.Discussion {
	if d == nil {
		return nil
	}

	return &model.Discussion{
		Id:           d.Id,
		Name:         d.Name,
		Description:  d.Description,
		TypeId:       d.TypeId,
		UserId:       d.OwnerId,
		IsPrivate:    d.IsPrivate,
		PasswordHash: d.PasswordHash,
		IsLimited:    d.IsLimited,
		LimitedTime:  d.LimitedTime,
		Closed:       d.Closed,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func (m *DiscussionMapper) TypeToEntity(t *model.DiscussionType) *entity.DiscussionType {
	if t == nil {
		return nil
	}
	return &entity.DiscussionType{Id: t.Id, Name: t.Name}
}
