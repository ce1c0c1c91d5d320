package implementation

import (
	"context"

	"discussly-be/internal/entity"
	"discussly-be/internal/model"
	"discussly-be/internal/repository/contract"

	"gorm.io/gorm"
)

type TagRepositoryImpl struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) contract.TagRepository {
	return &TagRepositoryImpl{db: db}
}

func tagToEntity(m *model.Tag) *entity.Tag {
	return &entity.Tag{
		Id:        m.Id,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *TagRepositoryImpl) FindAll(ctx context.Context) ([]*entity.Tag, error) {
	var models []*model.Tag
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Tag, len(models))
	for i, m := range models {
		entities[i] = tagToEntity(m)
	}
	return entities, nil
}

func (r *TagRepositoryImpl) FindByNames(ctx context.Context, names []string) ([]*entity.Tag, error) {
	if len(names) == 0 {
		return []*entity.Tag{}, nil
	}
	var models []*model.Tag
	if err := r.db.WithContext(ctx).Where("name IN ?", names).Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Tag, len(models))
	for i, m := range models {
		entities[i] = tagToEntity(m)
	}
	return entities, nil
}

func (r *TagRepositoryImpl) FindOrCreateByNames(ctx context.Context, names []string) ([]*entity.Tag, error) {
	existing, err := r.FindByNames(ctx, names)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(existing))
	for _, t := range existing {
		known[t.Name] = true
	}

	var missing []*model.Tag
	for _, name := range names {
		if !known[name] {
			known[name] = true
			missing = append(missing, &model.Tag{Name: name})
		}
	}

	if len(missing) > 0 {
		if err := r.db.WithContext(ctx).Create(&missing).Error; err != nil {
			return nil, err
		}
	}

	// Re-read so every returned tag carries its row id.
	return r.FindByNames(ctx, names)
}
