package implementation

import (
	"context"
	"errors"

	"discussly-be/internal/entity"
	"discussly-be/internal/mapper"
	"discussly-be/internal/model"
	"discussly-be/internal/repository/contract"
	"discussly-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DiscussionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DiscussionMapper
}

func NewDiscussionRepository(db *gorm.DB) contract.DiscussionRepository {
	return &DiscussionRepositoryImpl{
		db:     db,
		mapper: mapper.NewDiscussionMapper(),
	}
}

func (r *DiscussionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DiscussionRepositoryImpl) Create(ctx context.Context, discussion *entity.Discussion, tags []*entity.Tag) error {
	m := r.mapper.ToModel(discussion)
	m.Tags = make([]model.Tag, len(tags))
	for i, t := range tags {
		m.Tags[i] = model.Tag{Id: t.Id, Name: t.Name}
	}

	// Omit("Tags.*") keeps gorm from touching tag rows; only the join rows
	// are inserted. Tags are resolved by the tag repository beforehand.
	if err := r.db.WithContext(ctx).Omit("Tags.*").Create(m).Error; err != nil {
		return err
	}

	*discussion = *r.mapper.ToEntity(m)
	return nil
}

func (r *DiscussionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Discussion, error) {
	var m model.Discussion
	query := r.applySpecifications(r.db.WithContext(ctx).
		Preload("Type").Preload("User").Preload("Tags"), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DiscussionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Discussion, error) {
	var models []*model.Discussion
	query := r.applySpecifications(r.db.WithContext(ctx).
		Preload("Type").Preload("User").Preload("Tags"), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Discussion, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *DiscussionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Discussion{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *DiscussionRepositoryImpl) MarkClosed(ctx context.Context, id uuid.UUID) error {
	// "update where not closed" keeps concurrent lifecycle checks idempotent.
	return r.db.WithContext(ctx).
		Model(&model.Discussion{}).
		Where("id = ? AND closed = ?", id, false).
		Update("closed", true).Error
}

func (r *DiscussionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM discussions_tags WHERE discussion_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("discussion_id = ?", id).Delete(&model.Message{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Discussion{}).Error
	})
}

func (r *DiscussionRepositoryImpl) FindAllTypes(ctx context.Context) ([]*entity.DiscussionType, error) {
	var models []*model.DiscussionType
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.DiscussionType, len(models))
	for i, m := range models {
		entities[i] = r.mapper.TypeToEntity(m)
	}
	return entities, nil
}

func (r *DiscussionRepositoryImpl) CreateType(ctx context.Context, discussionType *entity.DiscussionType) error {
	m := &model.DiscussionType{Id: discussionType.Id, Name: discussionType.Name}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	discussionType.Id = m.Id
	return nil
}
