package service

import (
	"context"
	"errors"
	"fmt"

	"discussly-be/internal/constant"
	"discussly-be/internal/dto"
	"discussly-be/internal/entity"
	"discussly-be/internal/pkg/logger"
	"discussly-be/internal/pkg/serverutils"
	"discussly-be/internal/repository/specification"
	"discussly-be/internal/repository/unitofwork"
	"discussly-be/pkg/events"
	pktNats "discussly-be/pkg/nats"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IDiscussionService interface {
	Create(ctx context.Context, ownerEmail string, req *dto.CreateDiscussionRequest) (*dto.CreateDiscussionResponse, error)
	GetInfo(ctx context.Context, id uuid.UUID, password string) (*dto.DiscussionResponse, error)
	ListByOwner(ctx context.Context, ownerEmail string) ([]*dto.DiscussionResponse, error)
	ListTypes(ctx context.Context) ([]*dto.DiscussionTypeResponse, error)
	ListTags(ctx context.Context) ([]*dto.TagResponse, error)
	LimitOptions() []*dto.LimitOptionResponse
}

type discussionService struct {
	uowFactory     unitofwork.RepositoryFactory
	lifecycle      ILifecycleService
	validate       *validator.Validate
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewDiscussionService(
	uowFactory unitofwork.RepositoryFactory,
	lifecycle ILifecycleService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IDiscussionService {
	return &discussionService{
		uowFactory:     uowFactory,
		lifecycle:      lifecycle,
		validate:       validator.New(),
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *discussionService) Create(ctx context.Context, ownerEmail string, req *dto.CreateDiscussionRequest) (*dto.CreateDiscussionResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, serverutils.NewAppError(serverutils.ErrValidation.Code, err.Error())
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	owner, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: ownerEmail})
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, serverutils.NewAppError(serverutils.ErrValidation.Code, "unknown owner")
	}

	// Name uniqueness is checked before insert; the unique index on
	// discussions.name backs the remaining race window.
	existing, err := uow.DiscussionRepository().FindOne(ctx, specification.ByName{Name: req.Name})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, serverutils.ErrDuplicateName
	}

	discussion := &entity.Discussion{
		Name:        req.Name,
		Description: req.Description,
		TypeId:      req.TypeId,
		OwnerId:     owner.Id,
		IsPrivate:   req.IsPrivate,
		IsLimited:   req.IsLimited,
		LimitedTime: req.LimitedTime,
	}

	if req.IsPrivate {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hashStr := string(hash)
		discussion.PasswordHash = &hashStr
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	// Tag rows are created lazily the first time a new name is used.
	tags, err := uow.TagRepository().FindOrCreateByNames(ctx, req.Tags)
	if err != nil {
		return nil, err
	}

	if err := uow.DiscussionRepository().Create(ctx, discussion, tags); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewDiscussionCreated(discussion.Id, discussion.Name, ownerEmail)); err != nil {
			s.logger.Warn("DiscussionService", "Failed to publish DISCUSSION_CREATED", map[string]interface{}{"error": err})
		}
	}

	return &dto.CreateDiscussionResponse{
		Id:      discussion.Id,
		Message: fmt.Sprintf("Discussion %s has been created", discussion.Name),
	}, nil
}

func (s *discussionService) GetInfo(ctx context.Context, id uuid.UUID, password string) (*dto.DiscussionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	discussion, err := uow.DiscussionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if discussion == nil {
		return nil, serverutils.ErrNotFound
	}

	// Lifecycle runs before the password check: an access attempt on an
	// expired private discussion closes or purges it even when the
	// password is wrong.
	if err := s.lifecycle.Evaluate(ctx, discussion); err != nil {
		return nil, err
	}

	if discussion.IsPrivate {
		if discussion.PasswordHash == nil ||
			bcrypt.CompareHashAndPassword([]byte(*discussion.PasswordHash), []byte(password)) != nil {
			return nil, serverutils.ErrForbidden
		}
	}

	return discussionToResponse(discussion), nil
}

func (s *discussionService) ListByOwner(ctx context.Context, ownerEmail string) ([]*dto.DiscussionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	discussions, err := uow.DiscussionRepository().FindAll(ctx,
		specification.ByOwnerEmail{Email: ownerEmail},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.DiscussionResponse, 0, len(discussions))
	for _, discussion := range discussions {
		// The listing advances lifecycle opportunistically but never
		// errors: purged rows are dropped, expired rows are shown closed.
		err := s.lifecycle.Evaluate(ctx, discussion)
		if errors.Is(err, serverutils.ErrNotFound) {
			continue
		}
		if err != nil && !errors.Is(err, serverutils.ErrExpired) {
			return nil, err
		}
		responses = append(responses, discussionToResponse(discussion))
	}

	return responses, nil
}

func (s *discussionService) ListTypes(ctx context.Context) ([]*dto.DiscussionTypeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	types, err := uow.DiscussionRepository().FindAllTypes(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.DiscussionTypeResponse, len(types))
	for i, t := range types {
		responses[i] = &dto.DiscussionTypeResponse{Id: t.Id, Name: t.Name}
	}
	return responses, nil
}

func (s *discussionService) ListTags(ctx context.Context) ([]*dto.TagResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	tags, err := uow.TagRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.TagResponse, len(tags))
	for i, t := range tags {
		responses[i] = &dto.TagResponse{Id: t.Id, Name: t.Name}
	}
	return responses, nil
}

func (s *discussionService) LimitOptions() []*dto.LimitOptionResponse {
	options := make([]*dto.LimitOptionResponse, len(constant.LimitOptions))
	for i, name := range constant.LimitOptions {
		options[i] = &dto.LimitOptionResponse{Name: name}
	}
	return options
}

func discussionToResponse(d *entity.Discussion) *dto.DiscussionResponse {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return &dto.DiscussionResponse{
		Id:          d.Id,
		Name:        d.Name,
		Description: d.Description,
		TypeName:    d.TypeName,
		OwnerEmail:  d.OwnerEmail,
		IsPrivate:   d.IsPrivate,
		IsLimited:   d.IsLimited,
		LimitedTime: d.LimitedTime,
		Closed:      d.Closed,
		Tags:        tags,
		CreatedAt:   d.CreatedAt,
	}
}
