package service

import (
	"context"
	"encoding/json"

	"discussly-be/internal/constant"
	"discussly-be/internal/dto"
	"discussly-be/internal/entity"
	"discussly-be/internal/pkg/clock"
	"discussly-be/internal/pkg/logger"
	"discussly-be/internal/pkg/serverutils"
	"discussly-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// ILifecycleService owns the open -> closed -> purged state machine for
// limited discussions. Transitions are evaluated lazily on access and by
// the periodic sweep; both paths go through Evaluate.
type ILifecycleService interface {
	// Evaluate applies the time-based transition rules to the discussion,
	// persisting close/purge as side effects. It returns ErrNotFound when
	// the discussion was purged on this access, ErrExpired when it is past
	// its deadline, and nil while it is still open (or not limited).
	Evaluate(ctx context.Context, discussion *entity.Discussion) error
}

type lifecycleService struct {
	uowFactory unitofwork.RepositoryFactory
	clk        clock.Clock
	pubSub     *gochannel.GoChannel
	logger     logger.ILogger
}

func NewLifecycleService(
	uowFactory unitofwork.RepositoryFactory,
	clk clock.Clock,
	pubSub *gochannel.GoChannel,
	log logger.ILogger,
) ILifecycleService {
	return &lifecycleService{
		uowFactory: uowFactory,
		clk:        clk,
		pubSub:     pubSub,
		logger:     log,
	}
}

func (s *lifecycleService) Evaluate(ctx context.Context, discussion *entity.Discussion) error {
	if !discussion.IsLimited || discussion.LimitedTime == nil {
		return nil
	}

	now := s.clk.Now()
	deadline := *discussion.LimitedTime

	// Expiry-close runs before purge-eligibility, so a discussion always
	// passes through closed before it can be removed.
	if now.After(deadline) && !discussion.Closed {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		if err := uow.DiscussionRepository().MarkClosed(ctx, discussion.Id); err != nil {
			return err
		}
		discussion.Closed = true
		s.publishTransition(discussion, constant.TransitionClosed)
	}

	// Purge timing is measured from the deadline, not the close event, so
	// a late first access cannot extend retention.
	if now.Sub(deadline) > constant.PurgeWindow {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		if err := uow.DiscussionRepository().Delete(ctx, discussion.Id); err != nil {
			return err
		}
		s.publishTransition(discussion, constant.TransitionPurged)
		return serverutils.ErrNotFound
	}

	if discussion.Closed && now.After(deadline) {
		return serverutils.ErrExpired
	}

	return nil
}

func (s *lifecycleService) publishTransition(discussion *entity.Discussion, transition string) {
	if s.pubSub == nil {
		return
	}

	payload, err := json.Marshal(dto.LifecycleTransitionMessage{
		DiscussionId: discussion.Id,
		Transition:   transition,
	})
	if err != nil {
		s.logger.Error("LifecycleService", "Failed to marshal transition", map[string]interface{}{"error": err})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.pubSub.Publish(constant.LifecycleTopic, msg); err != nil {
		s.logger.Error("LifecycleService", "Failed to publish transition", map[string]interface{}{
			"error":         err,
			"discussion_id": discussion.Id,
			"transition":    transition,
		})
	}
}
