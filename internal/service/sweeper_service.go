package service

import (
	"context"
	"errors"
	"time"

	"discussly-be/internal/pkg/clock"
	"discussly-be/internal/pkg/logger"
	"discussly-be/internal/pkg/serverutils"
	"discussly-be/internal/repository/specification"
	"discussly-be/internal/repository/unitofwork"
)

// ISweeperService periodically applies lifecycle transitions to limited
// discussions nobody is reading, so rooms without recent access still close
// and purge on time. Observable semantics are identical to the lazy check.
type ISweeperService interface {
	Run(ctx context.Context) error

	// SweepOnce evaluates every limited discussion past its deadline and
	// returns how many transitioned.
	SweepOnce(ctx context.Context) (int, error)
}

type sweeperService struct {
	uowFactory unitofwork.RepositoryFactory
	lifecycle  ILifecycleService
	clk        clock.Clock
	interval   time.Duration
	logger     logger.ILogger
}

func NewSweeperService(
	uowFactory unitofwork.RepositoryFactory,
	lifecycle ILifecycleService,
	clk clock.Clock,
	interval time.Duration,
	log logger.ILogger,
) ISweeperService {
	return &sweeperService{
		uowFactory: uowFactory,
		lifecycle:  lifecycle,
		clk:        clk,
		interval:   interval,
		logger:     log,
	}
}

func (s *sweeperService) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			swept, err := s.SweepOnce(ctx)
			if err != nil {
				s.logger.Error("SweeperService", "Sweep failed", map[string]interface{}{"error": err})
				continue
			}
			if swept > 0 {
				s.logger.Info("SweeperService", "Sweep applied transitions", map[string]interface{}{"count": swept})
			}
		}
	}
}

func (s *sweeperService) SweepOnce(ctx context.Context) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	expired, err := uow.DiscussionRepository().FindAll(ctx,
		specification.LimitedDeadlineBefore{Instant: s.clk.Now()},
	)
	if err != nil {
		return 0, err
	}

	swept := 0
	for _, discussion := range expired {
		err := s.lifecycle.Evaluate(ctx, discussion)
		switch {
		case err == nil:
		case errors.Is(err, serverutils.ErrExpired), errors.Is(err, serverutils.ErrNotFound):
			swept++
		default:
			s.logger.Error("SweeperService", "Transition failed", map[string]interface{}{
				"error":         err,
				"discussion_id": discussion.Id,
			})
		}
	}

	return swept, nil
}
