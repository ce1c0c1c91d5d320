package unitofwork

import (
	"context"

	"discussly-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	DiscussionRepository() contract.DiscussionRepository
	MessageRepository() contract.MessageRepository
	TagRepository() contract.TagRepository
	UserRepository() contract.UserRepository
}
