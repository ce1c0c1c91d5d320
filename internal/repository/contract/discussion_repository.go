package contract

import (
	"context"

	"discussly-be/internal/entity"
	"discussly-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DiscussionRepository interface {
	// Create persists the discussion and links the given tags. The entity's
	// Id and timestamps are filled from the inserted row.
	Create(ctx context.Context, discussion *entity.Discussion, tags []*entity.Tag) error

	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Discussion, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Discussion, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// MarkClosed sets closed=true if not already set. Idempotent under
	// concurrent lifecycle evaluation.
	MarkClosed(ctx context.Context, id uuid.UUID) error

	// Delete removes the discussion, its join rows and its messages.
	// Deleting an already purged discussion is a no-op.
	Delete(ctx context.Context, id uuid.UUID) error

	FindAllTypes(ctx context.Context) ([]*entity.DiscussionType, error)
	CreateType(ctx context.Context, discussionType *entity.DiscussionType) error
}
