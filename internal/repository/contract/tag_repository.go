package contract

import (
	"context"

	"discussly-be/internal/entity"
)

type TagRepository interface {
	FindAll(ctx context.Context) ([]*entity.Tag, error)
	FindByNames(ctx context.Context, names []string) ([]*entity.Tag, error)

	// FindOrCreateByNames resolves every name to a tag row, inserting the
	// ones that do not exist yet.
	FindOrCreateByNames(ctx context.Context, names []string) ([]*entity.Tag, error)
}
