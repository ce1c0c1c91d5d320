package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"discussly-be/internal/entity"
	"discussly-be/internal/repository/contract"
	"discussly-be/internal/repository/specification"
	"discussly-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

// In-memory doubles of the repository contracts. Specifications are matched
// by type switch instead of being applied to a gorm query.

type fakeDiscussionRepo struct {
	mu          sync.Mutex
	discussions map[uuid.UUID]*entity.Discussion
	types       []*entity.DiscussionType
}

func newFakeDiscussionRepo() *fakeDiscussionRepo {
	return &fakeDiscussionRepo{discussions: make(map[uuid.UUID]*entity.Discussion)}
}

func (r *fakeDiscussionRepo) add(d *entity.Discussion) *entity.Discussion {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d.Id == uuid.Nil {
		d.Id = uuid.New()
	}
	r.discussions[d.Id] = d
	return d
}

func (r *fakeDiscussionRepo) Create(ctx context.Context, discussion *entity.Discussion, tags []*entity.Tag) error {
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = tag.Name
	}
	discussion.Tags = names
	if discussion.CreatedAt.IsZero() {
		discussion.CreatedAt = time.Now()
	}
	r.add(discussion)
	return nil
}

func discussionMatches(d *entity.Discussion, specs []specification.Specification) bool {
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByID:
			if d.Id != spec.ID {
				return false
			}
		case specification.ByName:
			if d.Name != spec.Name {
				return false
			}
		case specification.ByOwnerEmail:
			if d.OwnerEmail != spec.Email {
				return false
			}
		case specification.LimitedDeadlineBefore:
			if !d.IsLimited || d.LimitedTime == nil || !d.LimitedTime.Before(spec.Instant) {
				return false
			}
		}
	}
	return true
}

func (r *fakeDiscussionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Discussion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.discussions {
		if discussionMatches(d, specs) {
			return d, nil
		}
	}
	return nil, nil
}

func (r *fakeDiscussionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Discussion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*entity.Discussion
	for _, d := range r.discussions {
		if discussionMatches(d, specs) {
			result = append(result, d)
		}
	}

	for _, s := range specs {
		if order, ok := s.(specification.OrderBy); ok && order.Field == "created_at" {
			sort.Slice(result, func(i, j int) bool {
				if order.Desc {
					return result[i].CreatedAt.After(result[j].CreatedAt)
				}
				return result[i].CreatedAt.Before(result[j].CreatedAt)
			})
		}
	}
	return result, nil
}

func (r *fakeDiscussionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r *fakeDiscussionRepo) MarkClosed(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.discussions[id]; ok {
		d.Closed = true
	}
	return nil
}

func (r *fakeDiscussionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.discussions, id)
	return nil
}

func (r *fakeDiscussionRepo) FindAllTypes(ctx context.Context) ([]*entity.DiscussionType, error) {
	return r.types, nil
}

func (r *fakeDiscussionRepo) CreateType(ctx context.Context, discussionType *entity.DiscussionType) error {
	if discussionType.Id == uuid.Nil {
		discussionType.Id = uuid.New()
	}
	r.types = append(r.types, discussionType)
	return nil
}

func (r *fakeDiscussionRepo) contains(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.discussions[id]
	return ok
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages map[uuid.UUID]*entity.Message

	// now is stamped onto created messages, standing in for the DB default.
	now time.Time
}

func newFakeMessageRepo(now time.Time) *fakeMessageRepo {
	return &fakeMessageRepo{messages: make(map[uuid.UUID]*entity.Message), now: now}
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if message.Id == uuid.Nil {
		message.Id = uuid.New()
	}
	stored := *message
	stored.CreatedAt = r.now
	r.messages[stored.Id] = &stored
	return nil
}

func (r *fakeMessageRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range specs {
		if spec, ok := s.(specification.ByID); ok {
			if m, found := r.messages[spec.ID]; found {
				return m, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*entity.Message, 0, len(r.messages))
	for _, m := range r.messages {
		result = append(result, m)
	}
	return result, nil
}

func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.messages)), nil
}

type fakeTagRepo struct {
	mu   sync.Mutex
	tags map[string]*entity.Tag
}

func newFakeTagRepo() *fakeTagRepo {
	return &fakeTagRepo{tags: make(map[string]*entity.Tag)}
}

func (r *fakeTagRepo) FindAll(ctx context.Context) ([]*entity.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*entity.Tag, 0, len(r.tags))
	for _, tag := range r.tags {
		result = append(result, tag)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *fakeTagRepo) FindByNames(ctx context.Context, names []string) ([]*entity.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.Tag
	for _, name := range names {
		if tag, ok := r.tags[name]; ok {
			result = append(result, tag)
		}
	}
	return result, nil
}

func (r *fakeTagRepo) FindOrCreateByNames(ctx context.Context, names []string) ([]*entity.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*entity.Tag, 0, len(names))
	for _, name := range names {
		tag, ok := r.tags[name]
		if !ok {
			tag = &entity.Tag{Id: uuid.New(), Name: name}
			r.tags[name] = tag
		}
		result = append(result, tag)
	}
	return result, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users []*entity.User
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.Id == uuid.Nil {
		user.Id = uuid.New()
	}
	r.users = append(r.users, user)
	return nil
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		matched := true
		for _, s := range specs {
			if spec, ok := s.(specification.ByEmail); ok && u.Email != spec.Email {
				matched = false
			}
		}
		if matched {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

type fakeUnitOfWork struct {
	discussions *fakeDiscussionRepo
	messages    *fakeMessageRepo
	tags        *fakeTagRepo
	users       *fakeUserRepo

	begun      int
	committed  int
	rolledBack int
}

func newFakeUnitOfWork(now time.Time) *fakeUnitOfWork {
	return &fakeUnitOfWork{
		discussions: newFakeDiscussionRepo(),
		messages:    newFakeMessageRepo(now),
		tags:        newFakeTagRepo(),
		users:       &fakeUserRepo{},
	}
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { u.begun++; return nil }
func (u *fakeUnitOfWork) Commit() error                   { u.committed++; return nil }

func (u *fakeUnitOfWork) Rollback() error {
	if u.begun > u.committed+u.rolledBack {
		u.rolledBack++
	}
	return nil
}

func (u *fakeUnitOfWork) DiscussionRepository() contract.DiscussionRepository { return u.discussions }
func (u *fakeUnitOfWork) MessageRepository() contract.MessageRepository       { return u.messages }
func (u *fakeUnitOfWork) TagRepository() contract.TagRepository               { return u.tags }
func (u *fakeUnitOfWork) UserRepository() contract.UserRepository             { return u.users }

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }
