package memory

import (
	"time"

	"discussly-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// UserCache keeps email -> user lookups off the hot send path.
type UserCache struct {
	cache *cache.Cache
}

func NewUserCache() *UserCache {
	// Default expiration of 1 hour, purge sweep every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &UserCache{
		cache: c,
	}
}

func (r *UserCache) Save(user *entity.User) {
	r.cache.Set(user.Email, user, cache.DefaultExpiration)
}

func (r *UserCache) Get(email string) (*entity.User, bool) {
	if x, found := r.cache.Get(email); found {
		return x.(*entity.User), true
	}
	return nil, false
}

func (r *UserCache) Delete(email string) {
	r.cache.Delete(email)
}
