package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByName struct {
	Name string
}

func (s ByName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("name = ?", s.Name)
}

// ByOwnerEmail selects discussions owned by the user with the given email.
type ByOwnerEmail struct {
	Email string
}

func (s ByOwnerEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id IN (?)", db.Session(&gorm.Session{NewDB: true}).
		Table("users").Select("id").Where("email = ?", s.Email))
}

// LimitedDeadlineBefore selects limited discussions whose deadline has
// passed the given instant. Used by the lifecycle sweep.
type LimitedDeadlineBefore struct {
	Instant time.Time
}

func (s LimitedDeadlineBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_limited = ? AND limited_time < ?", true, s.Instant)
}

type ByDiscussionID struct {
	DiscussionID uuid.UUID
}

func (s ByDiscussionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("discussion_id = ?", s.DiscussionID)
}
