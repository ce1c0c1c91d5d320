package model

import (
	"time"

	"github.com/google/uuid"
)

type Discussion struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Description  string    `gorm:"type:text"`
	TypeId       uuid.UUID `gorm:"type:uuid;not null;index"`
	UserId       uuid.UUID `gorm:"type:uuid;not null;index"`
	IsPrivate    bool      `gorm:"not null;default:false"`
	PasswordHash *string   `gorm:"type:varchar(255)"`
	IsLimited    bool      `gorm:"not null;default:false"`
	LimitedTime  *time.Time
	Closed       bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`

	Type DiscussionType `gorm:"foreignKey:TypeId"`
	User User           `gorm:"foreignKey:UserId"`
	Tags []Tag          `gorm:"many2many:discussions_tags"`
}

func (Discussion) TableName() string {
	return "discussions"
}

type DiscussionType struct {
	Id   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name string    `gorm:"type:varchar(100);uniqueIndex;not null"`
}

func (DiscussionType) TableName() string {
	return "discussion_types"
}
