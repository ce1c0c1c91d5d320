package specification

import "gorm.io/gorm"

// Specification composes gorm query fragments.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
