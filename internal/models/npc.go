package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Npc is a non-player character owned by a single user. Data carries the
// free-form stat block as raw JSON.
type Npc struct {
	ID         string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name       string         `json:"name" gorm:"type:varchar(100);not null"`
	Race       string         `json:"race" gorm:"type:varchar(100);not null"`
	Class      *string        `json:"class" gorm:"type:varchar(100)"`
	Data       datatypes.JSON `json:"data"`
	UserID     string         `json:"user_id" gorm:"index;type:varchar(36);not null"`
	gorm.Model `json:"-"`
}
