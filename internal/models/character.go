package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Character is a player character owned by a single user.
type Character struct {
	ID         string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name       string         `json:"name" gorm:"type:varchar(100);not null"`
	Race       string         `json:"race" gorm:"type:varchar(100);not null"`
	Class      *string        `json:"class" gorm:"type:varchar(100)"`
	Level      int            `json:"level" gorm:"not null;default:1"`
	Data       datatypes.JSON `json:"data"`
	UserID     string         `json:"user_id" gorm:"index;type:varchar(36);not null"`
	gorm.Model `json:"-"`
}
