package models

import "gorm.io/gorm"

type NotificationPreference struct {
	gorm.Model
	UserID uint `gorm:"uniqueIndex;not null"`

	PushEnabled  bool `gorm:"default:true"`
	EmailEnabled bool `gorm:"default:true"`
}
