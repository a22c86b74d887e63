package models

import (
	"time"

	"gorm.io/gorm"
)

// Учёт времени: запись открыта, пока EndedAt == nil.
// Прошедшее время всегда считается от StartedAt, не храним счётчик.
type TimeEntry struct {
	gorm.Model
	JobID uint
	Job   Job

	UserID uint
	User   User

	StartedAt time.Time `gorm:"not null"`
	EndedAt   *time.Time
}

func (t *TimeEntry) Minutes() int {
	if t.EndedAt == nil {
		return int(time.Since(t.StartedAt).Minutes())
	}
	return int(t.EndedAt.Sub(t.StartedAt).Minutes())
}
