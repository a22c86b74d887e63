package models

import (
	"time"

	"gorm.io/gorm"
)

type JobStatus string

const (
	JobScheduled  JobStatus = "scheduled"
	JobInProgress JobStatus = "in_progress"
	JobCompleted  JobStatus = "completed"
	JobCancelled  JobStatus = "cancelled"
)

type Job struct {
	gorm.Model
	ClientID uint
	Client   Client

	Title       string    `gorm:"size:255;not null"`
	Status      JobStatus `gorm:"type:varchar(50);not null"`
	Description string    `gorm:"type:text"`

	ScheduledAt     *time.Time
	DurationMinutes int

	// раскладка стоимости по статьям
	LaborCost    float64
	MaterialCost float64
	ServiceCost  float64

	AssignedToID uint // User.ID исполнителя (worker)

	// заполняется, когда заявка создана автоматически из подписанного счёта
	SourceInvoiceID *uint
}
