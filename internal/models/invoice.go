package models

import (
	"time"

	"gorm.io/gorm"

	"fieldops/internal/workflow"
)

type Invoice struct {
	gorm.Model
	JobID uint
	Job   Job

	Items  []InvoiceItem
	Amount float64 // Σ(qty × price) по позициям; расходиться им нельзя

	DueDate *time.Time
	Paid    bool

	Status          workflow.Status `gorm:"type:varchar(50);not null"`
	SupervisorNotes string          `gorm:"type:text"`

	SignatureMode    string `gorm:"size:16"`
	SignaturePayload string `gorm:"type:text"`

	CreatedByID uint
	CreatedBy   User
}

type InvoiceItem struct {
	ID        uint `gorm:"primaryKey"`
	InvoiceID uint `gorm:"not null;index"`

	Description string  `gorm:"size:255;not null"`
	Quantity    float64 `gorm:"not null"`
	UnitPrice   float64 `gorm:"not null"`
}
