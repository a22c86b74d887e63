package models

import (
	"gorm.io/gorm"

	"fieldops/internal/workflow"
)

// Смета: снимок контактных данных клиента + позиции.
// Статус живёт по таблице переходов из internal/workflow.
type Quote struct {
	gorm.Model
	ClientName   string `gorm:"size:255;not null"`
	Address      string `gorm:"size:512;not null"`
	ContactEmail string `gorm:"size:255"`
	ContactPhone string `gorm:"size:50"`

	Items  []QuoteItem
	Amount float64 // выставляется из billing.Total, либо корректировкой руководителя

	Status          workflow.Status `gorm:"type:varchar(50);not null"`
	SupervisorNotes string          `gorm:"type:text"`

	SignatureMode    string `gorm:"size:16"` // drawn / typed — фиксируем режим для аудита
	SignaturePayload string `gorm:"type:text"`

	CreatedByID uint
	CreatedBy   User
}

type QuoteItem struct {
	ID      uint `gorm:"primaryKey"`
	QuoteID uint `gorm:"not null;index"`

	Description string  `gorm:"size:255;not null"`
	Quantity    float64 `gorm:"not null"`
	UnitPrice   float64 `gorm:"not null"`
}
