package models

import "gorm.io/gorm"

type PhotoStatus string

const (
	PhotoPending  PhotoStatus = "pending"
	PhotoApproved PhotoStatus = "approved"
	PhotoRejected PhotoStatus = "rejected"
)

// Заявка на согласование фото с объекта. Файл лежит в хранилище
// под ключом jobs/<id>/..., сюда пишем только ключ.
type PhotoApprovalRequest struct {
	gorm.Model
	JobID uint
	Job   Job

	PhotoKey    string      `gorm:"size:512;not null"`
	Description string      `gorm:"type:text"`
	Status      PhotoStatus `gorm:"type:varchar(20);not null"`

	CreatedByID uint
	CreatedBy   User
}
