package models

import "gorm.io/gorm"

type Client struct {
	gorm.Model
	Name         string `gorm:"size:255;not null"` // Название организации или ФИО
	Address      string `gorm:"size:512"`          // Адрес объекта обслуживания
	City         string `gorm:"size:100"`
	ContactEmail string `gorm:"size:255"`  // Email контактного лица
	ContactPhone string `gorm:"size:50"`   // Телефон контактного лица
	Notes        string `gorm:"type:text"` // Комментарии о клиенте / объекте

	Jobs []Job
}
