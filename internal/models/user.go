package models

import "gorm.io/gorm"

type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleSupervisor UserRole = "supervisor"
	RoleWorker     UserRole = "worker"
)

type User struct {
	gorm.Model
	Username     string   `gorm:"uniqueIndex;size:50;not null"`
	PasswordHash string   `gorm:"not null"`
	DisplayName  string   `gorm:"size:255"` // ФИО для отчётов и карточек админки
	Role         UserRole `gorm:"type:varchar(20);not null"`
}
