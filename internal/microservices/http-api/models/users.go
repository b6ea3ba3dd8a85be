package models

import (
	"time"

	"pinduca/internal/policy"
)

type User struct {
	ID           int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string      `gorm:"not null" json:"nome"`
	Email        string      `gorm:"uniqueIndex:users_email_key;not null" json:"email"`
	PasswordHash string      `gorm:"column:password_hash;not null" json:"-"` // Not show in JSON
	Role         policy.Role `gorm:"type:varchar(10);default:USER;not null" json:"role"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
