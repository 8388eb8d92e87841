package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents an operator account for the inventory service
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Username  string         `json:"username" gorm:"type:varchar(150);uniqueIndex;not null"`
	Email     string         `json:"email" gorm:"type:varchar(100)"`
	Password  string         `json:"-" gorm:"type:varchar(255)"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
