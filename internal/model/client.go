package model

import (
	"time"

	"gorm.io/gorm"
)

// Client represents a customer that stock is issued to
type Client struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	Name          string         `json:"name" gorm:"type:varchar(255);index;not null"`
	ContactPerson string         `json:"contact_person" gorm:"type:varchar(255)"`
	Phone         string         `json:"phone" gorm:"type:varchar(50)"`
	Email         string         `json:"email" gorm:"type:varchar(100)"`
	Address       string         `json:"address" gorm:"type:varchar(255)"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
