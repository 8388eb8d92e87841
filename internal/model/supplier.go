package model

import (
	"time"

	"gorm.io/gorm"
)

// Supplier represents a vendor that item replenishment is ordered from
type Supplier struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	Name          string         `json:"name" gorm:"type:varchar(150);index;not null"`
	ContactPerson string         `json:"contact_person" gorm:"type:varchar(150)"`
	Phone         string         `json:"phone" gorm:"type:varchar(30)"`
	Email         string         `json:"email" gorm:"type:varchar(100)"`
	Address       string         `json:"address" gorm:"type:text"`
	IsActive      bool           `json:"is_active" gorm:"default:true"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
