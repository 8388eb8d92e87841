package model

import (
	"time"
)

// StockIssue represents a withdrawal of item quantity to a client. Creating
// one decrements the referenced item's stock; issues are append-only audit
// rows and are never edited afterwards.
type StockIssue struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ItemID    uint      `json:"item_id" gorm:"index;not null"`
	Item      *Item     `json:"item,omitempty" gorm:"foreignKey:ItemID"`
	ClientID  *uint     `json:"client_id,omitempty" gorm:"index"`
	Client    *Client   `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Quantity  int       `json:"quantity" gorm:"not null;default:1"`
	IssueDate time.Time `json:"issue_date"`
	IssuedBy  string    `json:"issued_by" gorm:"type:varchar(150)"`
	Notes     string    `json:"notes" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}
