package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Supplier order status values
const (
	OrderStatusPending   = "PENDING"
	OrderStatusReceived  = "RECEIVED"
	OrderStatusCancelled = "CANCELLED"
)

// SupplierOrder represents a purchase order placed with a supplier
type SupplierOrder struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	SupplierID      uint            `json:"supplier_id" gorm:"index;not null"`
	Supplier        *Supplier       `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	ItemID          *uint           `json:"item_id,omitempty" gorm:"index"`
	Item            *Item           `json:"item,omitempty" gorm:"foreignKey:ItemID"`
	QuantityOrdered int             `json:"quantity_ordered" gorm:"not null;default:1"`
	UnitPrice       decimal.Decimal `json:"unit_price" gorm:"type:numeric(12,2);default:0"`
	Status          string          `json:"status" gorm:"type:varchar(20);default:'PENDING'"`
	OrderedAt       time.Time       `json:"ordered_at"`
	Notes           string          `json:"notes" gorm:"type:text"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `json:"deleted_at,omitempty" gorm:"index"`
}

// TotalCost is the order total, quantity ordered times unit price.
func (o *SupplierOrder) TotalCost() decimal.Decimal {
	return o.UnitPrice.Mul(decimal.NewFromInt(int64(o.QuantityOrdered)))
}

// ValidOrderStatus reports whether s is one of the known order statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusReceived, OrderStatusCancelled:
		return true
	}
	return false
}
