package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Stock status values derived from quantity and reorder level
const (
	ItemStatusOK  = "OK"
	ItemStatusLow = "LOW"
	ItemStatusOut = "OUT"
)

// Item represents a stocked product
type Item struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	Name         string          `json:"name" gorm:"type:varchar(255);index;not null"`
	Category     string          `json:"category" gorm:"type:varchar(100)"`
	Description  string          `json:"description" gorm:"type:text"`
	Quantity     int             `json:"quantity" gorm:"not null;default:0;check:quantity >= 0"`
	UnitPrice    decimal.Decimal `json:"unit_price" gorm:"type:numeric(12,2);default:0"`
	ReorderLevel int             `json:"reorder_level" gorm:"not null;default:0"`
	Status       string          `json:"status" gorm:"-"`
	TotalValue   decimal.Decimal `json:"total_value" gorm:"-"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `json:"deleted_at,omitempty" gorm:"index"`
}

// StockStatus derives the status from quantity and reorder level. The status
// is never stored, so it cannot drift from the quantity.
func (i *Item) StockStatus() string {
	switch {
	case i.Quantity == 0:
		return ItemStatusOut
	case i.Quantity <= i.ReorderLevel:
		return ItemStatusLow
	default:
		return ItemStatusOK
	}
}

// Refresh recomputes the derived fields after a quantity or price change.
func (i *Item) Refresh() {
	i.Status = i.StockStatus()
	i.TotalValue = i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// AfterFind populates the derived fields on every read.
func (i *Item) AfterFind(tx *gorm.DB) error {
	i.Refresh()
	return nil
}
