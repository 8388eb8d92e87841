package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment methods
const (
	PaymentMethodMpesa    = "MPESA"
	PaymentMethodPaypal   = "PAYPAL"
	PaymentMethodPaystack = "PAYSTACK"
	PaymentMethodCash     = "CASH"
)

// Payment statuses
const (
	PaymentStatusPending = "PENDING"
	PaymentStatusSuccess = "SUCCESS"
	PaymentStatusFailed  = "FAILED"
)

// PaymentRecord is an audit row tracking one payment attempt against a
// supplier order. Records are created PENDING and move to a terminal status
// at most once.
type PaymentRecord struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	OrderID     *uint           `json:"order_id,omitempty" gorm:"index"`
	Order       *SupplierOrder  `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	Method      string          `json:"method" gorm:"type:varchar(20);not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);default:0"`
	Status      string          `json:"status" gorm:"type:varchar(20);default:'PENDING'"`
	PhoneNumber string          `json:"phone_number" gorm:"type:varchar(20)"`
	Reference   string          `json:"reference" gorm:"type:varchar(100)"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ValidPaymentMethod reports whether m is one of the known payment methods.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodMpesa, PaymentMethodPaypal, PaymentMethodPaystack, PaymentMethodCash:
		return true
	}
	return false
}
