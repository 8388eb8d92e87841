package storage

import (
	"context"
	"errors"
	"fmt"

	"inventory-service/internal/model"
	"inventory-service/internal/service"

	"gorm.io/gorm"
)

// PaymentStore is the gorm-backed implementation of service.PaymentStore.
type PaymentStore struct {
	db *gorm.DB
}

// NewPaymentStore creates a payment store over the given database.
func NewPaymentStore(db *gorm.DB) *PaymentStore {
	return &PaymentStore{db: db}
}

// GetOrder returns the supplier order or service.ErrOrderNotFound.
func (s *PaymentStore) GetOrder(ctx context.Context, id uint) (*model.SupplierOrder, error) {
	var order model.SupplierOrder
	if err := s.db.WithContext(ctx).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &order, nil
}

// CreatePayment inserts a new payment record.
func (s *PaymentStore) CreatePayment(ctx context.Context, payment *model.PaymentRecord) error {
	if err := s.db.WithContext(ctx).Create(payment).Error; err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// UpdatePayment persists changes to an existing payment record.
func (s *PaymentStore) UpdatePayment(ctx context.Context, payment *model.PaymentRecord) error {
	if err := s.db.WithContext(ctx).Save(payment).Error; err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	return nil
}
