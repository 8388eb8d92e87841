package service

import (
	"context"
	"fmt"
	"strings"

	"inventory-service/internal/model"
	"inventory-service/internal/mpesa"
	"inventory-service/pkg/config"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentStore is the persistence port for payment records.
type PaymentStore interface {
	// GetOrder returns the supplier order or ErrOrderNotFound.
	GetOrder(ctx context.Context, id uint) (*model.SupplierOrder, error)

	CreatePayment(ctx context.Context, payment *model.PaymentRecord) error
	UpdatePayment(ctx context.Context, payment *model.PaymentRecord) error
}

// PaymentGateway is the external payment-initiation port.
type PaymentGateway interface {
	InitiateSTKPush(ctx context.Context, req mpesa.STKPushRequest) (*mpesa.STKPushResponse, error)
}

// PaymentService drives a payment record through its one-shot
// pending-to-terminal transition for mobile-money payments.
type PaymentService struct {
	store   PaymentStore
	gateway PaymentGateway
	cfg     *config.MpesaConfig
	log     *zap.Logger
}

// NewPaymentService creates a payment service over the given store and gateway.
func NewPaymentService(store PaymentStore, gateway PaymentGateway, cfg *config.MpesaConfig, log *zap.Logger) *PaymentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PaymentService{store: store, gateway: gateway, cfg: cfg, log: log}
}

// StartMobilePayment creates a PENDING payment record for the order and asks
// the gateway to send an STK push to the given phone.
//
// Push acceptance is not settlement: on acceptance the record keeps status
// PENDING and stores the gateway reference; the true outcome only arrives on
// the asynchronous gateway callback, which is outside this service. On a
// gateway fault the record is marked FAILED and kept as the audit trail, and
// ErrGatewayFault is returned with the diagnostic. Nothing is retried, and
// repeated calls for the same order create independent records and pushes.
func (s *PaymentService) StartMobilePayment(ctx context.Context, orderID uint, phone string) (*model.PaymentRecord, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, ErrMissingPhone
	}

	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// Gateways reject zero-value charges; bill the minimal unit instead.
	amount := order.TotalCost()
	if amount.LessThanOrEqual(decimal.Zero) {
		amount = decimal.NewFromInt(1)
	}

	payment := &model.PaymentRecord{
		OrderID:     &order.ID,
		Method:      model.PaymentMethodMpesa,
		Amount:      amount,
		Status:      model.PaymentStatusPending,
		PhoneNumber: phone,
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("create payment record: %w", err)
	}

	pushCtx := ctx
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		pushCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	resp, pushErr := s.gateway.InitiateSTKPush(pushCtx, mpesa.STKPushRequest{
		Phone:            phone,
		Amount:           amount.Round(0).IntPart(),
		AccountReference: fmt.Sprintf("Order-%d", order.ID),
		Description:      "Inventory supplier order payment",
		CallbackURL:      s.cfg.CallbackURL,
	})
	if pushErr != nil {
		payment.Status = model.PaymentStatusFailed
		payment.Reference = "ERROR"
		if err := s.store.UpdatePayment(ctx, payment); err != nil {
			s.log.Error("failed to persist failed payment",
				zap.Uint("payment_id", payment.ID),
				zap.Error(err))
		}
		s.log.Warn("STK push failed",
			zap.Uint("order_id", order.ID),
			zap.String("phone", phone),
			zap.Error(pushErr))
		return payment, fmt.Errorf("%w: %v", ErrGatewayFault, pushErr)
	}

	payment.Reference = resp.CheckoutRequestID
	if payment.Reference == "" {
		payment.Reference = "MPESA_STK_SENT"
	}
	if err := s.store.UpdatePayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("update payment record: %w", err)
	}

	s.log.Info("STK push sent",
		zap.Uint("order_id", order.ID),
		zap.Uint("payment_id", payment.ID),
		zap.String("reference", payment.Reference),
		zap.String("amount", amount.String()),
	)

	return payment, nil
}
