package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"inventory-service/internal/model"
	"inventory-service/internal/mpesa"
	"inventory-service/pkg/config"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePaymentStore struct {
	mu       sync.Mutex
	orders   map[uint]*model.SupplierOrder
	payments map[uint]*model.PaymentRecord
	nextID   uint
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{
		orders:   make(map[uint]*model.SupplierOrder),
		payments: make(map[uint]*model.PaymentRecord),
	}
}

func (f *fakePaymentStore) GetOrder(ctx context.Context, id uint) (*model.SupplierOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (f *fakePaymentStore) CreatePayment(ctx context.Context, payment *model.PaymentRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	payment.ID = f.nextID
	copied := *payment
	f.payments[payment.ID] = &copied
	return nil
}

func (f *fakePaymentStore) UpdatePayment(ctx context.Context, payment *model.PaymentRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.payments[payment.ID]; !ok {
		return errors.New("payment not found")
	}
	copied := *payment
	f.payments[payment.ID] = &copied
	return nil
}

// fakeGateway records the pushes it receives and returns a canned response or
// error.
type fakeGateway struct {
	mu       sync.Mutex
	requests []mpesa.STKPushRequest
	resp     *mpesa.STKPushResponse
	err      error
}

func (f *fakeGateway) InitiateSTKPush(ctx context.Context, req mpesa.STKPushRequest) (*mpesa.STKPushResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	if f.resp != nil {
		return f.resp, nil
	}
	return &mpesa.STKPushResponse{ResponseCode: "0"}, nil
}

func newPaymentFixture(gateway *fakeGateway) (*PaymentService, *fakePaymentStore) {
	store := newFakePaymentStore()
	store.orders[1] = &model.SupplierOrder{
		ID:              1,
		SupplierID:      1,
		QuantityOrdered: 4,
		UnitPrice:       decimal.NewFromInt(250),
	}
	cfg := &config.MpesaConfig{
		Shortcode:   "174379",
		CallbackURL: "https://example.com/mpesa/callback",
		Timeout:     5 * time.Second,
	}
	return NewPaymentService(store, gateway, cfg, nil), store
}

func TestStartMobilePayment_PushAccepted(t *testing.T) {
	gateway := &fakeGateway{
		resp: &mpesa.STKPushResponse{
			CheckoutRequestID: "ws_CO_123",
			ResponseCode:      "0",
		},
	}
	svc, store := newPaymentFixture(gateway)

	payment, err := svc.StartMobilePayment(context.Background(), 1, "254712345678")
	require.NoError(t, err)

	// Acceptance is not settlement: the record stays PENDING.
	assert.Equal(t, model.PaymentStatusPending, payment.Status)
	assert.Equal(t, "ws_CO_123", payment.Reference)
	assert.Equal(t, model.PaymentMethodMpesa, payment.Method)
	assert.True(t, decimal.NewFromInt(1000).Equal(payment.Amount))

	stored := store.payments[payment.ID]
	require.NotNil(t, stored)
	assert.Equal(t, model.PaymentStatusPending, stored.Status)
	assert.Equal(t, "ws_CO_123", stored.Reference)

	require.Len(t, gateway.requests, 1)
	push := gateway.requests[0]
	assert.Equal(t, "254712345678", push.Phone)
	assert.Equal(t, int64(1000), push.Amount)
	assert.Equal(t, "Order-1", push.AccountReference)
	assert.Equal(t, "https://example.com/mpesa/callback", push.CallbackURL)
}

func TestStartMobilePayment_GatewayFault(t *testing.T) {
	gateway := &fakeGateway{err: errors.New("connection refused")}
	svc, store := newPaymentFixture(gateway)

	payment, err := svc.StartMobilePayment(context.Background(), 1, "254712345678")
	require.ErrorIs(t, err, ErrGatewayFault)

	// The record survives the fault as the audit trail.
	require.NotNil(t, payment)
	assert.Equal(t, model.PaymentStatusFailed, payment.Status)
	assert.Equal(t, "ERROR", payment.Reference)

	stored := store.payments[payment.ID]
	require.NotNil(t, stored)
	assert.Equal(t, model.PaymentStatusFailed, stored.Status)
	assert.Equal(t, "ERROR", stored.Reference)
}

func TestStartMobilePayment_ZeroTotalBillsOneShilling(t *testing.T) {
	gateway := &fakeGateway{}
	svc, store := newPaymentFixture(gateway)
	store.orders[2] = &model.SupplierOrder{ID: 2, SupplierID: 1, QuantityOrdered: 3}

	payment, err := svc.StartMobilePayment(context.Background(), 2, "254712345678")
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(1).Equal(payment.Amount))
	require.Len(t, gateway.requests, 1)
	assert.Equal(t, int64(1), gateway.requests[0].Amount)
}

func TestStartMobilePayment_MissingReferenceFallback(t *testing.T) {
	gateway := &fakeGateway{resp: &mpesa.STKPushResponse{ResponseCode: "0"}}
	svc, _ := newPaymentFixture(gateway)

	payment, err := svc.StartMobilePayment(context.Background(), 1, "254712345678")
	require.NoError(t, err)
	assert.Equal(t, "MPESA_STK_SENT", payment.Reference)
}

func TestStartMobilePayment_MissingPhone(t *testing.T) {
	gateway := &fakeGateway{}
	svc, store := newPaymentFixture(gateway)

	for _, phone := range []string{"", "   "} {
		_, err := svc.StartMobilePayment(context.Background(), 1, phone)
		assert.ErrorIs(t, err, ErrMissingPhone)
	}
	assert.Empty(t, store.payments)
	assert.Empty(t, gateway.requests)
}

func TestStartMobilePayment_OrderNotFound(t *testing.T) {
	gateway := &fakeGateway{}
	svc, store := newPaymentFixture(gateway)

	_, err := svc.StartMobilePayment(context.Background(), 99, "254712345678")
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.Empty(t, store.payments)
	assert.Empty(t, gateway.requests)
}

func TestStartMobilePayment_RepeatedCallsCreateIndependentRecords(t *testing.T) {
	gateway := &fakeGateway{
		resp: &mpesa.STKPushResponse{CheckoutRequestID: "ws_CO_abc", ResponseCode: "0"},
	}
	svc, store := newPaymentFixture(gateway)

	var ids []uint
	for i := 0; i < 3; i++ {
		payment, err := svc.StartMobilePayment(context.Background(), 1, "254712345678")
		require.NoError(t, err)
		ids = append(ids, payment.ID)
	}

	assert.Len(t, store.payments, 3)
	assert.Len(t, gateway.requests, 3)
	assert.NotEqual(t, ids[0], ids[1])
	assert.NotEqual(t, ids[1], ids[2])
}

func TestStartMobilePayment_PushDeadlineApplied(t *testing.T) {
	gateway := &fakeGateway{}
	svc, _ := newPaymentFixture(gateway)

	var hadDeadline bool
	gateway.resp = &mpesa.STKPushResponse{ResponseCode: "0"}
	deadlineGateway := gatewayFunc(func(ctx context.Context, req mpesa.STKPushRequest) (*mpesa.STKPushResponse, error) {
		_, hadDeadline = ctx.Deadline()
		return gateway.InitiateSTKPush(ctx, req)
	})
	svc.gateway = deadlineGateway

	_, err := svc.StartMobilePayment(context.Background(), 1, "254712345678")
	require.NoError(t, err)
	assert.True(t, hadDeadline)
}

type gatewayFunc func(ctx context.Context, req mpesa.STKPushRequest) (*mpesa.STKPushResponse, error)

func (f gatewayFunc) InitiateSTKPush(ctx context.Context, req mpesa.STKPushRequest) (*mpesa.STKPushResponse, error) {
	return f(ctx, req)
}
