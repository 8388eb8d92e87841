package handler

import (
	"net/http"
	"time"

	"inventory-service/internal/model"
	"inventory-service/pkg/database"
	"inventory-service/pkg/logger"
	"inventory-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentRequest defines the structure for manual payment record creation
type PaymentRequest struct {
	OrderID     *uint           `json:"order_id"`
	Method      string          `json:"method" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	PhoneNumber string          `json:"phone_number"`
	Reference   string          `json:"reference"`
}

// ListPayments retrieves all payment records, newest first
func ListPayments(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("payment", "list")

	defer prometheus.TrackDBOperation("query")(time.Now())

	var payments []model.PaymentRecord
	result := database.GetDB().
		Preload("Order").
		Order("created_at desc, id desc").
		Find(&payments)
	if result.Error != nil {
		log.Error("Failed to retrieve payments", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve payments"})
	}

	log.Info("Payments retrieved successfully", zap.Int("count", len(payments)))
	return c.JSON(http.StatusOK, payments)
}

// CreatePayment records a payment manually. Records start PENDING; only the
// M-Pesa push flow moves a record towards a terminal status.
func CreatePayment(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Creating new payment record")
	prometheus.RecordEntityOperation("payment", "create")

	var req PaymentRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if !model.ValidPaymentMethod(req.Method) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "method must be one of MPESA, PAYPAL, PAYSTACK, CASH",
		})
	}
	if req.Amount.IsNegative() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must not be negative"})
	}

	if req.OrderID != nil {
		var count int64
		database.GetDB().Model(&model.SupplierOrder{}).Where("id = ?", *req.OrderID).Count(&count)
		if count == 0 {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Order not found"})
		}
	}

	payment := model.PaymentRecord{
		OrderID:     req.OrderID,
		Method:      req.Method,
		Amount:      req.Amount,
		Status:      model.PaymentStatusPending,
		PhoneNumber: req.PhoneNumber,
		Reference:   req.Reference,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	if result := database.GetDB().Create(&payment); result.Error != nil {
		log.Error("Failed to create payment", zap.String("method", req.Method), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create payment"})
	}

	prometheus.RecordPayment(payment.Method, payment.Status)
	log.Info("Payment record saved",
		zap.Uint("id", payment.ID),
		zap.String("method", payment.Method),
		zap.String("amount", payment.Amount.String()))
	return c.JSON(http.StatusCreated, payment)
}
