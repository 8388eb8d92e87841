package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"inventory-service/internal/model"
	"inventory-service/internal/service"
	"inventory-service/pkg/database"
	"inventory-service/pkg/logger"
	"inventory-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderRequest defines the structure for supplier order creation/update requests
type OrderRequest struct {
	SupplierID      uint            `json:"supplier_id" validate:"required"`
	ItemID          *uint           `json:"item_id"`
	QuantityOrdered int             `json:"quantity_ordered"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Status          string          `json:"status"`
	Notes           string          `json:"notes"`
}

// PayOrderRequest defines the structure for M-Pesa payment requests
type PayOrderRequest struct {
	PhoneNumber string `json:"phone_number"`
}

func (r *OrderRequest) validate() string {
	if r.SupplierID == 0 {
		return "supplier_id is required"
	}
	if r.QuantityOrdered <= 0 {
		return "quantity_ordered must be a positive integer"
	}
	if r.UnitPrice.IsNegative() {
		return "unit_price must not be negative"
	}
	if r.Status != "" && !model.ValidOrderStatus(r.Status) {
		return "status must be one of PENDING, RECEIVED, CANCELLED"
	}
	return ""
}

// checkOrderReferences verifies the supplier and optional item exist.
// Returns an error message for the caller, or "" when the references are valid.
func checkOrderReferences(req *OrderRequest) string {
	var count int64
	database.GetDB().Model(&model.Supplier{}).Where("id = ?", req.SupplierID).Count(&count)
	if count == 0 {
		return "Supplier not found"
	}
	if req.ItemID != nil {
		database.GetDB().Model(&model.Item{}).Where("id = ?", *req.ItemID).Count(&count)
		if count == 0 {
			return "Item not found"
		}
	}
	return ""
}

// ListOrders retrieves all supplier orders, newest first
func ListOrders(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("order", "list")

	defer prometheus.TrackDBOperation("query")(time.Now())

	var orders []model.SupplierOrder
	result := database.GetDB().
		Preload("Supplier").
		Preload("Item").
		Order("ordered_at desc, id desc").
		Find(&orders)
	if result.Error != nil {
		log.Error("Failed to retrieve orders", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve orders"})
	}

	log.Info("Orders retrieved successfully", zap.Int("count", len(orders)))
	return c.JSON(http.StatusOK, orders)
}

// GetOrder retrieves a supplier order by ID
func GetOrder(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("order", "get")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid order ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid order ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var order model.SupplierOrder
	result := database.GetDB().Preload("Supplier").Preload("Item").First(&order, id)
	if result.Error != nil {
		log.Warn("Order not found", zap.Uint64("order_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Order not found"})
	}

	return c.JSON(http.StatusOK, order)
}

// CreateOrder records a new supplier order. Receiving an order does not
// change item stock; replenishment is recorded separately.
func CreateOrder(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Creating new supplier order")
	prometheus.RecordEntityOperation("order", "create")

	var req OrderRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if msg := checkOrderReferences(&req); msg != "" {
		return c.JSON(http.StatusNotFound, echo.Map{"error": msg})
	}

	status := req.Status
	if status == "" {
		status = model.OrderStatusPending
	}

	order := model.SupplierOrder{
		SupplierID:      req.SupplierID,
		ItemID:          req.ItemID,
		QuantityOrdered: req.QuantityOrdered,
		UnitPrice:       req.UnitPrice,
		Status:          status,
		OrderedAt:       time.Now(),
		Notes:           req.Notes,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	if result := database.GetDB().Create(&order); result.Error != nil {
		log.Error("Failed to create order", zap.Uint("supplier_id", req.SupplierID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create order"})
	}

	log.Info("Order created successfully",
		zap.Uint("id", order.ID),
		zap.Uint("supplier_id", order.SupplierID),
		zap.String("status", order.Status))
	return c.JSON(http.StatusCreated, order)
}

// UpdateOrder updates an existing supplier order
func UpdateOrder(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("order", "update")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid order ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid order ID"})
	}

	var req OrderRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Uint64("order_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	var order model.SupplierOrder
	if result := database.GetDB().First(&order, id); result.Error != nil {
		log.Warn("Order not found for update", zap.Uint64("order_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Order not found"})
	}

	if msg := checkOrderReferences(&req); msg != "" {
		return c.JSON(http.StatusNotFound, echo.Map{"error": msg})
	}

	order.SupplierID = req.SupplierID
	order.ItemID = req.ItemID
	order.QuantityOrdered = req.QuantityOrdered
	order.UnitPrice = req.UnitPrice
	if req.Status != "" {
		order.Status = req.Status
	}
	order.Notes = req.Notes

	defer prometheus.TrackDBOperation("update")(time.Now())

	if result := database.GetDB().Save(&order); result.Error != nil {
		log.Error("Failed to update order", zap.Uint64("order_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update order"})
	}

	log.Info("Order updated successfully", zap.Uint64("order_id", id), zap.String("status", order.Status))
	return c.JSON(http.StatusOK, order)
}

// DeleteOrder deletes a supplier order (soft delete). Orders with payment
// records are kept for audit integrity.
func DeleteOrder(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("order", "delete")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid order ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid order ID"})
	}

	var order model.SupplierOrder
	if result := database.GetDB().First(&order, id); result.Error != nil {
		log.Warn("Order not found for deletion", zap.Uint64("order_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Order not found"})
	}

	var paymentCount int64
	database.GetDB().Model(&model.PaymentRecord{}).Where("order_id = ?", id).Count(&paymentCount)
	if paymentCount > 0 {
		log.Warn("Order has payment records", zap.Uint64("order_id", id), zap.Int64("payments", paymentCount))
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "Order has payment records and cannot be deleted",
		})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())

	if result := database.GetDB().Delete(&order); result.Error != nil {
		log.Error("Failed to delete order", zap.Uint64("order_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete order"})
	}

	log.Info("Order deleted successfully", zap.Uint64("order_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Order deleted successfully"})
}

// PayOrderMpesa starts an M-Pesa STK push for the order's total cost. The
// created payment record is returned even when the gateway call fails, since
// the record is the audit trail for the attempt.
func PayOrderMpesa(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("payment", "mpesa_push")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid order ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid order ID"})
	}

	var req PayOrderRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Uint64("order_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	payment, err := paymentSvc.StartMobilePayment(c.Request().Context(), uint(id), req.PhoneNumber)
	switch {
	case err == nil:
		prometheus.RecordPayment(payment.Method, payment.Status)
		log.Info("STK push sent",
			zap.Uint64("order_id", id),
			zap.Uint("payment_id", payment.ID),
			zap.String("reference", payment.Reference))
		return c.JSON(http.StatusAccepted, echo.Map{
			"message": "STK push sent. Check your phone for the M-Pesa prompt.",
			"payment": payment,
		})
	case errors.Is(err, service.ErrMissingPhone):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Please enter a phone number"})
	case errors.Is(err, service.ErrOrderNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Order not found"})
	case errors.Is(err, service.ErrGatewayFault):
		prometheus.GatewayFaultsCounter.Inc()
		if payment != nil {
			prometheus.RecordPayment(payment.Method, payment.Status)
		}
		log.Error("M-Pesa payment failed", zap.Uint64("order_id", id), zap.Error(err))
		return c.JSON(http.StatusBadGateway, echo.Map{
			"error":   "Could not start M-Pesa payment",
			"reason":  err.Error(),
			"payment": payment,
		})
	default:
		log.Error("Failed to start payment", zap.Uint64("order_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to start payment"})
	}
}
