package handler

import (
	"net/http"
	"time"

	"inventory-service/internal/model"
	"inventory-service/pkg/database"
	"inventory-service/pkg/logger"
	"inventory-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dashboard returns summary figures for the main screen: stock totals,
// low/out-of-stock counts, recent items and per-entity record counts.
func Dashboard(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("dashboard", "get")

	db := database.GetDB()
	search := c.QueryParam("search")

	// Fresh query per aggregate; gorm chains accumulate conditions.
	itemQuery := func() *gorm.DB {
		q := db.Model(&model.Item{})
		if search != "" {
			q = q.Where("name ILIKE ?", "%"+search+"%")
		}
		return q
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var totalItems int64
	if err := itemQuery().Count(&totalItems).Error; err != nil {
		log.Error("Failed to count items", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load dashboard"})
	}

	var totalStock int64
	itemQuery().Select("COALESCE(SUM(quantity), 0)").Scan(&totalStock)

	var lowStockCount, outOfStockCount int64
	itemQuery().Where("quantity > 0 AND quantity <= reorder_level").Count(&lowStockCount)
	itemQuery().Where("quantity = 0").Count(&outOfStockCount)

	var recentItems []model.Item
	itemQuery().Order("created_at desc").Limit(5).Find(&recentItems)

	var supplierCount, clientCount, orderCount, pendingPaymentCount int64
	db.Model(&model.Supplier{}).Count(&supplierCount)
	db.Model(&model.Client{}).Count(&clientCount)
	db.Model(&model.SupplierOrder{}).Count(&orderCount)
	db.Model(&model.PaymentRecord{}).Where("status = ?", model.PaymentStatusPending).Count(&pendingPaymentCount)

	prometheus.UpdateStockGauges(lowStockCount, outOfStockCount)

	log.Info("Dashboard loaded",
		zap.Int64("total_items", totalItems),
		zap.Int64("total_stock", totalStock),
		zap.Int64("low_stock", lowStockCount),
		zap.Int64("out_of_stock", outOfStockCount))

	return c.JSON(http.StatusOK, echo.Map{
		"total_items":           totalItems,
		"total_stock":           totalStock,
		"low_stock_count":       lowStockCount,
		"out_of_stock_count":    outOfStockCount,
		"recent_items":          recentItems,
		"supplier_count":        supplierCount,
		"client_count":          clientCount,
		"order_count":           orderCount,
		"pending_payment_count": pendingPaymentCount,
		"search_query":          search,
	})
}
