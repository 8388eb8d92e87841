package handler

import (
	"net/http"
	"strconv"
	"time"

	"inventory-service/internal/model"
	"inventory-service/pkg/database"
	"inventory-service/pkg/logger"
	"inventory-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ItemRequest defines the structure for item creation/update requests
type ItemRequest struct {
	Name         string          `json:"name" validate:"required"`
	Category     string          `json:"category"`
	Description  string          `json:"description"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	ReorderLevel int             `json:"reorder_level"`
}

func (r *ItemRequest) validate() string {
	if r.Name == "" {
		return "name is required"
	}
	if r.Quantity < 0 {
		return "quantity must not be negative"
	}
	if r.ReorderLevel < 0 {
		return "reorder_level must not be negative"
	}
	if r.UnitPrice.IsNegative() {
		return "unit_price must not be negative"
	}
	return ""
}

// ListItems retrieves all items, optionally filtered by a name search
func ListItems(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("item", "list")

	query := database.GetDB().Model(&model.Item{})

	search := c.QueryParam("search")
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
		log.Info("Filtering items by name", zap.String("search", search))
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var items []model.Item
	if result := query.Order("name asc").Find(&items); result.Error != nil {
		log.Error("Failed to list items", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve items"})
	}

	log.Info("Items retrieved successfully", zap.Int("count", len(items)))
	return c.JSON(http.StatusOK, items)
}

// GetItem retrieves a single item by ID
func GetItem(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("item", "get")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid item ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid item ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var item model.Item
	if result := database.GetDB().First(&item, id); result.Error != nil {
		log.Warn("Item not found", zap.Uint64("item_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Item not found"})
	}

	return c.JSON(http.StatusOK, item)
}

// CreateItem creates a new item
func CreateItem(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Creating new item")
	prometheus.RecordEntityOperation("item", "create")

	var req ItemRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	item := model.Item{
		Name:         req.Name,
		Category:     req.Category,
		Description:  req.Description,
		Quantity:     req.Quantity,
		UnitPrice:    req.UnitPrice,
		ReorderLevel: req.ReorderLevel,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	if result := database.GetDB().Create(&item); result.Error != nil {
		log.Error("Failed to create item", zap.String("name", req.Name), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create item"})
	}

	item.Refresh()
	go updateStockGauges()

	log.Info("Item created successfully",
		zap.Uint("id", item.ID),
		zap.String("name", item.Name),
		zap.Int("quantity", item.Quantity))
	return c.JSON(http.StatusCreated, item)
}

// UpdateItem updates an existing item
func UpdateItem(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("item", "update")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid item ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid item ID"})
	}

	var req ItemRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Uint64("item_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	var item model.Item
	if result := database.GetDB().First(&item, id); result.Error != nil {
		log.Warn("Item not found for update", zap.Uint64("item_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Item not found"})
	}

	item.Name = req.Name
	item.Category = req.Category
	item.Description = req.Description
	item.Quantity = req.Quantity
	item.UnitPrice = req.UnitPrice
	item.ReorderLevel = req.ReorderLevel

	defer prometheus.TrackDBOperation("update")(time.Now())

	if result := database.GetDB().Save(&item); result.Error != nil {
		log.Error("Failed to update item", zap.Uint64("item_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update item"})
	}

	item.Refresh()
	go updateStockGauges()

	log.Info("Item updated successfully", zap.Uint64("item_id", id), zap.String("name", item.Name))
	return c.JSON(http.StatusOK, item)
}

// DeleteItem deletes an item (soft delete). Items referenced by supplier
// orders or stock issues are kept for audit integrity.
func DeleteItem(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("item", "delete")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid item ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid item ID"})
	}

	var item model.Item
	if result := database.GetDB().First(&item, id); result.Error != nil {
		log.Warn("Item not found for deletion", zap.Uint64("item_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Item not found"})
	}

	var orderCount, issueCount int64
	database.GetDB().Model(&model.SupplierOrder{}).Where("item_id = ?", id).Count(&orderCount)
	database.GetDB().Model(&model.StockIssue{}).Where("item_id = ?", id).Count(&issueCount)
	if orderCount > 0 || issueCount > 0 {
		log.Warn("Item has historical orders or issues",
			zap.Uint64("item_id", id),
			zap.Int64("orders", orderCount),
			zap.Int64("issues", issueCount))
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "Item has supplier orders or stock issues and cannot be deleted",
		})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())

	if result := database.GetDB().Delete(&item); result.Error != nil {
		log.Error("Failed to delete item", zap.Uint64("item_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete item"})
	}

	go updateStockGauges()

	log.Info("Item deleted successfully", zap.Uint64("item_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Item deleted successfully"})
}

// Helper function to refresh the low/out-of-stock gauges
func updateStockGauges() {
	db := database.GetDB()
	if db == nil {
		return
	}

	var lowStock, outOfStock int64
	db.Model(&model.Item{}).
		Where("quantity > 0 AND quantity <= reorder_level").
		Count(&lowStock)
	db.Model(&model.Item{}).
		Where("quantity = 0").
		Count(&outOfStock)
	prometheus.UpdateStockGauges(lowStock, outOfStock)
}
