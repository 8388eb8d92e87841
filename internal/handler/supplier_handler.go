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
	"go.uber.org/zap"
)

// SupplierRequest defines the structure for supplier creation/update requests
type SupplierRequest struct {
	Name          string `json:"name" validate:"required"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	IsActive      *bool  `json:"is_active"`
}

// ListSuppliers retrieves all suppliers, optionally filtered by active status
func ListSuppliers(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("supplier", "list")

	query := database.GetDB().Model(&model.Supplier{})

	// Filter by active status if specified
	isActive := c.QueryParam("is_active")
	if isActive != "" {
		active, err := strconv.ParseBool(isActive)
		if err == nil {
			query = query.Where("is_active = ?", active)
			log.Info("Filtering suppliers by active status", zap.Bool("is_active", active))
		} else {
			log.Warn("Invalid is_active parameter", zap.String("value", isActive), zap.Error(err))
		}
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var suppliers []model.Supplier
	if result := query.Order("name asc").Find(&suppliers); result.Error != nil {
		log.Error("Failed to retrieve suppliers", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve suppliers"})
	}

	log.Info("Suppliers retrieved successfully", zap.Int("count", len(suppliers)))
	return c.JSON(http.StatusOK, suppliers)
}

// GetSupplier retrieves a supplier by ID
func GetSupplier(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("supplier", "get")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid supplier ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid supplier ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var supplier model.Supplier
	if result := database.GetDB().First(&supplier, id); result.Error != nil {
		log.Warn("Supplier not found", zap.Uint64("supplier_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Supplier not found"})
	}

	return c.JSON(http.StatusOK, supplier)
}

// CreateSupplier creates a new supplier
func CreateSupplier(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Creating new supplier")
	prometheus.RecordEntityOperation("supplier", "create")

	var req SupplierRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	supplier := model.Supplier{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		IsActive:      isActive,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	if result := database.GetDB().Create(&supplier); result.Error != nil {
		log.Error("Failed to create supplier", zap.String("name", req.Name), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create supplier"})
	}

	log.Info("Supplier created successfully", zap.Uint("id", supplier.ID), zap.String("name", supplier.Name))
	return c.JSON(http.StatusCreated, supplier)
}

// UpdateSupplier updates an existing supplier
func UpdateSupplier(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("supplier", "update")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid supplier ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid supplier ID"})
	}

	var req SupplierRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Uint64("supplier_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	var supplier model.Supplier
	if result := database.GetDB().First(&supplier, id); result.Error != nil {
		log.Warn("Supplier not found for update", zap.Uint64("supplier_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Supplier not found"})
	}

	supplier.Name = req.Name
	supplier.ContactPerson = req.ContactPerson
	supplier.Phone = req.Phone
	supplier.Email = req.Email
	supplier.Address = req.Address
	if req.IsActive != nil {
		supplier.IsActive = *req.IsActive
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	if result := database.GetDB().Save(&supplier); result.Error != nil {
		log.Error("Failed to update supplier", zap.Uint64("supplier_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update supplier"})
	}

	log.Info("Supplier updated successfully", zap.Uint64("supplier_id", id), zap.String("name", supplier.Name))
	return c.JSON(http.StatusOK, supplier)
}

// DeleteSupplier deletes a supplier (soft delete). Suppliers with historical
// orders are kept for audit integrity.
func DeleteSupplier(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("supplier", "delete")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid supplier ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid supplier ID"})
	}

	var supplier model.Supplier
	if result := database.GetDB().First(&supplier, id); result.Error != nil {
		log.Warn("Supplier not found for deletion", zap.Uint64("supplier_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Supplier not found"})
	}

	var orderCount int64
	database.GetDB().Model(&model.SupplierOrder{}).Where("supplier_id = ?", id).Count(&orderCount)
	if orderCount > 0 {
		log.Warn("Supplier has historical orders", zap.Uint64("supplier_id", id), zap.Int64("orders", orderCount))
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "Supplier has supplier orders and cannot be deleted",
		})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())

	if result := database.GetDB().Delete(&supplier); result.Error != nil {
		log.Error("Failed to delete supplier", zap.Uint64("supplier_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete supplier"})
	}

	log.Info("Supplier deleted successfully", zap.Uint64("supplier_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Supplier deleted successfully"})
}
