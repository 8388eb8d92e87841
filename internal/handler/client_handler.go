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

// ClientRequest defines the structure for client creation/update requests
type ClientRequest struct {
	Name          string `json:"name" validate:"required"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
}

// ListClients retrieves all clients
func ListClients(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("client", "list")

	defer prometheus.TrackDBOperation("query")(time.Now())

	var clients []model.Client
	if result := database.GetDB().Order("name asc").Find(&clients); result.Error != nil {
		log.Error("Failed to retrieve clients", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve clients"})
	}

	log.Info("Clients retrieved successfully", zap.Int("count", len(clients)))
	return c.JSON(http.StatusOK, clients)
}

// GetClient retrieves a client by ID
func GetClient(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("client", "get")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid client ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid client ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var client model.Client
	if result := database.GetDB().First(&client, id); result.Error != nil {
		log.Warn("Client not found", zap.Uint64("client_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Client not found"})
	}

	return c.JSON(http.StatusOK, client)
}

// CreateClient creates a new client
func CreateClient(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Creating new client")
	prometheus.RecordEntityOperation("client", "create")

	var req ClientRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	client := model.Client{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	if result := database.GetDB().Create(&client); result.Error != nil {
		log.Error("Failed to create client", zap.String("name", req.Name), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create client"})
	}

	log.Info("Client created successfully", zap.Uint("id", client.ID), zap.String("name", client.Name))
	return c.JSON(http.StatusCreated, client)
}

// UpdateClient updates an existing client
func UpdateClient(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("client", "update")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid client ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid client ID"})
	}

	var req ClientRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Uint64("client_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	var client model.Client
	if result := database.GetDB().First(&client, id); result.Error != nil {
		log.Warn("Client not found for update", zap.Uint64("client_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Client not found"})
	}

	client.Name = req.Name
	client.ContactPerson = req.ContactPerson
	client.Phone = req.Phone
	client.Email = req.Email
	client.Address = req.Address

	defer prometheus.TrackDBOperation("update")(time.Now())

	if result := database.GetDB().Save(&client); result.Error != nil {
		log.Error("Failed to update client", zap.Uint64("client_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update client"})
	}

	log.Info("Client updated successfully", zap.Uint64("client_id", id), zap.String("name", client.Name))
	return c.JSON(http.StatusOK, client)
}

// DeleteClient deletes a client (soft delete). Clients with historical stock
// issues are kept for audit integrity.
func DeleteClient(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("client", "delete")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Error("Invalid client ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid client ID"})
	}

	var client model.Client
	if result := database.GetDB().First(&client, id); result.Error != nil {
		log.Warn("Client not found for deletion", zap.Uint64("client_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Client not found"})
	}

	var issueCount int64
	database.GetDB().Model(&model.StockIssue{}).Where("client_id = ?", id).Count(&issueCount)
	if issueCount > 0 {
		log.Warn("Client has historical stock issues", zap.Uint64("client_id", id), zap.Int64("issues", issueCount))
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "Client has stock issues and cannot be deleted",
		})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())

	if result := database.GetDB().Delete(&client); result.Error != nil {
		log.Error("Failed to delete client", zap.Uint64("client_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete client"})
	}

	log.Info("Client deleted successfully", zap.Uint64("client_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Client deleted successfully"})
}
