package handler

import (
	"errors"
	"net/http"
	"time"

	"inventory-service/internal/service"
	"inventory-service/pkg/logger"
	"inventory-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// IssueRequest defines the structure for stock issue creation requests
type IssueRequest struct {
	ItemID    uint       `json:"item_id" validate:"required"`
	ClientID  *uint      `json:"client_id"`
	Quantity  int        `json:"quantity" validate:"required,gt=0"`
	IssueDate *time.Time `json:"issue_date"`
	IssuedBy  string     `json:"issued_by"`
	Notes     string     `json:"notes"`
}

// ListIssues retrieves all stock issues, newest first
func ListIssues(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("issue", "list")

	defer prometheus.TrackDBOperation("query")(time.Now())

	issues, err := inventorySvc.ListIssues(c.Request().Context())
	if err != nil {
		log.Error("Failed to retrieve issues", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve issues"})
	}

	log.Info("Issues retrieved successfully", zap.Int("count", len(issues)))
	return c.JSON(http.StatusOK, issues)
}

// CreateIssue records a stock issue and decrements the item's quantity. The
// check and the decrement run in one transaction, so an issue can never take
// stock below zero.
func CreateIssue(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Creating new stock issue")
	prometheus.RecordEntityOperation("issue", "create")

	var req IssueRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.ItemID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "item_id is required"})
	}

	svcReq := service.IssueStockRequest{
		ItemID:   req.ItemID,
		ClientID: req.ClientID,
		Quantity: req.Quantity,
		IssuedBy: req.IssuedBy,
		Notes:    req.Notes,
	}
	if req.IssueDate != nil {
		svcReq.IssueDate = *req.IssueDate
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	result, err := inventorySvc.IssueStock(c.Request().Context(), svcReq)
	switch {
	case err == nil:
		prometheus.StockIssuesCounter.Inc()
		go updateStockGauges()
		log.Info("Issue recorded and stock updated",
			zap.Uint("issue_id", result.Issue.ID),
			zap.Uint("item_id", req.ItemID),
			zap.Int("quantity", req.Quantity),
			zap.Int("new_quantity", result.NewQuantity))
		return c.JSON(http.StatusCreated, echo.Map{
			"issue":        result.Issue,
			"new_quantity": result.NewQuantity,
		})
	case errors.Is(err, service.ErrInvalidQuantity):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be a positive integer"})
	case errors.Is(err, service.ErrItemNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Item not found"})
	case errors.Is(err, service.ErrClientNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Client not found"})
	case errors.Is(err, service.ErrInsufficientStock):
		prometheus.InsufficientStockCounter.Inc()
		log.Warn("Issue rejected: insufficient stock",
			zap.Uint("item_id", req.ItemID),
			zap.Int("quantity", req.Quantity))
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "Cannot issue more than the current stock quantity",
		})
	default:
		log.Error("Failed to create issue", zap.Uint("item_id", req.ItemID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create issue"})
	}
}
