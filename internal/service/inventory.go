package service

import (
	"context"
	"time"

	"inventory-service/internal/model"

	"go.uber.org/zap"
)

// InventoryStore is the persistence port for the inventory ledger.
type InventoryStore interface {
	// ClientExists reports whether a client row exists.
	ClientExists(ctx context.Context, id uint) (bool, error)

	// CreateIssue atomically decrements the item's quantity and inserts the
	// issue row in a single transaction. Returns the item's new quantity, or
	// ErrItemNotFound / ErrInsufficientStock with no rows written.
	CreateIssue(ctx context.Context, issue *model.StockIssue) (int, error)

	// ListIssues returns issues newest first with item and client preloaded.
	ListIssues(ctx context.Context) ([]model.StockIssue, error)
}

// IssueStockRequest carries the validated fields for one stock issue.
type IssueStockRequest struct {
	ItemID    uint
	ClientID  *uint
	Quantity  int
	IssueDate time.Time
	IssuedBy  string
	Notes     string
}

// IssueStockResult is the outcome of a successful stock issue.
type IssueStockResult struct {
	Issue       *model.StockIssue
	NewQuantity int
}

// InventoryService maintains the non-negative invariant over item quantity
// when stock is issued.
type InventoryService struct {
	store InventoryStore
	log   *zap.Logger
}

// NewInventoryService creates an inventory service over the given store.
func NewInventoryService(store InventoryStore, log *zap.Logger) *InventoryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &InventoryService{store: store, log: log}
}

// IssueStock records a withdrawal of stock to a client. The quantity check
// and decrement happen inside one transaction in the store, so concurrent
// issuers can never drive an item's quantity negative. On
// ErrInsufficientStock nothing is written.
func (s *InventoryService) IssueStock(ctx context.Context, req IssueStockRequest) (*IssueStockResult, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	if req.ClientID != nil {
		exists, err := s.store.ClientExists(ctx, *req.ClientID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrClientNotFound
		}
	}

	issueDate := req.IssueDate
	if issueDate.IsZero() {
		issueDate = time.Now()
	}

	issue := &model.StockIssue{
		ItemID:    req.ItemID,
		ClientID:  req.ClientID,
		Quantity:  req.Quantity,
		IssueDate: issueDate,
		IssuedBy:  req.IssuedBy,
		Notes:     req.Notes,
	}

	newQuantity, err := s.store.CreateIssue(ctx, issue)
	if err != nil {
		return nil, err
	}

	s.log.Info("stock issued",
		zap.Uint("item_id", req.ItemID),
		zap.Int("quantity", req.Quantity),
		zap.Int("new_quantity", newQuantity),
		zap.String("issued_by", req.IssuedBy),
	)

	return &IssueStockResult{Issue: issue, NewQuantity: newQuantity}, nil
}

// ListIssues returns all recorded stock issues, newest first.
func (s *InventoryService) ListIssues(ctx context.Context) ([]model.StockIssue, error) {
	return s.store.ListIssues(ctx)
}
