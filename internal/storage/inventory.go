package storage

import (
	"context"
	"fmt"

	"inventory-service/internal/model"
	"inventory-service/internal/service"

	"gorm.io/gorm"
)

// InventoryStore is the gorm-backed implementation of service.InventoryStore.
type InventoryStore struct {
	db *gorm.DB
}

// NewInventoryStore creates an inventory store over the given database.
func NewInventoryStore(db *gorm.DB) *InventoryStore {
	return &InventoryStore{db: db}
}

// ClientExists reports whether a client row exists.
func (s *InventoryStore) ClientExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Client{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check client: %w", err)
	}
	return count > 0, nil
}

// CreateIssue decrements the item's quantity and inserts the issue row in one
// transaction. The decrement is a conditional single-row UPDATE guarded by
// `quantity >= ?`, so the check and the write are one atomic statement and
// concurrent issuers can never take quantity below zero.
func (s *InventoryStore) CreateIssue(ctx context.Context, issue *model.StockIssue) (int, error) {
	var newQuantity int

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Item{}).
			Where("id = ? AND quantity >= ?", issue.ItemID, issue.Quantity).
			UpdateColumn("quantity", gorm.Expr("quantity - ?", issue.Quantity))
		if res.Error != nil {
			return fmt.Errorf("decrement stock: %w", res.Error)
		}

		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&model.Item{}).Where("id = ?", issue.ItemID).Count(&count).Error; err != nil {
				return fmt.Errorf("check item: %w", err)
			}
			if count == 0 {
				return service.ErrItemNotFound
			}
			return service.ErrInsufficientStock
		}

		if err := tx.Create(issue).Error; err != nil {
			return fmt.Errorf("create issue: %w", err)
		}

		var item model.Item
		if err := tx.First(&item, issue.ItemID).Error; err != nil {
			return fmt.Errorf("reload item: %w", err)
		}
		newQuantity = item.Quantity
		return nil
	})
	if err != nil {
		return 0, err
	}

	return newQuantity, nil
}

// ListIssues returns all issues newest first with item and client preloaded.
func (s *InventoryStore) ListIssues(ctx context.Context) ([]model.StockIssue, error) {
	var issues []model.StockIssue
	err := s.db.WithContext(ctx).
		Preload("Item").
		Preload("Client").
		Order("issue_date desc, id desc").
		Find(&issues).Error
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	return issues, nil
}
