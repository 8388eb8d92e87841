package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"inventory-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeInventoryStore mimics the transactional semantics of the gorm store:
// the decrement is guarded under one lock, and on rejection nothing is written.
type fakeInventoryStore struct {
	mu      sync.Mutex
	items   map[uint]*model.Item
	clients map[uint]bool
	issues  []model.StockIssue
	nextID  uint
}

func newFakeInventoryStore() *fakeInventoryStore {
	return &fakeInventoryStore{
		items:   make(map[uint]*model.Item),
		clients: make(map[uint]bool),
	}
}

func (f *fakeInventoryStore) ClientExists(ctx context.Context, id uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clients[id], nil
}

func (f *fakeInventoryStore) CreateIssue(ctx context.Context, issue *model.StockIssue) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.items[issue.ItemID]
	if !ok {
		return 0, ErrItemNotFound
	}
	if item.Quantity < issue.Quantity {
		return 0, ErrInsufficientStock
	}

	item.Quantity -= issue.Quantity
	f.nextID++
	issue.ID = f.nextID
	f.issues = append(f.issues, *issue)
	return item.Quantity, nil
}

func (f *fakeInventoryStore) ListIssues(ctx context.Context) ([]model.StockIssue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.StockIssue, len(f.issues))
	copy(out, f.issues)
	return out, nil
}

func TestIssueStock_Success(t *testing.T) {
	store := newFakeInventoryStore()
	store.items[1] = &model.Item{ID: 1, Name: "Cement", Quantity: 10}
	svc := NewInventoryService(store, nil)

	result, err := svc.IssueStock(context.Background(), IssueStockRequest{
		ItemID:   1,
		Quantity: 5,
		IssuedBy: "jane",
	})
	require.NoError(t, err)

	assert.Equal(t, 5, result.NewQuantity)
	assert.NotZero(t, result.Issue.ID)
	assert.Equal(t, 5, result.Issue.Quantity)
	assert.Equal(t, "jane", result.Issue.IssuedBy)
	assert.Equal(t, 5, store.items[1].Quantity)
	assert.Len(t, store.issues, 1)
}

func TestIssueStock_InsufficientStock(t *testing.T) {
	store := newFakeInventoryStore()
	store.items[1] = &model.Item{ID: 1, Name: "Cement", Quantity: 3}
	svc := NewInventoryService(store, nil)

	_, err := svc.IssueStock(context.Background(), IssueStockRequest{
		ItemID:   1,
		Quantity: 4,
	})
	require.ErrorIs(t, err, ErrInsufficientStock)

	// No mutation on rejection.
	assert.Equal(t, 3, store.items[1].Quantity)
	assert.Empty(t, store.issues)
}

func TestIssueStock_InvalidQuantity(t *testing.T) {
	store := newFakeInventoryStore()
	store.items[1] = &model.Item{ID: 1, Quantity: 3}
	svc := NewInventoryService(store, nil)

	for _, qty := range []int{0, -1} {
		_, err := svc.IssueStock(context.Background(), IssueStockRequest{ItemID: 1, Quantity: qty})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	}
	assert.Empty(t, store.issues)
}

func TestIssueStock_ItemNotFound(t *testing.T) {
	svc := NewInventoryService(newFakeInventoryStore(), nil)

	_, err := svc.IssueStock(context.Background(), IssueStockRequest{ItemID: 42, Quantity: 1})
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestIssueStock_ClientNotFound(t *testing.T) {
	store := newFakeInventoryStore()
	store.items[1] = &model.Item{ID: 1, Quantity: 10}
	svc := NewInventoryService(store, nil)

	clientID := uint(7)
	_, err := svc.IssueStock(context.Background(), IssueStockRequest{
		ItemID:   1,
		ClientID: &clientID,
		Quantity: 1,
	})
	assert.ErrorIs(t, err, ErrClientNotFound)
	assert.Equal(t, 10, store.items[1].Quantity)
}

func TestIssueStock_DefaultsIssueDate(t *testing.T) {
	store := newFakeInventoryStore()
	store.items[1] = &model.Item{ID: 1, Quantity: 10}
	svc := NewInventoryService(store, nil)

	before := time.Now()
	result, err := svc.IssueStock(context.Background(), IssueStockRequest{ItemID: 1, Quantity: 1})
	require.NoError(t, err)
	assert.False(t, result.Issue.IssueDate.Before(before))
}

func TestIssueStock_ConcurrentNeverNegative(t *testing.T) {
	initialStock := 20
	totalRequests := 50

	store := newFakeInventoryStore()
	store.items[1] = &model.Item{ID: 1, Quantity: initialStock}
	svc := NewInventoryService(store, nil)

	var successCount atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.IssueStock(context.Background(), IssueStockRequest{ItemID: 1, Quantity: 1})
			if err == nil {
				successCount.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(initialStock), successCount.Load())
	assert.Equal(t, 0, store.items[1].Quantity)
	assert.Len(t, store.issues, initialStock)
}
