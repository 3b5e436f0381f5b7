package query

import (
	"slices"

	"github.com/tair/fabstock/internal/domain"
)

// ItemView is an item with its derived stock status.
type ItemView struct {
	domain.InventoryItem
	Status domain.StockStatus `json:"status"`
}

// ListItemsQuery filters the inventory. Zero values match everything.
type ListItemsQuery struct {
	Search       string
	Category     domain.Category
	LowStockOnly bool
}

// ListItemsHandler handles list items query
type ListItemsHandler struct {
	reader Reader
}

// NewListItemsHandler creates a new list items handler
func NewListItemsHandler(reader Reader) *ListItemsHandler {
	return &ListItemsHandler{reader: reader}
}

// Handle returns the matching items in collection order. Search matches the name or
// the description, ignoring case.
func (h *ListItemsHandler) Handle(q ListItemsQuery) []ItemView {
	views := []ItemView{}
	for _, item := range h.reader.Items() {
		if q.Category != "" && item.Category != q.Category {
			continue
		}
		if q.LowStockOnly && !item.IsLow() {
			continue
		}
		if q.Search != "" && !containsFold(item.Name, q.Search) && !containsFold(item.Description, q.Search) {
			continue
		}
		views = append(views, ItemView{InventoryItem: item, Status: item.Status()})
	}
	return views
}

// GetItemHandler handles get item query
type GetItemHandler struct {
	reader Reader
}

// NewGetItemHandler creates a new get item handler
func NewGetItemHandler(reader Reader) *GetItemHandler {
	return &GetItemHandler{reader: reader}
}

// Handle returns one item
func (h *GetItemHandler) Handle(id string) (*ItemView, error) {
	item, ok := domain.Find(h.reader.Items(), id)
	if !ok {
		return nil, domain.NotFound("item", id)
	}
	return &ItemView{InventoryItem: item, Status: item.Status()}, nil
}

// GetItemHistoryHandler handles item history query
type GetItemHistoryHandler struct {
	reader Reader
}

// NewGetItemHistoryHandler creates a new item history handler
func NewGetItemHistoryHandler(reader Reader) *GetItemHistoryHandler {
	return &GetItemHistoryHandler{reader: reader}
}

// Handle returns the item's movements, newest first.
func (h *GetItemHistoryHandler) Handle(id string) ([]domain.StockHistoryEntry, error) {
	item, ok := domain.Find(h.reader.Items(), id)
	if !ok {
		return nil, domain.NotFound("item", id)
	}

	history := slices.Clone(item.History)
	slices.SortStableFunc(history, func(a, b domain.StockHistoryEntry) int {
		return b.Date.Compare(a.Date)
	})
	if history == nil {
		history = []domain.StockHistoryEntry{}
	}
	return history, nil
}
