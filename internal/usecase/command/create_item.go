package command

import (
	"context"
	"fmt"

	"github.com/tair/fabstock/internal/domain"
)

// CreateItemCommand represents the command to create an inventory item
type CreateItemCommand struct {
	Actor        domain.TeamMember
	Name         string
	Description  string
	Category     domain.Category
	Quantity     int
	MinQuantity  int
	Location     string
	PricePerUnit *float64
}

// CreateItemHandler handles create item command
type CreateItemHandler struct {
	store domain.Store
}

// NewCreateItemHandler creates a new create item handler
func NewCreateItemHandler(store domain.Store) *CreateItemHandler {
	return &CreateItemHandler{store: store}
}

// Handle executes the create item command
func (h *CreateItemHandler) Handle(ctx context.Context, cmd CreateItemCommand) (*domain.InventoryItem, error) {
	if err := requireStockManager(cmd.Actor, "create items"); err != nil {
		return nil, err
	}
	if err := validateItemFields(cmd.Name, cmd.Category, cmd.Quantity, cmd.MinQuantity, cmd.PricePerUnit); err != nil {
		return nil, err
	}
	if cmd.Category == "" {
		cmd.Category = domain.CategoryOther
	}

	at := now()
	item := domain.InventoryItem{
		ID:           newID(),
		Name:         cmd.Name,
		Description:  cmd.Description,
		Category:     cmd.Category,
		Quantity:     cmd.Quantity,
		MinQuantity:  cmd.MinQuantity,
		Location:     cmd.Location,
		LastUpdated:  at,
		PricePerUnit: cmd.PricePerUnit,
		History:      []domain.StockHistoryEntry{domain.CreationEntry(newID(), at, cmd.Quantity, cmd.Actor.Name)},
	}

	err := h.store.UpdateItems(ctx, func(items []domain.InventoryItem) ([]domain.InventoryItem, bool, error) {
		return domain.Prepend(items, item), true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	return &item, nil
}

func validateItemFields(name string, category domain.Category, qty, minQty int, price *float64) error {
	if err := required("name", name); err != nil {
		return err
	}
	if category != "" && !category.Valid() {
		return &domain.ValidationError{Field: "category", Message: "is not a known category"}
	}
	if err := nonNegative("quantity", qty); err != nil {
		return err
	}
	if err := nonNegative("minQuantity", minQty); err != nil {
		return err
	}
	return nonNegativePrice("pricePerUnit", price)
}
