package command

import (
	"context"
	"fmt"
	"slices"

	"github.com/tair/fabstock/internal/domain"
)

// UpdateItemCommand represents an edit of an item's details. History is never
// taken from the command.
type UpdateItemCommand struct {
	Actor        domain.TeamMember
	ID           string
	Name         string
	Description  string
	Category     domain.Category
	Quantity     int
	MinQuantity  int
	Location     string
	PricePerUnit *float64
}

// UpdateItemHandler handles update item command
type UpdateItemHandler struct {
	store domain.Store
}

// NewUpdateItemHandler creates a new update item handler
func NewUpdateItemHandler(store domain.Store) *UpdateItemHandler {
	return &UpdateItemHandler{store: store}
}

// Handle executes the update item command. A changed quantity requires the stock
// capability and is recorded as one Adjustment entry.
func (h *UpdateItemHandler) Handle(ctx context.Context, cmd UpdateItemCommand) (*domain.InventoryItem, error) {
	if err := validateItemFields(cmd.Name, cmd.Category, 0, cmd.MinQuantity, cmd.PricePerUnit); err != nil {
		return nil, err
	}
	if cmd.Category == "" {
		cmd.Category = domain.CategoryOther
	}

	var result domain.InventoryItem
	err := h.store.UpdateItems(ctx, func(items []domain.InventoryItem) ([]domain.InventoryItem, bool, error) {
		current, ok := domain.Find(items, cmd.ID)
		if !ok {
			return nil, false, domain.NotFound("item", cmd.ID)
		}

		at := now()
		updated := current
		updated.Name = cmd.Name
		updated.Description = cmd.Description
		updated.Category = cmd.Category
		updated.MinQuantity = cmd.MinQuantity
		updated.Location = cmd.Location
		updated.PricePerUnit = cmd.PricePerUnit
		updated.LastUpdated = at

		qty := max(0, cmd.Quantity)
		if qty != current.Quantity {
			if err := requireStockManager(cmd.Actor, "change stock quantities"); err != nil {
				return nil, false, err
			}
			updated.Quantity = qty
			updated.History = append(slices.Clip(current.History), domain.StockHistoryEntry{
				ID:                newID(),
				Date:              at,
				Type:              domain.MovementAdjustment,
				QuantityChange:    qty - current.Quantity,
				RemainingQuantity: qty,
				User:              cmd.Actor.Name,
			})
		}

		result = updated
		next, _ := domain.Replace(items, updated)
		return next, true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	return &result, nil
}
