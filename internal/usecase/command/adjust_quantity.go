package command

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/tair/fabstock/internal/domain"
)

// AdjustQuantityCommand represents a signed stock movement on one item
type AdjustQuantityCommand struct {
	Actor  domain.TeamMember
	ItemID string
	Delta  int
}

// AdjustQuantityHandler handles adjust quantity command
type AdjustQuantityHandler struct {
	store domain.Store
}

// NewAdjustQuantityHandler creates a new adjust quantity handler
func NewAdjustQuantityHandler(store domain.Store) *AdjustQuantityHandler {
	return &AdjustQuantityHandler{store: store}
}

// Handle executes the adjust quantity command. A movement that leaves the quantity
// unchanged returns the item as is and writes nothing.
func (h *AdjustQuantityHandler) Handle(ctx context.Context, cmd AdjustQuantityCommand) (*domain.InventoryItem, error) {
	if err := requireStockManager(cmd.Actor, "adjust stock"); err != nil {
		return nil, err
	}

	var result domain.InventoryItem
	err := h.store.UpdateItems(ctx, func(items []domain.InventoryItem) ([]domain.InventoryItem, bool, error) {
		item, ok := domain.Find(items, cmd.ItemID)
		if !ok {
			return nil, false, domain.NotFound("item", cmd.ItemID)
		}

		updated, changed := ApplyDelta(item, cmd.Delta, cmd.Actor.Name, now())
		result = updated
		if !changed {
			return items, false, nil
		}
		next, _ := domain.Replace(items, updated)
		return next, true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to adjust quantity: %w", err)
	}

	return &result, nil
}

// ApplyDelta moves the item's quantity by delta, clamped at zero, and appends one
// Addition or Removal entry recording the effective change. It reports false when
// the quantity did not change.
func ApplyDelta(item domain.InventoryItem, delta int, user string, at time.Time) (domain.InventoryItem, bool) {
	qty := max(0, item.Quantity+delta)
	change := qty - item.Quantity
	if change == 0 {
		return item, false
	}

	movement := domain.MovementAddition
	if change < 0 {
		movement = domain.MovementRemoval
	}
	item.History = append(slices.Clip(item.History), domain.StockHistoryEntry{
		ID:                newID(),
		Date:              at,
		Type:              movement,
		QuantityChange:    change,
		RemainingQuantity: qty,
		User:              user,
	})
	item.Quantity = qty
	item.LastUpdated = at
	return item, true
}
